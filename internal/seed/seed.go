package seed

import (
	"fmt"
	"log"

	"kindathreads/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a believable content graph: users,
// posts, threaded comments, and generated replies on auto-reply posts.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder with the given options.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:      db,
		factory: NewFactory(db, opts),
		opts:    opts,
	}
}

// ClearAll removes all seeded content. Order matters: comments reference
// posts and users; posts reference users.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed builds the full demo graph and reports what it created.
func (s *Seeder) Seed() error {
	users, err := s.SeedUsers(s.opts.Users)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	posts, err := s.SeedPosts(users, s.opts.Posts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("Created %d posts", len(posts))

	commentCount, err := s.SeedThreads(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("Created %d comments", commentCount)
	return nil
}

// SeedUsers creates count users.
func (s *Seeder) SeedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedPosts creates count posts spread over the configured users and window.
func (s *Seeder) SeedPosts(users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("cannot seed posts without users")
	}
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		owner := users[i%len(users)]
		posts = append(posts, s.factory.BuildPost(owner))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SeedThreads puts a short comment thread under every post. Published
// comments by someone other than the owner on an auto-reply post also get a
// generated-looking reply from the post owner, mirroring what the live
// pipeline produces.
func (s *Seeder) SeedThreads(users []*models.User, posts []*models.Post) (int, error) {
	if len(users) < 2 {
		return 0, fmt.Errorf("need at least two users to build threads")
	}

	created := 0
	for i, post := range posts {
		if post.IsBlocked {
			// Blocked posts do not accept comments.
			continue
		}

		commenter := users[(i+1)%len(users)]
		comment := s.factory.BuildComment(commenter, post, nil)
		if err := s.factory.CreateComment(comment); err != nil {
			return created, err
		}
		created++

		eligible := post.AutoReply && commenter.ID != post.OwnerID && !comment.IsBlocked
		if eligible {
			reply := s.factory.BuildComment(&models.User{ID: post.OwnerID}, post, comment,
				func(c *models.Comment) {
					c.AutoGenerated = true
					c.IsBlocked = false
				})
			if err := s.factory.CreateComment(reply); err != nil {
				return created, err
			}
			created++
		}

		// An occasional human follow-up keeps threads from looking uniform.
		if i%3 == 0 {
			follower := users[(i+2)%len(users)]
			followUp := s.factory.BuildComment(follower, post, comment)
			if err := s.factory.CreateComment(followUp); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
