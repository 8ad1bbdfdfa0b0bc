// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"kindathreads/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes the volume and shape of generated data.
type Options struct {
	Users int
	Posts int
	// MaxDays spreads created_at timestamps over the past N days.
	MaxDays int
	// BlockedRatio is the fraction of seeded content marked blocked, as if
	// it had failed moderation. Values outside [0,1] are clamped.
	BlockedRatio float64
	// AutoReplyRatio is the fraction of posts with auto-reply enabled.
	AutoReplyRatio float64
	// SkipBcrypt stores plaintext passwords for faster bulk seeding.
	SkipBcrypt bool
	// DryRun builds entities and assigns synthetic IDs without DB writes.
	DryRun bool
}

// DefaultOptions returns the volumes used when flags are left unset.
func DefaultOptions() Options {
	return Options{
		Users:          25,
		Posts:          100,
		MaxDays:        90,
		BlockedRatio:   0.1,
		AutoReplyRatio: 0.4,
	}
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:     db,
		opts:   opts,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		nextID: 1000,
	}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving. All seeded users
// share the password "password123".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		FullName: gofakeit.Name(),
		Nickname: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		IsActive: true,
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.Nickname, user.Email)
		return user, nil
	}
	return user, f.db.Create(user).Error
}

// BuildPost constructs a post for the given owner without persisting it.
// Useful for batching.
func (f *Factory) BuildPost(owner *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Content:   gofakeit.Paragraph(1, 3, 8, " "),
		OwnerID:   owner.ID,
		AutoReply: f.chance(f.opts.AutoReplyRatio),
		IsBlocked: f.chance(f.opts.BlockedRatio),
		CreatedAt: f.spreadTimestamp(),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// BuildComment constructs a comment on the given post without persisting it.
// A non-nil parent threads the comment underneath it.
func (f *Factory) BuildComment(owner *models.User, post *models.Post, parent *models.Comment, overrides ...func(*models.Comment)) *models.Comment {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(f.rng.Intn(10) + 3),
		OwnerID:   owner.ID,
		PostID:    post.ID,
		IsBlocked: f.chance(f.opts.BlockedRatio),
		CreatedAt: f.afterTimestamp(post.CreatedAt),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
		comment.CreatedAt = f.afterTimestamp(parent.CreatedAt)
	}
	for _, override := range overrides {
		override(comment)
	}
	return comment
}

// CreateComment persists a single comment.
func (f *Factory) CreateComment(comment *models.Comment) error {
	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return nil
	}
	return f.db.Create(comment).Error
}

func (f *Factory) chance(ratio float64) bool {
	if ratio <= 0 {
		return false
	}
	if ratio >= 1 {
		return true
	}
	return f.rng.Float64() < ratio
}

// spreadTimestamp picks a created_at within the configured window so seeded
// data exercises date-range queries and daily breakdowns.
func (f *Factory) spreadTimestamp() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// afterTimestamp picks a moment after the anchor but not in the future.
func (f *Factory) afterTimestamp(anchor time.Time) time.Time {
	gap := time.Since(anchor)
	if gap <= time.Minute {
		return anchor.Add(time.Second)
	}
	return anchor.Add(time.Duration(f.rng.Int63n(int64(gap))))
}
