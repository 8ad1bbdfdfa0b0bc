package seed

import (
	"fmt"
	"os"

	"kindathreads/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Profile describes a deterministic fixture: named users and the exact
// posts and comment threads between them. Profiles complement the random
// seeder when a demo needs a reproducible conversation.
type Profile struct {
	Users []ProfileUser `yaml:"users"`
	Posts []ProfilePost `yaml:"posts"`
}

type ProfileUser struct {
	Nickname string `yaml:"nickname"`
	FullName string `yaml:"full_name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type ProfilePost struct {
	Owner     string           `yaml:"owner"`
	Content   string           `yaml:"content"`
	AutoReply bool             `yaml:"auto_reply"`
	Blocked   bool             `yaml:"blocked"`
	Comments  []ProfileComment `yaml:"comments"`
}

type ProfileComment struct {
	Author        string           `yaml:"author"`
	Content       string           `yaml:"content"`
	Blocked       bool             `yaml:"blocked"`
	AutoGenerated bool             `yaml:"auto_generated"`
	Replies       []ProfileComment `yaml:"replies"`
}

// LoadProfile parses a profile from a YAML file.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	var profile Profile
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// Apply writes the profile's users, posts, and comment trees to the
// database. Users are keyed by nickname; a post or comment referencing an
// undeclared nickname is an error.
func (p *Profile) Apply(db *gorm.DB) error {
	byNickname := make(map[string]*models.User, len(p.Users))
	for _, pu := range p.Users {
		password := pu.Password
		if password == "" {
			password = "password123"
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &models.User{
			FullName: pu.FullName,
			Nickname: pu.Nickname,
			Email:    pu.Email,
			Password: string(hashed),
			IsActive: true,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %q: %w", pu.Nickname, err)
		}
		byNickname[pu.Nickname] = user
	}

	for _, pp := range p.Posts {
		owner, ok := byNickname[pp.Owner]
		if !ok {
			return fmt.Errorf("post owner %q is not declared in the profile", pp.Owner)
		}
		post := &models.Post{
			Content:   pp.Content,
			OwnerID:   owner.ID,
			AutoReply: pp.AutoReply,
			IsBlocked: pp.Blocked,
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("failed to create post for %q: %w", pp.Owner, err)
		}
		if err := applyComments(db, byNickname, post, nil, pp.Comments); err != nil {
			return err
		}
	}
	return nil
}

func applyComments(db *gorm.DB, users map[string]*models.User, post *models.Post, parent *models.Comment, comments []ProfileComment) error {
	for _, pc := range comments {
		author, ok := users[pc.Author]
		if !ok {
			return fmt.Errorf("comment author %q is not declared in the profile", pc.Author)
		}
		comment := &models.Comment{
			Content:       pc.Content,
			OwnerID:       author.ID,
			PostID:        post.ID,
			IsBlocked:     pc.Blocked,
			AutoGenerated: pc.AutoGenerated,
		}
		if parent != nil {
			comment.ParentID = &parent.ID
		}
		if err := db.Create(comment).Error; err != nil {
			return fmt.Errorf("failed to create comment by %q: %w", pc.Author, err)
		}
		if err := applyComments(db, users, post, comment, pc.Replies); err != nil {
			return err
		}
	}
	return nil
}
