package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a threaded comment on a post. ParentID points at an
// optional parent comment on the same post; AutoGenerated marks replies
// produced by the generation gateway so they never trigger a further
// auto-reply themselves.
type Comment struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Content       string         `gorm:"size:255;not null" json:"content"`
	IsBlocked     bool           `gorm:"default:false;not null" json:"is_blocked"`
	AutoGenerated bool           `gorm:"default:false;not null" json:"auto_generated"`
	OwnerID       uint           `gorm:"not null;index" json:"owner_id"`
	Owner         User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	PostID        uint           `gorm:"not null;index" json:"post_id"`
	Post          *Post          `gorm:"foreignKey:PostID" json:"post,omitempty"`
	ParentID      *uint          `gorm:"index" json:"parent_id,omitempty"`
	Parent        *Comment       `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Replies       []Comment      `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"replies,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// EntityID returns the comment's primary key.
func (c *Comment) EntityID() uint { return c.ID }

// Body returns the moderatable text content.
func (c *Comment) Body() string { return c.Content }

// SetBody overwrites the text content.
func (c *Comment) SetBody(content string) { c.Content = content }

// SetBlocked records the outcome of the latest moderation check.
func (c *Comment) SetBlocked(blocked bool) { c.IsBlocked = blocked }

// Blocked reports whether the latest moderation check failed.
func (c *Comment) Blocked() bool { return c.IsBlocked }

// OwnedBy reports whether the comment belongs to the given user.
func (c *Comment) OwnedBy(userID uint) bool { return c.OwnerID == userID }

// ParentOwnedBy reports whether the preloaded parent comment, if any,
// belongs to the given user. An absent parent is never a match.
func (c *Comment) ParentOwnedBy(userID uint) bool {
	return c.Parent != nil && c.Parent.OwnerID == userID
}
