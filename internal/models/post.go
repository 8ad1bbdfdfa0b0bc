package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a short published text owned by a user. IsBlocked is
// derived from the latest moderation verdict on the current content and is
// never set directly by callers.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	IsBlocked bool           `gorm:"default:false;not null" json:"is_blocked"`
	AutoReply bool           `gorm:"default:false;not null" json:"auto_reply"`
	OwnerID   uint           `gorm:"not null;index" json:"owner_id"`
	Owner     User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Comments  []Comment      `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// EntityID returns the post's primary key.
func (p *Post) EntityID() uint { return p.ID }

// Body returns the moderatable text content.
func (p *Post) Body() string { return p.Content }

// SetBody overwrites the text content.
func (p *Post) SetBody(content string) { p.Content = content }

// SetBlocked records the outcome of the latest moderation check.
func (p *Post) SetBlocked(blocked bool) { p.IsBlocked = blocked }

// Blocked reports whether the latest moderation check failed.
func (p *Post) Blocked() bool { return p.IsBlocked }

// OwnedBy reports whether the post belongs to the given user.
func (p *Post) OwnedBy(userID uint) bool { return p.OwnerID == userID }
