// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account that owns posts and comments.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FullName    string         `gorm:"size:100;not null" json:"full_name"`
	Nickname    string         `gorm:"size:100;unique;not null" json:"nickname"`
	Email       string         `gorm:"size:320;unique;index;not null" json:"email"`
	Password    string         `gorm:"size:1024;not null" json:"-"`
	IsActive    bool           `gorm:"default:true;not null" json:"is_active"`
	IsSuperuser bool           `gorm:"default:false;not null" json:"is_superuser"`
	IsVerified  bool           `gorm:"default:false;not null" json:"is_verified"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:OwnerID" json:"posts,omitempty"`
	Comments    []Comment      `gorm:"foreignKey:OwnerID" json:"comments,omitempty"`
}
