package repository

import (
	"testing"
	"time"

	"kindathreads/internal/database"
	"kindathreads/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		FullName: nickname + " Test",
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Password: "irrelevant",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, ownerID uint, content string, opts ...func(*models.Post)) *models.Post {
	t.Helper()
	post := &models.Post{Content: content, OwnerID: ownerID}
	for _, opt := range opts {
		opt(post)
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, ownerID, postID uint, content string, opts ...func(*models.Comment)) *models.Comment {
	t.Helper()
	comment := &models.Comment{Content: content, OwnerID: ownerID, PostID: postID}
	for _, opt := range opts {
		opt(comment)
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func withParent(parentID uint) func(*models.Comment) {
	return func(c *models.Comment) { c.ParentID = &parentID }
}

func withCreatedAt(ts time.Time) func(*models.Comment) {
	return func(c *models.Comment) { c.CreatedAt = ts }
}

func postCreatedAt(ts time.Time) func(*models.Post) {
	return func(p *models.Post) { p.CreatedAt = ts }
}

func postBlocked() func(*models.Post) {
	return func(p *models.Post) { p.IsBlocked = true }
}
