package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"kindathreads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_CreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	post := seedPost(t, db, alice.ID, "topic")

	comment := &models.Comment{Content: "nice one", OwnerID: bob.ID, PostID: post.ID}
	require.NoError(t, repo.Create(ctx, comment))
	require.NotZero(t, comment.ID)

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "nice one", got.Content)
	assert.Equal(t, bob.ID, got.OwnerID)
	assert.Nil(t, got.ParentID)
}

func TestCommentRepository_GetByID_PreloadsRepliesOldestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "topic")
	base := time.Now().UTC().Add(-time.Hour)
	root := seedComment(t, db, alice.ID, post.ID, "root", withCreatedAt(base))
	seedComment(t, db, alice.ID, post.ID, "second", withParent(root.ID), withCreatedAt(base.Add(20*time.Minute)))
	seedComment(t, db, alice.ID, post.ID, "first", withParent(root.ID), withCreatedAt(base.Add(10*time.Minute)))

	got, err := repo.GetByID(context.Background(), root.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, "first", got.Replies[0].Content)
	assert.Equal(t, "second", got.Replies[1].Content)
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	repo := NewCommentRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), 999)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCommentRepository_ListByPostAndRange(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "topic")
	other := seedPost(t, db, alice.ID, "other topic")

	now := time.Now().UTC()
	older := seedComment(t, db, alice.ID, post.ID, "older", withCreatedAt(now.Add(-90*time.Minute)))
	newer := seedComment(t, db, alice.ID, post.ID, "newer", withCreatedAt(now.Add(-30*time.Minute)))
	seedComment(t, db, alice.ID, post.ID, "out of range", withCreatedAt(now.Add(-48*time.Hour)))
	seedComment(t, db, alice.ID, other.ID, "other post", withCreatedAt(now.Add(-30*time.Minute)))

	blocked := seedComment(t, db, alice.ID, post.ID, "blocked", withCreatedAt(now.Add(-30*time.Minute)))
	require.NoError(t, db.Model(&models.Comment{}).Where("id = ?", blocked.ID).
		Update("is_blocked", true).Error)

	comments, err := repo.ListByPostAndRange(ctx, post.ID, now.Add(-2*time.Hour), now, false)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, older.ID, comments[0].ID)
	assert.Equal(t, newer.ID, comments[1].ID)

	blockedOnly, err := repo.ListByPostAndRange(ctx, post.ID, now.Add(-2*time.Hour), now, true)
	require.NoError(t, err)
	require.Len(t, blockedOnly, 1)
	assert.Equal(t, blocked.ID, blockedOnly[0].ID)
}

func TestCommentRepository_ListByDateAndUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	alicePost := seedPost(t, db, alice.ID, "alice post")
	bobPost := seedPost(t, db, bob.ID, "bob post")

	today := time.Now().UTC()

	// Written by alice on someone else's post.
	sent := seedComment(t, db, alice.ID, bobPost.ID, "sent", withCreatedAt(today))
	// Written by bob on alice's post.
	received := seedComment(t, db, bob.ID, alicePost.ID, "received", withCreatedAt(today))
	// Carol replying to alice's comment on bob's post: alice is involved
	// only through the parent.
	aliceOnBob := seedComment(t, db, alice.ID, bobPost.ID, "parent", withCreatedAt(today))
	replyToAlice := seedComment(t, db, carol.ID, bobPost.ID, "reply to alice",
		withParent(aliceOnBob.ID), withCreatedAt(today))
	// Carol talking to bob; alice is not involved at all.
	seedComment(t, db, carol.ID, bobPost.ID, "unrelated", withCreatedAt(today))
	// Involved but outside the date window.
	seedComment(t, db, alice.ID, bobPost.ID, "last week", withCreatedAt(today.AddDate(0, 0, -7)))

	comments, err := repo.ListByDateAndUser(ctx, today, today, alice.ID)
	require.NoError(t, err)

	ids := make(map[uint]bool, len(comments))
	for _, c := range comments {
		ids[c.ID] = true
	}
	assert.Len(t, comments, 4)
	assert.True(t, ids[sent.ID])
	assert.True(t, ids[received.ID])
	assert.True(t, ids[aliceOnBob.ID])
	assert.True(t, ids[replyToAlice.ID])

	// Post and Parent come preloaded for direction classification.
	for _, c := range comments {
		require.NotNil(t, c.Post)
		if c.ID == replyToAlice.ID {
			require.NotNil(t, c.Parent)
			assert.Equal(t, alice.ID, c.Parent.OwnerID)
		}
	}
}

func TestCommentRepository_UpdateContent(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "topic")
	comment := seedComment(t, db, alice.ID, post.ID, "before")

	require.NoError(t, repo.UpdateContent(ctx, comment.ID, "after", true))

	var got models.Comment
	require.NoError(t, db.First(&got, comment.ID).Error)
	assert.Equal(t, "after", got.Content)
	assert.True(t, got.IsBlocked)
}

func TestCommentRepository_UpdateContent_NotFound(t *testing.T) {
	repo := NewCommentRepository(newTestDB(t))

	err := repo.UpdateContent(context.Background(), 999, "x", false)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCommentRepository_Delete_RemovesSubtree(t *testing.T) {
	db := newTestDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	post := seedPost(t, db, alice.ID, "topic")

	root := seedComment(t, db, alice.ID, post.ID, "root")
	child := seedComment(t, db, alice.ID, post.ID, "child", withParent(root.ID))
	grandchild := seedComment(t, db, alice.ID, post.ID, "grandchild", withParent(child.ID))
	sibling := seedComment(t, db, alice.ID, post.ID, "sibling")

	require.NoError(t, repo.Delete(ctx, root.ID))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).
		Where("id IN ?", []uint{root.ID, child.ID, grandchild.ID}).
		Count(&count).Error)
	assert.Zero(t, count)

	var kept models.Comment
	require.NoError(t, db.First(&kept, sibling.ID).Error)
	assert.Equal(t, "sibling", kept.Content)
}

func TestCommentRepository_Delete_NotFound(t *testing.T) {
	repo := NewCommentRepository(newTestDB(t))

	err := repo.Delete(context.Background(), 999)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
