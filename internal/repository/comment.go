package repository

import (
	"context"
	"errors"
	"time"

	"kindathreads/internal/cache"
	"kindathreads/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	// ListByPostAndRange returns the post's comments created inside the
	// inclusive [from, to] window whose blocked state matches
	// visibleBlocked, oldest first.
	ListByPostAndRange(ctx context.Context, postID uint, from, to time.Time, visibleBlocked bool) ([]*models.Comment, error)
	// ListByDateAndUser returns comments created on any day inside the
	// inclusive [dateFrom, dateTo] date window that involve the given user:
	// written by them, on one of their posts, or replying to one of their
	// comments. Post and Parent come preloaded for direction breakdowns.
	ListByDateAndUser(ctx context.Context, dateFrom, dateTo time.Time, userID uint) ([]*models.Comment, error)
	UpdateContent(ctx context.Context, id uint, content string, blocked bool) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPostAndRange(
	ctx context.Context,
	postID uint,
	from, to time.Time,
	visibleBlocked bool,
) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("is_blocked = ?", visibleBlocked).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) ListByDateAndUser(
	ctx context.Context,
	dateFrom, dateTo time.Time,
	userID uint,
) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Post").
		Preload("Parent").
		Joins("LEFT JOIN posts ON posts.id = comments.post_id").
		Joins("LEFT JOIN comments parents ON parents.id = comments.parent_id").
		Where("comments.created_at >= ? AND comments.created_at < ?",
			startOfDay(dateFrom), startOfNextDay(dateTo)).
		Where("comments.owner_id = ? OR posts.owner_id = ? OR parents.owner_id = ?",
			userID, userID, userID).
		Order("comments.created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint, content string, blocked bool) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("id", "post_id").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", id)
		}
		return models.NewInternalError(err)
	}

	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
			"is_blocked": blocked,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

// Delete removes the comment and its whole reply subtree in one transaction.
// Descendants are collected by repeated parent-id lookups, level by level.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", id)
		}
		return models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uint{id}
		frontier := []uint{id}
		for len(frontier) > 0 {
			var children []uint
			if err := tx.Model(&models.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			frontier = children
			ids = append(ids, children...)
		}
		return tx.Delete(&models.Comment{}, ids).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}
