package repository

import (
	"context"
	"errors"
	"time"

	"kindathreads/internal/cache"
	"kindathreads/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// ListByOwnerAndRange returns the owner's posts created inside the
	// inclusive [from, to] window whose blocked state matches
	// visibleBlocked, newest first.
	ListByOwnerAndRange(ctx context.Context, ownerID uint, from, to time.Time, visibleBlocked bool) ([]*models.Post, error)
	// ListByDateAndUser returns posts created on any day inside the
	// inclusive [dateFrom, dateTo] date window, optionally scoped to one
	// owner (ownerID 0 means all owners), regardless of blocked state.
	ListByDateAndUser(ctx context.Context, dateFrom, dateTo time.Time, ownerID uint) ([]*models.Post, error)
	UpdateContent(ctx context.Context, id uint, content string, blocked bool) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		if err := r.db.WithContext(ctx).
			Preload("Comments", func(db *gorm.DB) *gorm.DB {
				return db.Order("comments.created_at DESC")
			}).
			First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListByOwnerAndRange(
	ctx context.Context,
	ownerID uint,
	from, to time.Time,
	visibleBlocked bool,
) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Where("owner_id = ?", ownerID).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Where("is_blocked = ?", visibleBlocked).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByDateAndUser(
	ctx context.Context,
	dateFrom, dateTo time.Time,
	ownerID uint,
) ([]*models.Post, error) {
	query := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", startOfDay(dateFrom), startOfNextDay(dateTo))
	if ownerID != 0 {
		query = query.Where("owner_id = ?", ownerID)
	}

	var posts []*models.Post
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, id uint, content string, blocked bool) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
			"is_blocked": blocked,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// Delete removes the post and all of its comments in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

// startOfDay truncates a timestamp to midnight UTC.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// startOfNextDay returns midnight UTC of the following day, so date windows
// stay inclusive of their upper bound.
func startOfNextDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1)
}
