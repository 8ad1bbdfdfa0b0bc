package service

import (
	"context"
	"strings"
	"time"

	"kindathreads/internal/models"
	"kindathreads/internal/repository"
)

// PostService owns the post lifecycle: moderation-aware create/update,
// owner-scoped listing and cascading delete.
type PostService struct {
	posts    repository.PostRepository
	pipeline *Lifecycle[*models.Post]
}

type CreatePostInput struct {
	OwnerID   uint
	Content   string
	AutoReply bool
}

type GetPostInput struct {
	// PathOwnerID is the owner implied by the request path, which must
	// match the post's actual owner.
	PathOwnerID uint
	PostID      uint
}

type ListPostsInput struct {
	PathOwnerID uint
	From        time.Time
	To          time.Time
	// VisibleBlocked selects the blocked view instead of the published one.
	VisibleBlocked bool
}

type UpdatePostInput struct {
	ActorID     uint
	PathOwnerID uint
	PostID      uint
	Content     string
}

type DeletePostInput struct {
	ActorID     uint
	PathOwnerID uint
	PostID      uint
}

// NewPostService returns a PostService writing through the given moderator.
func NewPostService(posts repository.PostRepository, moderator Moderator) *PostService {
	return &PostService{
		posts:    posts,
		pipeline: NewLifecycle[*models.Post](posts, moderator, "post"),
	}
}

// CreatePost moderates and persists a new post. Unsafe content is stored in
// blocked state rather than rejected; the returned post carries the verdict.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	post := &models.Post{
		Content:   in.Content,
		OwnerID:   in.OwnerID,
		AutoReply: in.AutoReply,
	}
	if err := s.pipeline.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost loads a post and verifies it belongs to the path-implied owner.
func (s *PostService) GetPost(ctx context.Context, in GetPostInput) (*models.Post, error) {
	post, err := s.pipeline.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(in.PathOwnerID) {
		return nil, models.NewOwnershipMismatchError("Post", in.PostID, in.PathOwnerID)
	}
	return post, nil
}

// ListPosts returns the owner's posts inside an inclusive timestamp window,
// newest first, filtered to one blocked-state view. An empty result is a
// valid outcome, not an error.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	if err := ValidateRange(in.From, in.To); err != nil {
		return nil, err
	}
	return s.posts.ListByOwnerAndRange(ctx, in.PathOwnerID, in.From, in.To, in.VisibleBlocked)
}

// UpdatePost re-moderates the new content and overwrites the post. Only the
// owner may update.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.pipeline.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(in.PathOwnerID) {
		return nil, models.NewOwnershipMismatchError("Post", in.PostID, in.PathOwnerID)
	}
	if !MayActOnPost(in.ActorID, post.OwnerID, ActionUpdate) {
		return nil, models.NewAccessDeniedError("Only the post owner can update it")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	return s.pipeline.Update(ctx, in.PostID, in.Content)
}

// DeletePost removes the post and all of its comments. Only the owner may
// delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.pipeline.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if !post.OwnedBy(in.PathOwnerID) {
		return models.NewOwnershipMismatchError("Post", in.PostID, in.PathOwnerID)
	}
	if !MayActOnPost(in.ActorID, post.OwnerID, ActionDelete) {
		return models.NewAccessDeniedError("Only the post owner can delete it")
	}
	return s.pipeline.Delete(ctx, in.PostID)
}
