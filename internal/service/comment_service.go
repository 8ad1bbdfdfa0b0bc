package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"kindathreads/internal/middleware"
	"kindathreads/internal/models"
	"kindathreads/internal/repository"
)

// maxCommentLen mirrors the column size of Comment.Content.
const maxCommentLen = 255

// ReplyGenerator produces an optional auto-reply text for a comment. An
// empty string means the generator had nothing to say.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, text string) (string, error)
}

// CommentService is the comment thread engine: the moderation pipeline for
// comments plus auto-reply orchestration on create and update.
type CommentService struct {
	comments  repository.CommentRepository
	posts     repository.PostRepository
	pipeline  *Lifecycle[*models.Comment]
	generator ReplyGenerator
	// onAutoReply, when set, runs after a generated reply is persisted.
	onAutoReply func(ctx context.Context, comment, reply *models.Comment)
}

// OnAutoReply registers a hook invoked with the triggering comment and the
// persisted generated reply. Used by the transport layer to publish events.
func (s *CommentService) OnAutoReply(hook func(ctx context.Context, comment, reply *models.Comment)) {
	s.onAutoReply = hook
}

type CreateCommentInput struct {
	ActorID     uint
	PathOwnerID uint
	PostID      uint
	ParentID    *uint
	Content     string
}

type GetCommentInput struct {
	PathOwnerID uint
	PostID      uint
	CommentID   uint
}

type ListCommentsInput struct {
	PathOwnerID    uint
	PostID         uint
	From           time.Time
	To             time.Time
	VisibleBlocked bool
}

type UpdateCommentInput struct {
	ActorID     uint
	PathOwnerID uint
	PostID      uint
	CommentID   uint
	Content     string
}

type DeleteCommentInput struct {
	ActorID     uint
	PathOwnerID uint
	PostID      uint
	CommentID   uint
}

// NewCommentService returns a CommentService writing through the given
// moderator and generating auto-replies through the given generator.
func NewCommentService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	moderator Moderator,
	generator ReplyGenerator,
) *CommentService {
	return &CommentService{
		comments:  comments,
		posts:     posts,
		pipeline:  NewLifecycle[*models.Comment](comments, moderator, "comment"),
		generator: generator,
	}
}

// CreateComment moderates and persists a new comment on a published post,
// then evaluates auto-reply eligibility. The returned comment is always the
// commenter's own; a generated reply, if any, is a separate comment owned by
// the post owner and parented to this one.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	post, err := s.resolvePost(ctx, in.PathOwnerID, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.Blocked() {
		return nil, models.NewContentBlockedError("Post", post.ID)
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		OwnerID:  in.ActorID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.pipeline.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.maybeAutoReply(ctx, post, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment loads a comment with its direct replies.
func (s *CommentService) GetComment(ctx context.Context, in GetCommentInput) (*models.Comment, error) {
	if _, err := s.resolvePost(ctx, in.PathOwnerID, in.PostID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}
	return comment, nil
}

// ListComments returns the post's comments inside an inclusive timestamp
// window, oldest first, filtered to one blocked-state view.
func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]*models.Comment, error) {
	if err := ValidateRange(in.From, in.To); err != nil {
		return nil, err
	}
	if _, err := s.resolvePost(ctx, in.PathOwnerID, in.PostID); err != nil {
		return nil, err
	}
	return s.comments.ListByPostAndRange(ctx, in.PostID, in.From, in.To, in.VisibleBlocked)
}

// UpdateComment re-moderates the new content, overwrites the comment, and
// re-evaluates auto-reply eligibility on the updated content. An edited
// comment can trigger a fresh auto-reply just as a new one can.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	post, err := s.resolvePost(ctx, in.PathOwnerID, in.PostID)
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}
	if !MayActOnComment(in.ActorID, comment.OwnerID, post.OwnerID, ActionUpdate) {
		return nil, models.NewAccessDeniedError("Only the comment author can update it")
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	updated, err := s.pipeline.Update(ctx, in.CommentID, in.Content)
	if err != nil {
		return nil, err
	}
	if err := s.maybeAutoReply(ctx, post, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteComment removes the comment and its reply subtree. The post owner
// may delete any comment on their post; everyone else only their own.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	post, err := s.resolvePost(ctx, in.PathOwnerID, in.PostID)
	if err != nil {
		return err
	}
	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.PostID != in.PostID {
		return models.NewNotFoundError("Comment", in.CommentID)
	}
	if !MayActOnComment(in.ActorID, comment.OwnerID, post.OwnerID, ActionDelete) {
		return models.NewAccessDeniedError("Only the comment author or the post owner can delete it")
	}
	return s.comments.Delete(ctx, in.CommentID)
}

// maybeAutoReply creates a generated reply when the triggering comment is
// eligible: the post opted in, the commenter is not the post owner, the
// comment passed moderation, and the comment is not itself a generated
// reply. Generation transport failures downgrade to "no auto-reply"; a
// moderation failure on the reply itself still aborts, since its blocked
// state cannot be computed.
func (s *CommentService) maybeAutoReply(ctx context.Context, post *models.Post, comment *models.Comment) error {
	if !post.AutoReply || comment.OwnerID == post.OwnerID || comment.Blocked() || comment.AutoGenerated {
		return nil
	}

	reply, err := s.generator.GenerateReply(ctx, comment.Content)
	if err != nil {
		middleware.AutoReplies.WithLabelValues("failed").Inc()
		slog.WarnContext(ctx, "auto-reply generation failed, skipping reply",
			"post_id", post.ID, "comment_id", comment.ID, "error", err)
		return nil
	}
	if reply == "" {
		middleware.AutoReplies.WithLabelValues("empty").Inc()
		return nil
	}

	auto := &models.Comment{
		Content:       reply,
		OwnerID:       post.OwnerID,
		PostID:        post.ID,
		ParentID:      &comment.ID,
		AutoGenerated: true,
	}
	if err := s.pipeline.Create(ctx, auto); err != nil {
		return err
	}
	middleware.AutoReplies.WithLabelValues("created").Inc()
	if s.onAutoReply != nil {
		s.onAutoReply(ctx, comment, auto)
	}
	return nil
}

// resolvePost loads the post and verifies it belongs to the path-implied
// owner.
func (s *CommentService) resolvePost(ctx context.Context, pathOwnerID, postID uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(pathOwnerID) {
		return nil, models.NewOwnershipMismatchError("Post", postID, pathOwnerID)
	}
	return post, nil
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 255 characters)")
	}
	return nil
}
