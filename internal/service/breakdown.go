package service

import (
	"context"
	"time"

	"kindathreads/internal/models"
	"kindathreads/internal/repository"
)

// BlockStateBreakdown is a total, disjoint partition of entities by their
// blocked flag.
type BlockStateBreakdown[E ContentEntity] struct {
	Published []E `json:"published"`
	Blocked   []E `json:"blocked"`
}

// DirectionBreakdown splits comments by conversational direction relative
// to one viewer. The two sides are computed independently and may overlap
// when a user replies under their own comment.
type DirectionBreakdown struct {
	Sent     []*models.Comment `json:"sent"`
	Received []*models.Comment `json:"received"`
}

// CommentsBreakdown is the reporting shape for a user's comments: direction
// first, block state inside each direction.
type CommentsBreakdown struct {
	Sent     BlockStateBreakdown[*models.Comment] `json:"sent"`
	Received BlockStateBreakdown[*models.Comment] `json:"received"`
}

// PartitionByBlockState splits entities into published and blocked. Every
// entity lands in exactly one side.
func PartitionByBlockState[E ContentEntity](entities []E) BlockStateBreakdown[E] {
	result := BlockStateBreakdown[E]{
		Published: []E{},
		Blocked:   []E{},
	}
	for _, entity := range entities {
		if entity.Blocked() {
			result.Blocked = append(result.Blocked, entity)
		} else {
			result.Published = append(result.Published, entity)
		}
	}
	return result
}

// PartitionCommentsByDirection classifies comments relative to a viewer.
// Sent comments are the viewer's own. Received comments sit on one of the
// viewer's posts (written by someone else) or reply to one of the viewer's
// comments; comments need Post, and where present Parent, preloaded. A
// missing parent simply never matches.
func PartitionCommentsByDirection(comments []*models.Comment, viewerID uint) DirectionBreakdown {
	result := DirectionBreakdown{
		Sent:     []*models.Comment{},
		Received: []*models.Comment{},
	}
	for _, comment := range comments {
		if comment.OwnedBy(viewerID) {
			result.Sent = append(result.Sent, comment)
		}
		onViewerPost := comment.Post != nil && comment.Post.OwnerID == viewerID && !comment.OwnedBy(viewerID)
		if onViewerPost || comment.ParentOwnedBy(viewerID) {
			result.Received = append(result.Received, comment)
		}
	}
	return result
}

// BreakdownService produces the daily reporting views over a user's posts
// and comments.
type BreakdownService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
}

// NewBreakdownService returns a BreakdownService over the given stores.
func NewBreakdownService(posts repository.PostRepository, comments repository.CommentRepository) *BreakdownService {
	return &BreakdownService{posts: posts, comments: comments}
}

// PostsDailyBreakdown partitions the user's posts created inside the
// inclusive date window by block state.
func (s *BreakdownService) PostsDailyBreakdown(
	ctx context.Context,
	userID uint,
	dateFrom, dateTo time.Time,
) (BlockStateBreakdown[*models.Post], error) {
	if err := validateDateWindow(dateFrom, dateTo); err != nil {
		return BlockStateBreakdown[*models.Post]{}, err
	}
	posts, err := s.posts.ListByDateAndUser(ctx, dateFrom, dateTo, userID)
	if err != nil {
		return BlockStateBreakdown[*models.Post]{}, err
	}
	return PartitionByBlockState(posts), nil
}

// CommentsDailyBreakdown partitions the comments involving the user inside
// the inclusive date window by direction, then by block state.
func (s *BreakdownService) CommentsDailyBreakdown(
	ctx context.Context,
	userID uint,
	dateFrom, dateTo time.Time,
) (CommentsBreakdown, error) {
	if err := validateDateWindow(dateFrom, dateTo); err != nil {
		return CommentsBreakdown{}, err
	}
	comments, err := s.comments.ListByDateAndUser(ctx, dateFrom, dateTo, userID)
	if err != nil {
		return CommentsBreakdown{}, err
	}
	direction := PartitionCommentsByDirection(comments, userID)
	return CommentsBreakdown{
		Sent:     PartitionByBlockState(direction.Sent),
		Received: PartitionByBlockState(direction.Received),
	}, nil
}

func validateDateWindow(dateFrom, dateTo time.Time) error {
	if dateFrom.After(dateTo) {
		return models.NewValidationError("date_from cannot be after date_to")
	}
	return nil
}
