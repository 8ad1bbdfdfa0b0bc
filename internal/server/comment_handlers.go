package server

import (
	"kindathreads/internal/models"
	"kindathreads/internal/notifications"
	"kindathreads/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/users/:userId/posts/:postId/comments.
// The optional reply_to query parameter threads the comment under an
// existing one. An eligible comment triggers a generated reply owned by the
// post owner.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var parentID *uint
	if raw := c.QueryInt("reply_to", 0); raw > 0 {
		id := uint(raw)
		parentID = &id
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		ActorID:     currentUserID(c),
		PathOwnerID: pathUserID,
		PostID:      postID,
		ParentID:    parentID,
		Content:     req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEvent(c, notifications.Event{
		Name:      notifications.EventCommentCreated,
		Kind:      "comment",
		EntityID:  comment.ID,
		OwnerID:   comment.OwnerID,
		PostID:    comment.PostID,
		IsBlocked: comment.IsBlocked,
	})

	if comment.IsBlocked {
		return respondServiceError(c, models.NewContentBlockedError("Comment", comment.ID))
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComment handles GET /api/users/:userId/posts/:postId/comments/:commentId
// and returns the comment with its direct replies.
func (s *Server) GetComment(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.Context(), service.GetCommentInput{
		PathOwnerID: pathUserID,
		PostID:      postID,
		CommentID:   commentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.respondIfBlocked(c, comment, "Comment", currentUserID(c)); err != nil {
		return nil
	}
	return c.JSON(comment)
}

// GetComments handles GET /api/users/:userId/posts/:postId/comments,
// returning the post's comments inside a timestamp window, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	from, to, err := parseTimeWindow(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	visibleBlocked := c.QueryBool("blocked", false)
	if visibleBlocked && currentUserID(c) != pathUserID {
		return respondServiceError(c,
			models.NewAccessDeniedError("Only the post owner can list blocked comments"))
	}

	comments, err := s.commentService.ListComments(c.Context(), service.ListCommentsInput{
		PathOwnerID:    pathUserID,
		PostID:         postID,
		From:           from,
		To:             to,
		VisibleBlocked: visibleBlocked,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment handles PUT /api/users/:userId/posts/:postId/comments/:commentId.
// The edited content is re-moderated and can trigger a fresh auto-reply.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		ActorID:     currentUserID(c),
		PathOwnerID: pathUserID,
		PostID:      postID,
		CommentID:   commentID,
		Content:     req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEvent(c, notifications.Event{
		Name:      notifications.EventCommentUpdated,
		Kind:      "comment",
		EntityID:  comment.ID,
		OwnerID:   comment.OwnerID,
		PostID:    comment.PostID,
		IsBlocked: comment.IsBlocked,
	})

	if comment.IsBlocked {
		return respondServiceError(c, models.NewContentBlockedError("Comment", comment.ID))
	}
	return c.Status(fiber.StatusAccepted).JSON(comment)
}

// DeleteComment handles DELETE /api/users/:userId/posts/:postId/comments/:commentId.
// The delete removes the whole reply subtree.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		ActorID:     currentUserID(c),
		PathOwnerID: pathUserID,
		PostID:      postID,
		CommentID:   commentID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	s.publishEvent(c, notifications.Event{
		Name:     notifications.EventCommentDeleted,
		Kind:     "comment",
		EntityID: commentID,
		OwnerID:  currentUserID(c),
		PostID:   postID,
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Comment deleted successfully",
	})
}
