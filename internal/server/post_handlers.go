package server

import (
	"kindathreads/internal/models"
	"kindathreads/internal/notifications"
	"kindathreads/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/users/:userId/posts. The path user must be
// the authenticated user. Unsafe content is persisted blocked and the
// response is CONTENT_BLOCKED carrying the new post's ID.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	actorID := currentUserID(c)
	if !service.MayActOnPost(actorID, pathUserID, service.ActionCreate) {
		return respondServiceError(c,
			models.NewAccessDeniedError("You can only create posts under your own user"))
	}

	var req struct {
		Content   string `json:"content"`
		AutoReply bool   `json:"auto_reply"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		OwnerID:   actorID,
		Content:   req.Content,
		AutoReply: req.AutoReply,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEvent(c, notifications.Event{
		Name:      notifications.EventPostCreated,
		Kind:      "post",
		EntityID:  post.ID,
		OwnerID:   post.OwnerID,
		IsBlocked: post.IsBlocked,
	})

	if post.IsBlocked {
		return respondServiceError(c, models.NewContentBlockedError("Post", post.ID))
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/users/:userId/posts/:postId. Blocked posts are
// visible only to their owner.
func (s *Server) GetPost(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), service.GetPostInput{
		PathOwnerID: pathUserID,
		PostID:      postID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.respondIfBlocked(c, post, "Post", currentUserID(c)); err != nil {
		return nil
	}
	return c.JSON(post)
}

// GetPosts handles GET /api/users/:userId/posts. The published view is the
// default; blocked=true switches to the owner-only blocked view.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
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
			models.NewAccessDeniedError("Only the owner can list their blocked posts"))
	}

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		PathOwnerID:    pathUserID,
		From:           from,
		To:             to,
		VisibleBlocked: visibleBlocked,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// UpdatePost handles PUT /api/users/:userId/posts/:postId. Content is
// re-moderated; an edit that fails moderation blocks the post and the
// response reports CONTENT_BLOCKED.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
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

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		ActorID:     currentUserID(c),
		PathOwnerID: pathUserID,
		PostID:      postID,
		Content:     req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishEvent(c, notifications.Event{
		Name:      notifications.EventPostUpdated,
		Kind:      "post",
		EntityID:  post.ID,
		OwnerID:   post.OwnerID,
		IsBlocked: post.IsBlocked,
	})

	if post.IsBlocked {
		return respondServiceError(c, models.NewContentBlockedError("Post", post.ID))
	}
	return c.Status(fiber.StatusAccepted).JSON(post)
}

// DeletePost handles DELETE /api/users/:userId/posts/:postId. The delete
// cascades to every comment on the post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	pathUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		ActorID:     currentUserID(c),
		PathOwnerID: pathUserID,
		PostID:      postID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	s.publishEvent(c, notifications.Event{
		Name:     notifications.EventPostDeleted,
		Kind:     "post",
		EntityID: postID,
		OwnerID:  pathUserID,
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}
