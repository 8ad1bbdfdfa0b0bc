package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetPostsDailyBreakdown handles
// GET /api/breakdowns/posts-daily-breakdown/user/me and partitions the
// authenticated user's posts inside a date window into published and
// blocked.
func (s *Server) GetPostsDailyBreakdown(c *fiber.Ctx) error {
	dateFrom, dateTo, err := parseDateWindow(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	result, err := s.breakdownService.PostsDailyBreakdown(
		c.Context(), currentUserID(c), dateFrom, dateTo)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetCommentsDailyBreakdown handles
// GET /api/breakdowns/comments-daily-breakdown/user/me and partitions the
// comments involving the authenticated user by direction (sent/received),
// then by block state.
func (s *Server) GetCommentsDailyBreakdown(c *fiber.Ctx) error {
	dateFrom, dateTo, err := parseDateWindow(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	result, err := s.breakdownService.CommentsDailyBreakdown(
		c.Context(), currentUserID(c), dateFrom, dateTo)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
