package server

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"kindathreads/internal/middleware"
	"kindathreads/internal/models"
	"kindathreads/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// currentUserID returns the authenticated user's ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// respondServiceError maps a service-layer error onto an HTTP status.
// Ownership mismatches are masked as 404 so a guessed ID discloses nothing;
// the body still carries the distinct code.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case models.CodeNotFound, models.CodeOwnershipMismatch:
		status = fiber.StatusNotFound
	case models.CodeAccessDenied, models.CodeContentBlocked:
		status = fiber.StatusForbidden
	case models.CodeUpstreamUnavailable:
		status = fiber.StatusBadGateway
	case models.CodeValidation:
		status = fiber.StatusBadRequest
	}
	return models.RespondWithError(c, status, appErr)
}

// respondIfBlocked rejects with CONTENT_BLOCKED when the entity failed
// moderation and the viewer is not its owner. The owner still sees their own
// blocked content, so they can fix it. Returns errResponseWritten after
// committing the response.
func (s *Server) respondIfBlocked(c *fiber.Ctx, entity interface {
	EntityID() uint
	Blocked() bool
	OwnedBy(userID uint) bool
}, resource string, viewerID uint) error {
	if entity.Blocked() && !entity.OwnedBy(viewerID) {
		_ = respondServiceError(c, models.NewContentBlockedError(resource, entity.EntityID()))
		return errResponseWritten
	}
	return nil
}

// parseTimeWindow reads the start_date/end_date query parameters (RFC 3339).
// start_date defaults to the zero time, end_date to now.
func parseTimeWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now()

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, models.NewValidationError("start_date must be RFC 3339")
		}
		from = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, models.NewValidationError("end_date must be RFC 3339")
		}
		to = parsed
	}
	return from, to, nil
}

// parseDateWindow reads the date_from/date_to query parameters (2006-01-02).
// date_from defaults to the zero time, date_to to today.
func parseDateWindow(c *fiber.Ctx) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now()

	if raw := c.Query("date_from"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return from, to, models.NewValidationError("date_from must be YYYY-MM-DD")
		}
		from = parsed
	}
	if raw := c.Query("date_to"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return from, to, models.NewValidationError("date_to must be YYYY-MM-DD")
		}
		to = parsed
	}
	return from, to, nil
}

// publishEvent fans a lifecycle event out to the owner's channel. Content
// that failed moderation is additionally broadcast so moderation tooling can
// pick it up. Publish failures never fail the request.
func (s *Server) publishEvent(c *fiber.Ctx, event notifications.Event) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PublishUser(c.Context(), event.OwnerID, event); err != nil {
		middleware.Logger.WarnContext(c.Context(), "failed to publish lifecycle event",
			"event", event.Name, "error", err)
	}
	if event.IsBlocked {
		blocked := event
		blocked.Name = notifications.EventContentBlocked
		if err := s.notifier.PublishBroadcast(c.Context(), blocked); err != nil {
			middleware.Logger.WarnContext(c.Context(), "failed to broadcast blocked-content event",
				"event", blocked.Name, "error", err)
		}
	}
}
