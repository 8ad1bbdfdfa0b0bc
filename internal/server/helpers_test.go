package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kindathreads/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		param string
		want  string
	}{
		{"id", "ID"},
		{"userId", "user ID"},
		{"postId", "post ID"},
		{"commentId", "comment ID"},
		{"somethingElse", "somethingElse"},
	}
	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, humanizeParam(tt.param))
		})
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	s := &Server{}
	app := fiber.New()
	app.Get("/things/:thingId", func(c *fiber.Ctx) error {
		id, err := s.parseID(c, "thingId")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"valid", "/things/42", http.StatusOK},
		{"zero", "/things/0", http.StatusBadRequest},
		{"negative", "/things/-3", http.StatusBadRequest},
		{"not a number", "/things/forty-two", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRespondServiceError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        models.NewNotFoundError("Post", 7),
			wantStatus: http.StatusNotFound,
			wantCode:   models.CodeNotFound,
		},
		{
			// Mismatches look identical to missing resources on the wire.
			name:       "ownership mismatch masked as 404",
			err:        models.NewOwnershipMismatchError("Post", 7, 3),
			wantStatus: http.StatusNotFound,
			wantCode:   models.CodeOwnershipMismatch,
		},
		{
			name:       "access denied",
			err:        models.NewAccessDeniedError("nope"),
			wantStatus: http.StatusForbidden,
			wantCode:   models.CodeAccessDenied,
		},
		{
			name:       "content blocked",
			err:        models.NewContentBlockedError("Comment", 9),
			wantStatus: http.StatusForbidden,
			wantCode:   models.CodeContentBlocked,
		},
		{
			name:       "upstream unavailable",
			err:        models.NewUpstreamError("moderation", fmt.Errorf("boom")),
			wantStatus: http.StatusBadGateway,
			wantCode:   models.CodeUpstreamUnavailable,
		},
		{
			name:       "validation",
			err:        models.NewValidationError("bad input"),
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeValidation,
		},
		{
			name:       "plain error",
			err:        fmt.Errorf("unexpected"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return respondServiceError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantCode != "" {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body.Code)
			}
		})
	}
}

func TestRespondIfBlocked(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 5, OwnerID: 2, IsBlocked: true}
	s := &Server{}

	run := func(t *testing.T, viewerID uint) *http.Response {
		t.Helper()
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			if err := s.respondIfBlocked(c, post, "Post", viewerID); err != nil {
				return nil
			}
			return c.JSON(post)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		return resp
	}

	t.Run("owner sees their blocked content", func(t *testing.T) {
		t.Parallel()
		resp := run(t, 2)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("non-owner gets content blocked with the entity ID", func(t *testing.T) {
		t.Parallel()
		resp := run(t, 3)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, models.CodeContentBlocked, body.Code)
		assert.Equal(t, uint(5), body.EntityID)
	})
}

func TestParseTimeWindow(t *testing.T) {
	t.Parallel()

	call := func(t *testing.T, query string) (time.Time, time.Time, error, int) {
		t.Helper()
		app := fiber.New()
		var from, to time.Time
		var perr error
		app.Get("/", func(c *fiber.Ctx) error {
			from, to, perr = parseTimeWindow(c)
			return c.SendStatus(http.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+query, nil), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return from, to, perr, resp.StatusCode
	}

	t.Run("defaults to all history up to now", func(t *testing.T) {
		t.Parallel()
		from, to, err, _ := call(t, "")
		require.NoError(t, err)
		assert.True(t, from.IsZero())
		assert.WithinDuration(t, time.Now(), to, time.Minute)
	})

	t.Run("parses explicit RFC 3339 bounds", func(t *testing.T) {
		t.Parallel()
		from, to, err, _ := call(t, "?start_date=2026-01-01T00:00:00Z&end_date=2026-02-01T00:00:00Z")
		require.NoError(t, err)
		assert.Equal(t, 2026, from.Year())
		assert.Equal(t, time.February, to.Month())
	})

	t.Run("rejects malformed bounds", func(t *testing.T) {
		t.Parallel()
		_, _, err, _ := call(t, "?start_date=notadate")
		assert.Error(t, err)
	})
}

func TestParseDateWindow(t *testing.T) {
	t.Parallel()

	call := func(t *testing.T, query string) (time.Time, time.Time, error) {
		t.Helper()
		app := fiber.New()
		var from, to time.Time
		var perr error
		app.Get("/", func(c *fiber.Ctx) error {
			from, to, perr = parseDateWindow(c)
			return c.SendStatus(http.StatusOK)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+query, nil), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		return from, to, perr
	}

	t.Run("parses day-granular bounds", func(t *testing.T) {
		t.Parallel()
		from, to, err := call(t, "?date_from=2026-03-01&date_to=2026-03-31")
		require.NoError(t, err)
		assert.Equal(t, time.March, from.Month())
		assert.Equal(t, 31, to.Day())
	})

	t.Run("rejects timestamps where dates are expected", func(t *testing.T) {
		t.Parallel()
		_, _, err := call(t, "?date_from=2026-03-01T10:00:00Z")
		assert.Error(t, err)
	})
}

func TestCurrentUserID(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	app.Get("/anon", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"id": currentUserID(c)})
	})
	app.Get("/authed", func(c *fiber.Ctx) error {
		c.Locals("userID", uint(12))
		return c.JSON(fiber.Map{"id": currentUserID(c)})
	})

	for path, want := range map[string]float64{"/anon": 0, "/authed": 12} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		var body map[string]float64
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, want, body["id"], path)
	}
}
