package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kindathreads/internal/config"
	"kindathreads/internal/database"
	"kindathreads/internal/models"
	"kindathreads/internal/repository"
	"kindathreads/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// stubModerator lets each test decide which content passes moderation.
type stubModerator struct {
	checkFn func(ctx context.Context, text string) (bool, error)
}

func (m *stubModerator) CheckContent(ctx context.Context, text string) (bool, error) {
	return m.checkFn(ctx, text)
}

// passAll approves everything.
func passAll() *stubModerator {
	return &stubModerator{checkFn: func(context.Context, string) (bool, error) {
		return true, nil
	}}
}

// blockWord fails moderation for any content containing the given word.
func blockWord(word string) *stubModerator {
	return &stubModerator{checkFn: func(_ context.Context, text string) (bool, error) {
		return !strings.Contains(text, word), nil
	}}
}

// brokenModerator simulates a moderation service outage.
func brokenModerator() *stubModerator {
	return &stubModerator{checkFn: func(context.Context, string) (bool, error) {
		return false, models.NewUpstreamError("moderation", fmt.Errorf("connection refused"))
	}}
}

// stubGenerator returns a canned reply and counts invocations.
type stubGenerator struct {
	replyFn func(ctx context.Context, text string) (string, error)
	calls   int
}

func (g *stubGenerator) GenerateReply(ctx context.Context, text string) (string, error) {
	g.calls++
	return g.replyFn(ctx, text)
}

func fixedGenerator(reply string) *stubGenerator {
	return &stubGenerator{replyFn: func(context.Context, string) (string, error) {
		return reply, nil
	}}
}

// newTestServer wires a Server against the given DB with stubbed gateways.
// Redis and metrics are left unset; both are optional at the handler level.
func newTestServer(t *testing.T, db *gorm.DB, moderator service.Moderator, generator service.ReplyGenerator) *Server {
	t.Helper()
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config: &config.Config{
			JWTSecret: "test-secret-for-handler-tests",
			Env:       "test",
		},
		db:          db,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	s.postService = service.NewPostService(postRepo, moderator)
	s.commentService = service.NewCommentService(commentRepo, postRepo, moderator, generator)
	s.breakdownService = service.NewBreakdownService(postRepo, commentRepo)
	return s
}

// newTestApp registers the API routes behind a header-driven auth stub so
// each request can act as an arbitrary user via X-User-ID.
func newTestApp(s *Server) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			var id uint
			if _, err := fmt.Sscanf(raw, "%d", &id); err == nil {
				c.Locals("userID", id)
			}
		}
		return c.Next()
	})

	api := app.Group("/api")
	auth := api.Group("/auth")
	auth.Post("/signup", s.Signup)
	auth.Post("/login", s.Login)

	users := api.Group("/users")
	users.Post("/:userId/posts", s.CreatePost)
	users.Get("/:userId/posts", s.GetPosts)
	users.Get("/:userId/posts/:postId", s.GetPost)
	users.Put("/:userId/posts/:postId", s.UpdatePost)
	users.Delete("/:userId/posts/:postId", s.DeletePost)

	users.Post("/:userId/posts/:postId/comments", s.CreateComment)
	users.Get("/:userId/posts/:postId/comments", s.GetComments)
	users.Get("/:userId/posts/:postId/comments/:commentId", s.GetComment)
	users.Put("/:userId/posts/:postId/comments/:commentId", s.UpdateComment)
	users.Delete("/:userId/posts/:postId/comments/:commentId", s.DeleteComment)

	breakdowns := api.Group("/breakdowns")
	breakdowns.Get("/posts-daily-breakdown/user/me", s.GetPostsDailyBreakdown)
	breakdowns.Get("/comments-daily-breakdown/user/me", s.GetCommentsDailyBreakdown)

	return app
}

// doRequest performs a JSON request against the test app as the given user.
// userID 0 means unauthenticated.
func doRequest(t *testing.T, app *fiber.App, method, path string, userID uint, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", userID))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeJSON reads and decodes the response body into out.
func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func seedUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := &models.User{
		FullName: nickname + " Test",
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Password: "irrelevant",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, ownerID uint, content string, autoReply bool) *models.Post {
	t.Helper()
	post := &models.Post{Content: content, OwnerID: ownerID, AutoReply: autoReply}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, ownerID, postID uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Content: content, OwnerID: ownerID, PostID: postID}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
