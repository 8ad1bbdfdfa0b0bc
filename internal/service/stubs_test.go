package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"kindathreads/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint) (*models.Post, error)
	listByOwnerFn    func(context.Context, uint, time.Time, time.Time, bool) ([]*models.Post, error)
	listByDateUserFn func(context.Context, time.Time, time.Time, uint) ([]*models.Post, error)
	updateContentFn  func(context.Context, uint, string, bool) error
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByOwnerAndRange(ctx context.Context, ownerID uint, from, to time.Time, visibleBlocked bool) ([]*models.Post, error) {
	return s.listByOwnerFn(ctx, ownerID, from, to, visibleBlocked)
}
func (s *postRepoStub) ListByDateAndUser(ctx context.Context, dateFrom, dateTo time.Time, ownerID uint) ([]*models.Post, error) {
	return s.listByDateUserFn(ctx, dateFrom, dateTo, ownerID)
}
func (s *postRepoStub) UpdateContent(ctx context.Context, id uint, content string, blocked bool) error {
	return s.updateContentFn(ctx, id, content, blocked)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, OwnerID: 1, Content: "post"}, nil
		},
		listByOwnerFn: func(_ context.Context, _ uint, _, _ time.Time, _ bool) ([]*models.Post, error) {
			return nil, nil
		},
		listByDateUserFn: func(_ context.Context, _, _ time.Time, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		updateContentFn: func(_ context.Context, _ uint, _ string, _ bool) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByIDFn        func(context.Context, uint) (*models.Comment, error)
	listByPostFn     func(context.Context, uint, time.Time, time.Time, bool) ([]*models.Comment, error)
	listByDateUserFn func(context.Context, time.Time, time.Time, uint) ([]*models.Comment, error)
	updateContentFn  func(context.Context, uint, string, bool) error
	deleteFn         func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPostAndRange(ctx context.Context, postID uint, from, to time.Time, visibleBlocked bool) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, from, to, visibleBlocked)
}
func (s *commentRepoStub) ListByDateAndUser(ctx context.Context, dateFrom, dateTo time.Time, userID uint) ([]*models.Comment, error) {
	return s.listByDateUserFn(ctx, dateFrom, dateTo, userID)
}
func (s *commentRepoStub) UpdateContent(ctx context.Context, id uint, content string, blocked bool) error {
	return s.updateContentFn(ctx, id, content, blocked)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, OwnerID: 2, PostID: 1, Content: "comment"}, nil
		},
		listByPostFn: func(_ context.Context, _ uint, _, _ time.Time, _ bool) ([]*models.Comment, error) {
			return nil, nil
		},
		listByDateUserFn: func(_ context.Context, _, _ time.Time, _ uint) ([]*models.Comment, error) {
			return nil, nil
		},
		updateContentFn: func(_ context.Context, _ uint, _ string, _ bool) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// moderatorStub is a stub for the Moderator gateway.
type moderatorStub struct {
	checkFn func(context.Context, string) (bool, error)
}

func (s *moderatorStub) CheckContent(ctx context.Context, text string) (bool, error) {
	return s.checkFn(ctx, text)
}

func passingModerator() *moderatorStub {
	return &moderatorStub{checkFn: func(_ context.Context, _ string) (bool, error) { return true, nil }}
}

func failingModerator() *moderatorStub {
	return &moderatorStub{checkFn: func(_ context.Context, _ string) (bool, error) { return false, nil }}
}

func brokenModerator() *moderatorStub {
	return &moderatorStub{checkFn: func(_ context.Context, _ string) (bool, error) {
		return false, models.NewUpstreamError("moderation", errors.New("connection refused"))
	}}
}

// generatorStub is a stub for the ReplyGenerator gateway.
type generatorStub struct {
	generateFn func(context.Context, string) (string, error)
	calls      int
}

func (s *generatorStub) GenerateReply(ctx context.Context, text string) (string, error) {
	s.calls++
	return s.generateFn(ctx, text)
}

func fixedGenerator(reply string) *generatorStub {
	return &generatorStub{generateFn: func(_ context.Context, _ string) (string, error) { return reply, nil }}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}
