// Package service holds the content lifecycle engine: the moderation-aware
// create/update pipeline shared by posts and comments, the ownership policy,
// auto-reply orchestration and the breakdown aggregations.
package service

import (
	"context"
	"time"

	"kindathreads/internal/middleware"
	"kindathreads/internal/models"
)

// ContentEntity is the slice of a Post or Comment the lifecycle pipeline
// needs: identity, the moderatable text body and the derived blocked flag.
type ContentEntity interface {
	EntityID() uint
	Body() string
	SetBody(content string)
	SetBlocked(blocked bool)
	Blocked() bool
	OwnedBy(userID uint) bool
}

// ContentStore is the persistence surface the lifecycle pipeline drives.
// The post and comment repositories both satisfy it.
type ContentStore[E ContentEntity] interface {
	Create(ctx context.Context, entity E) error
	GetByID(ctx context.Context, id uint) (E, error)
	UpdateContent(ctx context.Context, id uint, content string, blocked bool) error
	Delete(ctx context.Context, id uint) error
}

// Moderator classifies text as safe (true) or unsafe (false).
type Moderator interface {
	CheckContent(ctx context.Context, text string) (bool, error)
}

// Lifecycle runs the shared create/update pipeline for one entity kind.
// Every write passes through moderation first; unsafe content is persisted
// anyway with the blocked flag set, never rejected. A moderation transport
// failure aborts the write, because the blocked state cannot be computed
// without a verdict.
type Lifecycle[E ContentEntity] struct {
	store     ContentStore[E]
	moderator Moderator
	kind      string
}

// NewLifecycle returns a pipeline for one entity kind. kind is the metric
// label ("post" or "comment").
func NewLifecycle[E ContentEntity](store ContentStore[E], moderator Moderator, kind string) *Lifecycle[E] {
	return &Lifecycle[E]{store: store, moderator: moderator, kind: kind}
}

// Create moderates the entity's body, stamps the blocked flag and persists
// it. The entity is mutated in place with its assigned ID and blocked state.
func (l *Lifecycle[E]) Create(ctx context.Context, entity E) error {
	pass, err := l.moderate(ctx, entity.Body())
	if err != nil {
		return err
	}
	entity.SetBlocked(!pass)
	return l.store.Create(ctx, entity)
}

// GetByID loads one entity.
func (l *Lifecycle[E]) GetByID(ctx context.Context, id uint) (E, error) {
	return l.store.GetByID(ctx, id)
}

// Update re-moderates the new content, then overwrites content and blocked
// state in one write. The blocked state can flip either way on every update.
// Returns the freshly loaded entity.
func (l *Lifecycle[E]) Update(ctx context.Context, id uint, content string) (E, error) {
	var zero E
	pass, err := l.moderate(ctx, content)
	if err != nil {
		return zero, err
	}
	if err := l.store.UpdateContent(ctx, id, content, !pass); err != nil {
		return zero, err
	}
	return l.store.GetByID(ctx, id)
}

// Delete removes the entity and its dependents.
func (l *Lifecycle[E]) Delete(ctx context.Context, id uint) error {
	return l.store.Delete(ctx, id)
}

func (l *Lifecycle[E]) moderate(ctx context.Context, content string) (bool, error) {
	pass, err := l.moderator.CheckContent(ctx, content)
	if err != nil {
		middleware.ModerationChecks.WithLabelValues(l.kind, "error").Inc()
		return false, err
	}
	result := "pass"
	if !pass {
		result = "fail"
	}
	middleware.ModerationChecks.WithLabelValues(l.kind, result).Inc()
	return pass, nil
}

// ValidateRange rejects timestamp ranges whose start is after their end or
// in the future. An empty window that passes these checks is a valid query.
func ValidateRange(from, to time.Time) error {
	if from.After(to) {
		return models.NewValidationError("start of range cannot be after its end")
	}
	if from.After(time.Now()) {
		return models.NewValidationError("start of range cannot be in the future")
	}
	return nil
}
