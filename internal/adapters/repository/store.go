// Package repository defines the persistence interfaces consumed by the
// service and their in-memory implementations.
package repository

import (
	"context"
	"time"

	"github.com/okian/gemba/internal/domain/cooldown"
	"github.com/okian/gemba/internal/domain/model"
)

// TemplateStore provides access to evaluation templates.
type TemplateStore interface {
	Put(ctx context.Context, tpl model.Template) error

	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (model.Template, error)

	// List returns all templates ordered by name.
	List(ctx context.Context) ([]model.Template, error)

	Delete(ctx context.Context, id string) error
}

// WorkerStore provides access to the worker roster.
type WorkerStore interface {
	Put(ctx context.Context, w model.Worker) error

	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (model.Worker, error)

	Delete(ctx context.Context, id string) error

	// ListByRole returns the active workers holding the role, sorted by
	// display name. Callers receive roster order ready for the
	// eligibility aggregator.
	ListByRole(ctx context.Context, role string) ([]model.Worker, error)
}

// EvaluationStore provides access to completed evaluation records.
type EvaluationStore interface {
	// AppendGuarded inserts a record after atomically re-checking the
	// subject's cooldown under the store lock. Two near-simultaneous
	// submissions for the same worker cannot both land: the second one
	// fails with ErrOnCooldown carrying the returned status.
	AppendGuarded(ctx context.Context, rec model.Evaluation, period time.Duration) (cooldown.Status, error)

	// RecentSince returns records with EvaluatedAt >= since, in
	// insertion order.
	RecentSince(ctx context.Context, since time.Time) ([]model.Evaluation, error)

	// LastFor returns the subject's most recent record, or ErrNotFound.
	LastFor(ctx context.Context, subjectID string) (model.Evaluation, error)

	// Count returns the total number of stored records.
	Count(ctx context.Context) int
}
