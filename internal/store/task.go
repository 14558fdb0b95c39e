package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskward-api/internal/domain"
)

// StatusFilter narrows task listings by the completed flag.
type StatusFilter string

// Recognized status filters. Anything else is treated as StatusAll.
const (
	StatusAll        StatusFilter = "all"
	StatusCompleted  StatusFilter = "completed"
	StatusIncomplete StatusFilter = "incomplete"
)

// SortKey selects the single dimension task listings are ordered by.
type SortKey string

// Recognized sort keys. Anything else falls back to SortCreatedDesc.
const (
	SortCreatedAsc  SortKey = "created_asc"
	SortCreatedDesc SortKey = "created_desc"
	SortUpdatedAsc  SortKey = "updated_asc"
	SortUpdatedDesc SortKey = "updated_desc"
)

// ListOptions composes the filter, search, and sort parameters for a task
// listing. The zero value lists everything, newest first.
type ListOptions struct {
	// Status narrows by the completed flag.
	Status StatusFilter

	// Search, when non-empty, matches case-insensitively as a substring
	// against title OR description.
	Search string

	// SortBy orders the result set.
	SortBy SortKey
}

// TaskUpdate carries a partial update for a task. Nil fields are left
// unchanged; updated_at is refreshed on every update regardless of which
// fields are present.
type TaskUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	DueDate     *time.Time
}

// TaskStore defines the interface for task data persistence.
// Every operation that addresses an existing task is keyed jointly by task
// ID and owner ID, so a task owned by someone else is indistinguishable
// from one that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// List retrieves the tasks belonging to ownerID, narrowed and ordered
	// per opts. It never returns another owner's tasks regardless of the
	// filter values. An owner with no matching tasks yields an empty,
	// non-nil slice.
	List(ctx context.Context, ownerID uuid.UUID, opts ListOptions) ([]*domain.Task, error)

	// Update applies the non-nil fields of update to the task identified
	// by (taskID, ownerID), refreshes updated_at, and returns the full
	// updated record. Returns ErrTaskNotFound if no such task exists for
	// that owner.
	Update(ctx context.Context, ownerID, taskID uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// Delete permanently removes the task identified by (taskID, ownerID).
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}
