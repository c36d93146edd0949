package store

import (
	"context"
	"time"

	"github.com/phrazzld/duesoon/internal/domain"
)

// DueTaskReader reads the tasks due on a given calendar day together with
// their assignee.
type DueTaskReader interface {
	// ListDueTasks returns the tasks whose deadline falls on the calendar
	// date of on, ignoring time of day, in store order.
	// Returns an empty batch, not an error, when nothing is due.
	ListDueTasks(ctx context.Context, on time.Time) (domain.DueTaskBatch, error)
}

// ContactStore defines persistence for contacts.
type ContactStore interface {
	// Create validates and inserts a contact, setting its ID.
	// Returns ErrContactExists when the email or phone is already taken.
	Create(ctx context.Context, contact *domain.Contact) error

	// GetByEmail retrieves a contact by email.
	// Returns ErrContactNotFound if no contact matches.
	GetByEmail(ctx context.Context, email string) (*domain.Contact, error)

	// List returns all contacts ordered by ID.
	List(ctx context.Context) ([]*domain.Contact, error)
}

// TaskStore defines persistence for tasks.
type TaskStore interface {
	// Create validates and inserts a task, setting its ID.
	// Returns ErrInvalidEntity if the assignee does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// CreateForAssignee resolves the assignee by email and inserts the task
	// in a single transaction.
	CreateForAssignee(ctx context.Context, task *domain.Task, assigneeEmail string) error
}
