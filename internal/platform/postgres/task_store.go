package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/store"
)

const insertTaskQuery = `
	INSERT INTO tasks (
		title, description, category, priority, expected_outcome, deadline,
		assigned_to, dependencies, required_resources, estimated_time,
		instructions, review_process, performance_metrics, support_contact,
		notes, status, started_at, completed_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	RETURNING id
`

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store over db. If logger is nil, the
// default logger is used.
func NewPostgresTaskStore(db *sql.DB, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	return s.insert(ctx, s.db, task)
}

// CreateForAssignee implements store.TaskStore.CreateForAssignee.
// Returns store.ErrContactNotFound if no contact has assigneeEmail.
func (s *PostgresTaskStore) CreateForAssignee(ctx context.Context, task *domain.Task, assigneeEmail string) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		contact, err := NewPostgresContactStore(tx, s.logger).GetByEmail(ctx, assigneeEmail)
		if err != nil {
			return err
		}
		task.AssignedTo = contact.ID
		return s.insert(ctx, tx, task)
	})
}

func (s *PostgresTaskStore) insert(ctx context.Context, db store.DBTX, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if task.Status == "" {
		task.Status = domain.TaskStatusNotStarted
	}
	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	err := db.QueryRowContext(ctx, insertTaskQuery,
		task.Title,
		nullString(task.Description),
		nullString(task.Category),
		nullString(string(task.Priority)),
		nullString(task.ExpectedOutcome),
		task.Deadline,
		task.AssignedTo,
		nullString(task.Dependencies),
		nullString(task.RequiredResources),
		task.EstimatedTime,
		nullString(task.Instructions),
		nullString(task.ReviewProcess),
		nullString(task.PerformanceMetrics),
		nullInt64(task.SupportContact),
		nullString(task.Notes),
		string(task.Status),
		nullTime(task.StartedAt),
		nullTime(task.CompletedAt),
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to create task",
			slog.String("title", task.Title),
			slog.Int64("assigned_to", task.AssignedTo),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("deadline", task.Deadline.Format(domain.DeadlineLayout)))
	return nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}
