package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/redact"
	"github.com/phrazzld/duesoon/internal/store"
)

const dueTasksQuery = `
	SELECT t.title, t.deadline, c.email, c.name
	FROM tasks t
	JOIN contacts c ON t.assigned_to = c.id
	WHERE t.deadline::date = $1::date
	ORDER BY t.id
`

// PostgresDueTaskStore implements store.DueTaskReader.
type PostgresDueTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDueTaskStore creates a reader over db. If logger is nil, the
// default logger is used.
func NewPostgresDueTaskStore(db store.DBTX, logger *slog.Logger) *PostgresDueTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDueTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "due_task_store")),
	}
}

var _ store.DueTaskReader = (*PostgresDueTaskStore)(nil)

// ListDueTasks implements store.DueTaskReader.ListDueTasks.
// The deadline column has no zone, so deadlines are read as wall-clock times
// in on's location.
func (s *PostgresDueTaskStore) ListDueTasks(ctx context.Context, on time.Time) (domain.DueTaskBatch, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	day := on.Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, dueTasksQuery, day)
	if err != nil {
		log.Error("failed to query due tasks",
			slog.String("due_on", day),
			redact.ErrorAttr(err))
		return nil, store.NewStoreError("task", "list_due", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	batch := domain.DueTaskBatch{}
	for rows.Next() {
		var (
			task     domain.DueTask
			deadline time.Time
		)
		if err := rows.Scan(&task.Title, &deadline, &task.AssigneeEmail, &task.AssigneeName); err != nil {
			return nil, store.NewStoreError("task", "list_due", "scan failed", err)
		}
		task.Deadline = wallClockIn(deadline, on.Location())
		batch = append(batch, task)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list_due", "row iteration failed", err)
	}

	log.Debug("listed due tasks", slog.String("due_on", day), slog.Int("count", len(batch)))
	return batch, nil
}

func wallClockIn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

