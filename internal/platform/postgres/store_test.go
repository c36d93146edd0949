package postgres_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/postgres"
	"github.com/phrazzld/duesoon/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

const dueTasksPattern = `SELECT t.title, t.deadline, c.email, c.name\s+FROM tasks t\s+JOIN contacts c ON t.assigned_to = c.id\s+WHERE t.deadline::date = \$1::date\s+ORDER BY t.id`

func TestListDueTasks(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)
	on := time.Date(2025, time.March, 11, 0, 0, 0, 0, ist)

	t.Run("returns rows in store order", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)

		rows := sqlmock.NewRows([]string{"title", "deadline", "email", "name"}).
			AddRow("Testing", time.Date(2025, time.March, 11, 17, 0, 0, 0, time.UTC), "a@x.com", "A").
			AddRow("Deploy", time.Date(2025, time.March, 11, 0, 5, 0, 0, time.UTC), "b@x.com", "B")
		mock.ExpectQuery(dueTasksPattern).WithArgs("2025-03-11").WillReturnRows(rows)

		batch, err := postgres.NewPostgresDueTaskStore(db, nil).ListDueTasks(context.Background(), on)
		require.NoError(t, err)
		require.Len(t, batch, 2)

		assert.Equal(t, "Testing", batch[0].Title)
		assert.Equal(t, "a@x.com", batch[0].AssigneeEmail)
		assert.Equal(t, "A", batch[0].AssigneeName)
		assert.Equal(t, "2025-03-11 17:00", batch[0].RawDeadline())
		assert.Equal(t, ist, batch[0].Deadline.Location())
		assert.True(t, batch[0].IsDueOn(on))

		assert.Equal(t, "Deploy", batch[1].Title)
		assert.Equal(t, "2025-03-11 00:05", batch[1].RawDeadline())
	})

	t.Run("binds the due date for any time of day", func(t *testing.T) {
		t.Parallel()
		for _, hhmm := range [][2]int{{0, 0}, {23, 59}} {
			now := time.Date(2025, time.March, 9, hhmm[0], hhmm[1], 0, 0, ist)
			db, mock := newMockDB(t)
			mock.ExpectQuery(dueTasksPattern).WithArgs("2025-03-11").
				WillReturnRows(sqlmock.NewRows([]string{"title", "deadline", "email", "name"}))

			_, err := postgres.NewPostgresDueTaskStore(db, nil).ListDueTasks(context.Background(), domain.DueDate(now, 2))
			require.NoError(t, err, "now %v", now)
			assert.NoError(t, mock.ExpectationsWereMet(), "now %v", now)
		}
	})

	t.Run("no rows is an empty batch", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(dueTasksPattern).WithArgs("2025-03-11").
			WillReturnRows(sqlmock.NewRows([]string{"title", "deadline", "email", "name"}))

		batch, err := postgres.NewPostgresDueTaskStore(db, nil).ListDueTasks(context.Background(), on)
		require.NoError(t, err)
		assert.NotNil(t, batch)
		assert.True(t, batch.IsEmpty())
	})

	t.Run("query failure propagates", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		queryErr := errors.New("connection refused")
		mock.ExpectQuery(dueTasksPattern).WillReturnError(queryErr)

		batch, err := postgres.NewPostgresDueTaskStore(db, nil).ListDueTasks(context.Background(), on)
		assert.Nil(t, batch)
		assert.ErrorIs(t, err, queryErr)

		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "list_due", storeErr.Operation)
	})

	t.Run("scan failure propagates", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(dueTasksPattern).WillReturnRows(
			sqlmock.NewRows([]string{"title", "deadline", "email", "name"}).
				AddRow("Testing", "not a timestamp", "a@x.com", "A"))

		_, err := postgres.NewPostgresDueTaskStore(db, nil).ListDueTasks(context.Background(), on)
		assert.ErrorContains(t, err, "scan failed")
	})

	t.Run("row error propagates", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		rowErr := errors.New("network blip")
		mock.ExpectQuery(dueTasksPattern).WillReturnRows(
			sqlmock.NewRows([]string{"title", "deadline", "email", "name"}).
				AddRow("Testing", time.Now(), "a@x.com", "A").
				RowError(0, rowErr))

		_, err := postgres.NewPostgresDueTaskStore(db, nil).ListDueTasks(context.Background(), on)
		assert.ErrorIs(t, err, rowErr)
	})
}

func TestContactStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("inserts and sets id", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`INSERT INTO contacts \(name, phone, email, address\)`).
			WithArgs("A", int64(9876543210), "a@x.com", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		c, err := domain.NewContact("A", "9876543210", "a@x.com", "")
		require.NoError(t, err)

		require.NoError(t, postgres.NewPostgresContactStore(db, nil).Create(context.Background(), c))
		assert.Equal(t, int64(7), c.ID)
	})

	t.Run("invalid contact never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)

		c := &domain.Contact{Name: "A", Phone: "12345", Email: "a@x.com"}
		err := postgres.NewPostgresContactStore(db, nil).Create(context.Background(), c)
		assert.ErrorIs(t, err, domain.ErrInvalidContact)
	})

	t.Run("duplicate maps to contact exists", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`INSERT INTO contacts`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "contacts_email_key"})

		c := &domain.Contact{Name: "A", Phone: "9876543210", Email: "a@x.com", Address: "Delhi"}
		err := postgres.NewPostgresContactStore(db, nil).Create(context.Background(), c)
		assert.ErrorIs(t, err, store.ErrContactExists)
		assert.True(t, store.IsDuplicateError(err))
	})
}

func TestContactStoreGetByEmail(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM contacts\s+WHERE email = \$1`).WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email", "address"}).
				AddRow(3, "A", int64(9999701072), "a@x.com", nil))

		c, err := postgres.NewPostgresContactStore(db, nil).GetByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, &domain.Contact{ID: 3, Name: "A", Phone: "9999701072", Email: "a@x.com"}, c)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`FROM contacts\s+WHERE email = \$1`).WithArgs("z@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email", "address"}))

		_, err := postgres.NewPostgresContactStore(db, nil).GetByEmail(context.Background(), "z@x.com")
		assert.ErrorIs(t, err, store.ErrContactNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestContactStoreList(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM contacts\s+ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email", "address"}).
			AddRow(1, "A", int64(9876543210), "a@x.com", "Delhi").
			AddRow(2, "B", int64(5551234123), "b@x.com", nil))

	contacts, err := postgres.NewPostgresContactStore(db, nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Delhi", contacts[0].Address)
	assert.Equal(t, "5551234123", contacts[1].Phone)
}

func validTask() *domain.Task {
	return &domain.Task{
		Title:         "Testing",
		Deadline:      time.Date(2025, time.March, 11, 17, 0, 0, 0, time.UTC),
		AssignedTo:    3,
		EstimatedTime: "2 hours",
		Priority:      domain.PriorityHigh,
	}
}

func TestTaskStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("inserts with default status", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		task := validTask()
		require.NoError(t, postgres.NewPostgresTaskStore(db, nil).Create(context.Background(), task))
		assert.Equal(t, int64(11), task.ID)
		assert.Equal(t, domain.TaskStatusNotStarted, task.Status)
	})

	t.Run("invalid task", func(t *testing.T) {
		t.Parallel()
		db, _ := newMockDB(t)

		task := validTask()
		task.Title = ""
		err := postgres.NewPostgresTaskStore(db, nil).Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "tasks_assigned_to_fkey"})

		err := postgres.NewPostgresTaskStore(db, nil).Create(context.Background(), validTask())
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorContains(t, err, "tasks_assigned_to_fkey")
	})
}

func TestTaskStoreCreateForAssignee(t *testing.T) {
	t.Parallel()

	t.Run("resolves assignee and commits", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM contacts\s+WHERE email = \$1`).WithArgs("a@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email", "address"}).
				AddRow(9, "A", int64(9876543210), "a@x.com", nil))
		mock.ExpectQuery(`INSERT INTO tasks`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
		mock.ExpectCommit()

		task := validTask()
		task.AssignedTo = 0
		err := postgres.NewPostgresTaskStore(db, nil).CreateForAssignee(context.Background(), task, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, int64(9), task.AssignedTo)
		assert.Equal(t, int64(12), task.ID)
	})

	t.Run("unknown email rolls back", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM contacts\s+WHERE email = \$1`).WithArgs("z@x.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "email", "address"}))
		mock.ExpectRollback()

		err := postgres.NewPostgresTaskStore(db, nil).CreateForAssignee(context.Background(), validTask(), "z@x.com")
		assert.ErrorIs(t, err, store.ErrContactNotFound)
	})
}

func TestNewStoresRejectNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postgres.NewPostgresDueTaskStore(nil, nil) })
	assert.Panics(t, func() { postgres.NewPostgresContactStore(nil, nil) })
	assert.Panics(t, func() { postgres.NewPostgresTaskStore(nil, nil) })
}
