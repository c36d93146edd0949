package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/phrazzld/duesoon/internal/domain"
	"github.com/phrazzld/duesoon/internal/platform/logger"
	"github.com/phrazzld/duesoon/internal/store"
)

// PostgresContactStore implements store.ContactStore.
type PostgresContactStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresContactStore creates a contact store over db. If logger is nil,
// the default logger is used.
func NewPostgresContactStore(db store.DBTX, logger *slog.Logger) *PostgresContactStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresContactStore{
		db:     db,
		logger: logger.With(slog.String("component", "contact_store")),
	}
}

var _ store.ContactStore = (*PostgresContactStore)(nil)

// Create implements store.ContactStore.Create.
// Returns domain.ErrInvalidContact if validation fails and
// store.ErrContactExists if the phone or email is already registered.
func (s *PostgresContactStore) Create(ctx context.Context, contact *domain.Contact) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := contact.Validate(); err != nil {
		log.Warn("contact validation failed during create", slog.String("error", err.Error()))
		return err
	}

	// Validate guarantees ten digits.
	phone, err := strconv.ParseInt(contact.Phone, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: phone: %v", domain.ErrInvalidContact, err)
	}

	query := `
		INSERT INTO contacts (name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err = s.db.QueryRowContext(ctx, query,
		contact.Name,
		phone,
		contact.Email,
		nullString(contact.Address),
	).Scan(&contact.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate contact", slog.String("email", contact.Email))
			return fmt.Errorf("%w: email or phone already registered: %w", store.ErrContactExists, err)
		}
		log.Error("failed to create contact",
			slog.String("email", contact.Email),
			slog.String("error", err.Error()))
		return store.NewStoreError("contact", "create", "insert failed", MapError(err))
	}

	log.Info("contact created", slog.Int64("contact_id", contact.ID))
	return nil
}

// GetByEmail implements store.ContactStore.GetByEmail.
func (s *PostgresContactStore) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	query := `
		SELECT id, name, phone, email, address
		FROM contacts
		WHERE email = $1
	`
	contact, err := scanContact(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrContactNotFound, email)
		}
		return nil, store.NewStoreError("contact", "get", "query failed", MapError(err))
	}
	return contact, nil
}

// List implements store.ContactStore.List.
func (s *PostgresContactStore) List(ctx context.Context) ([]*domain.Contact, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, phone, email, address
		FROM contacts
		ORDER BY id
	`)
	if err != nil {
		return nil, store.NewStoreError("contact", "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	contacts := []*domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, store.NewStoreError("contact", "list", "scan failed", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("contact", "list", "row iteration failed", err)
	}
	return contacts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var (
		c       domain.Contact
		phone   int64
		address sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &phone, &c.Email, &address); err != nil {
		return nil, err
	}
	c.Phone = strconv.FormatInt(phone, 10)
	c.Address = address.String
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
