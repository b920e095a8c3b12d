package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymroster/internal/adapters/storage"
	domain "gymroster/internal/domain/account"
)

const selectColumns = "SELECT id, email, password_hash, created_at, failed_logins, locked_until FROM account"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new account Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an Account by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return s.getOne(ctx, selectColumns+" WHERE id = ?", id)
}

// GetByEmail retrieves an Account by email.
// PRE: email is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return s.getOne(ctx, selectColumns+" WHERE email = ?", email)
}

func (s *SQLiteStore) getOne(ctx context.Context, query string, arg string) (domain.Account, error) {
	entity, err := scanAccount(s.db.QueryRowContext(ctx, query, arg).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("%w: %s", ErrNotFound, arg)
	}
	return entity, err
}

// Save persists an Account to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var lockedUntil any
	if !entity.LockedUntil.IsZero() {
		lockedUntil = entity.LockedUntil.UTC().Format(time.RFC3339Nano)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO account (id, email, password_hash, created_at, failed_logins, locked_until) VALUES (?, ?, ?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET email=excluded.email, password_hash=excluded.password_hash, "+
			"failed_logins=excluded.failed_logins, locked_until=excluded.locked_until",
		entity.ID,
		entity.Email,
		entity.PasswordHash,
		entity.CreatedAt.UTC().Format(time.RFC3339Nano),
		entity.FailedLogins,
		lockedUntil,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Count returns the total number of accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM account").Scan(&count)
	return count, err
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = time.Parse(time.RFC3339Nano, lockedUntil.String)
	}
	return entity, nil
}
