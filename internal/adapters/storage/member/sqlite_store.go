package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymroster/internal/adapters/storage"
	domain "gymroster/internal/domain/member"
)

const selectColumns = "SELECT id, name, email, membership_date FROM member"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member Store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// scanMember reads one row in selectColumns order.
func scanMember(scan func(dest ...any) error) (domain.Member, error) {
	var entity domain.Member
	var date string
	if err := scan(&entity.ID, &entity.Name, &entity.Email, &date); err != nil {
		return domain.Member{}, err
	}
	parsed, err := domain.ParseDate(date)
	if err != nil {
		return domain.Member{}, fmt.Errorf("member %s: %w", entity.ID, err)
	}
	entity.MembershipDate = parsed
	return entity, nil
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanMember(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update); an update keeps the row's position
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO member (id, name, email, membership_date) VALUES (?, ?, ?, ?) "+
			"ON CONFLICT(id) DO UPDATE SET name=excluded.name, email=excluded.email, membership_date=excluded.membership_date",
		entity.ID,
		entity.Name,
		entity.Email,
		domain.FormatDate(entity.MembershipDate),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed; ErrNotFound if nothing matched
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List retrieves every Member in insertion order.
// PRE: none
// POST: Returns all entities ordered by rowid
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Member{}
	for rows.Next() {
		entity, err := scanMember(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
