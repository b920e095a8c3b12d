package audit

import (
	"context"
	"database/sql"
	"time"

	"gymroster/internal/adapters/storage"
	domain "gymroster/internal/domain/audit"
)

// timeLayout is fixed-width so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `id, timestamp, category, action, actor_id, actor_email, resource_id, description, ip_address`

// SQLiteStore implements the audit Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new audit event store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save persists an audit event.
// PRE: event passes Validate
// POST: Event is persisted
func (s *SQLiteStore) Save(ctx context.Context, e domain.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_event (`+selectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Timestamp.UTC().Format(timeLayout), string(e.Category), string(e.Action),
		e.ActorID, e.ActorEmail, e.ResourceID, e.Description, e.IPAddress)
	return err
}

// List returns matching events, newest first.
// PRE: none
// POST: At most limit events (DefaultLimit when limit <= 0); never nil
func (s *SQLiteStore) List(ctx context.Context, filter Filter, limit int) ([]domain.Event, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `SELECT ` + selectColumns + ` FROM audit_event WHERE 1=1`
	args := []any{}
	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filter.Category))
	}
	if filter.ResourceID != "" {
		query += " AND resource_id = ?"
		args = append(args, filter.ResourceID)
	}
	query += " ORDER BY timestamp DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (domain.Event, error) {
	var e domain.Event
	var ts string
	if err := rows.Scan(&e.ID, &ts, &e.Category, &e.Action, &e.ActorID, &e.ActorEmail, &e.ResourceID, &e.Description, &e.IPAddress); err != nil {
		return domain.Event{}, err
	}
	e.Timestamp, _ = time.Parse(timeLayout, ts)
	return e, nil
}
