package audit

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"gymroster/internal/adapters/storage"
	domain "gymroster/internal/domain/audit"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	return NewSQLiteStore(db)
}

// TestSQLiteStore_SaveAndList verifies ordering and filters.
func TestSQLiteStore_SaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	events := []domain.Event{
		domain.NewEvent("a1", "admin@gym.test", domain.CategoryAccount, domain.ActionLogin, base),
		domain.NewEvent("a1", "admin@gym.test", domain.CategoryMember, domain.ActionCreate, base.Add(time.Minute)).WithResource("m1"),
		domain.NewEvent("a1", "admin@gym.test", domain.CategoryMember, domain.ActionUpdate, base.Add(2*time.Minute)).WithResource("m1"),
		domain.NewEvent("a1", "admin@gym.test", domain.CategoryMember, domain.ActionCreate, base.Add(3*time.Minute)).WithResource("m2"),
	}
	for _, e := range events {
		if err := s.Save(ctx, e); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	all, err := s.List(ctx, Filter{}, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 || all[0].ResourceID != "m2" || all[3].Action != domain.ActionLogin {
		t.Fatalf("all = %+v, want newest first", all)
	}
	if !all[3].Timestamp.Equal(base) {
		t.Errorf("timestamp = %v, want %v", all[3].Timestamp, base)
	}

	m1, _ := s.List(ctx, Filter{ResourceID: "m1"}, 10)
	if len(m1) != 2 || m1[0].Action != domain.ActionUpdate {
		t.Errorf("m1 history = %+v", m1)
	}

	members, _ := s.List(ctx, Filter{Category: domain.CategoryMember}, 2)
	if len(members) != 2 {
		t.Errorf("limited = %d, want 2", len(members))
	}
}

// TestSQLiteStore_SaveInvalid verifies invalid events are rejected.
func TestSQLiteStore_SaveInvalid(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(context.Background(), domain.Event{ID: "x", Action: domain.ActionLogin}); !errors.Is(err, domain.ErrMissingActor) {
		t.Errorf("Save() = %v, want ErrMissingActor", err)
	}
}

// TestSQLiteStore_ListEmpty verifies an empty log returns a non-nil slice.
func TestSQLiteStore_ListEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.List(context.Background(), Filter{}, 5)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("List() = %v, %v; want empty slice", got, err)
	}
}
