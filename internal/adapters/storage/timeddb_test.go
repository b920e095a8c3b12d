package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymroster/internal/adapters/perf"
)

// openTimedRoster returns a migrated in-memory roster database wrapped in a TimedDB.
func openTimedRoster(tb testing.TB) (*TimedDB, *perf.Collector) {
	tb.Helper()
	db := openTestDB(tb)
	if err := MigrateDB(db, ":memory:"); err != nil {
		tb.Fatalf("MigrateDB: %v", err)
	}
	collector := perf.NewCollector(100)
	return NewTimedDB(db, collector), collector
}

// queryStats returns the snapshot's statement stats keyed by label.
func queryStats(c *perf.Collector) map[string]perf.PathStat {
	out := map[string]perf.PathStat{}
	for _, s := range c.Snapshot(time.Now().Add(-time.Minute), 50).SlowestQueries {
		out[s.Path] = s
	}
	return out
}

// TestTimedDB_RosterStatements runs the statements the stores issue and checks each
// is grouped under "<op> <table>".
func TestTimedDB_RosterStatements(t *testing.T) {
	tdb, collector := openTimedRoster(t)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx,
		`INSERT INTO member (id, name, email, membership_date) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		"m1", "Alice", "alice@example.com", "2099-01-01"); err != nil {
		t.Fatalf("insert member: %v", err)
	}
	if _, err := tdb.ExecContext(ctx,
		"INSERT INTO account (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		"a1", "admin@example.com", "x", "2026-01-01T00:00:00Z"); err != nil {
		t.Fatalf("insert account: %v", err)
	}
	if _, err := tdb.ExecContext(ctx,
		"INSERT INTO audit_event (id, timestamp, category, action, actor_id) VALUES (?, ?, ?, ?, ?)",
		"e1", "2026-01-01T00:00:00.000000000Z", "member", "create", "a1"); err != nil {
		t.Fatalf("insert audit: %v", err)
	}
	if _, err := tdb.ExecContext(ctx, "UPDATE account SET failed_logins = failed_logins + 1 WHERE id = ?", "a1"); err != nil {
		t.Fatalf("update account: %v", err)
	}

	var name string
	if err := tdb.QueryRowContext(ctx, "SELECT name FROM member WHERE id = ?", "m1").Scan(&name); err != nil || name != "Alice" {
		t.Fatalf("select member: %q, %v", name, err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id FROM audit_event WHERE resource_id = ? ORDER BY timestamp DESC", "")
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	rows.Close()

	stats := queryStats(collector)
	tests := []struct {
		label string
		count int
	}{
		{"ExecContext member", 1},
		{"ExecContext account", 2},
		{"ExecContext audit_event", 1},
		{"QueryRowContext member", 1},
		{"QueryContext audit_event", 1},
	}
	for _, tt := range tests {
		if got := stats[tt.label].Count; got != tt.count {
			t.Errorf("%s count = %d, want %d", tt.label, got, tt.count)
		}
	}
}

// TestTimedDB_ErrorsPassThrough verifies a constraint violation reaches the caller
// and the statement is still timed.
func TestTimedDB_ErrorsPassThrough(t *testing.T) {
	tdb, collector := openTimedRoster(t)
	ctx := context.Background()
	insert := "INSERT INTO account (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)"

	if _, err := tdb.ExecContext(ctx, insert, "a1", "dup@example.com", "x", "now"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := tdb.ExecContext(ctx, insert, "a2", "dup@example.com", "x", "now"); err == nil {
		t.Fatal("duplicate account email accepted")
	}
	if got := queryStats(collector)["ExecContext account"].Count; got != 2 {
		t.Errorf("ExecContext account count = %d, want 2", got)
	}

	err := tdb.QueryRowContext(ctx, "SELECT name FROM member WHERE id = ?", "missing").Scan(new(string))
	if err == nil {
		t.Error("missing member returned a row")
	}
}

// TestTimedDB_CancelledContext verifies a cancelled request context aborts the query.
func TestTimedDB_CancelledContext(t *testing.T) {
	tdb, collector := openTimedRoster(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tdb.QueryContext(ctx, "SELECT id FROM member"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_Transaction verifies BeginTx is timed without a table label.
func TestTimedDB_Transaction(t *testing.T) {
	tdb, collector := openTimedRoster(t)
	tx, err := tdb.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.Exec("DELETE FROM member WHERE id = ?", "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, ok := queryStats(collector)["BeginTx"]; !ok {
		t.Error("BeginTx not recorded")
	}
}

// TestTimedDB_NilCollector verifies the wrapper works with slow-query logging only.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTestDB(t)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	tdb := NewTimedDB(db, nil)
	if tdb.RawDB() != db {
		t.Error("RawDB should return the wrapped handle")
	}
	if _, err := tdb.ExecContext(context.Background(), "DELETE FROM audit_event"); err != nil {
		t.Errorf("ExecContext: %v", err)
	}
}

// TestTimedDB_ConcurrentMemberWrites verifies parallel upserts are all timed.
func TestTimedDB_ConcurrentMemberWrites(t *testing.T) {
	tdb, collector := openTimedRoster(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n))
			tdb.ExecContext(ctx,
				"INSERT INTO member (id, name, email, membership_date) VALUES (?, ?, ?, ?)",
				id, "Member "+id, id+"@example.com", "2099-01-01")
			tdb.QueryRowContext(ctx, "SELECT COUNT(*) FROM member").Scan(new(int))
		}(i)
	}
	wg.Wait()

	stats := queryStats(collector)
	if stats["ExecContext member"].Count != 20 || stats["QueryRowContext member"].Count != 20 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTableOf(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT id, name FROM member ORDER BY rowid", "member"},
		{"INSERT INTO audit_event (id) VALUES (?)", "audit_event"},
		{"UPDATE account SET failed_logins = 0 WHERE id = ?", "account"},
		{"delete from member where id = ?", "member"},
		{"PRAGMA foreign_keys=ON", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := tableOf(tt.query); got != tt.want {
			t.Errorf("tableOf(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

// BenchmarkTimedDB_MemberLookup measures instrumentation overhead on a member read.
func BenchmarkTimedDB_MemberLookup(b *testing.B) {
	tdb, _ := openTimedRoster(b)
	ctx := context.Background()
	tdb.ExecContext(ctx, "INSERT INTO member (id, name, email, membership_date) VALUES ('m1', 'Alice', 'a@x.com', '2099-01-01')")

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tdb.QueryRowContext(ctx, "SELECT name FROM member WHERE id = ?", "m1").Scan(new(string))
	}
}
