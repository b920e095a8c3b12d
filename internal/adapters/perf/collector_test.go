package perf

import (
	"sync"
	"testing"
	"time"
)

// TestSnapshot_SeparatesKinds verifies server requests, SQL statements and console
// gateway calls each land in their own list.
func TestSnapshot_SeparatesKinds(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /api/members", StatusCode: 200, DurationMs: 10, Timestamp: now})
	c.Record(Entry{Kind: KindRequest, Path: "GET /api/members", StatusCode: 200, DurationMs: 30, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "QueryContext member", DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindQuery, Path: "ExecContext audit_event", DurationMs: 1, Timestamp: now})
	c.Record(Entry{Kind: KindGateway, Path: "gateway.list", StatusCode: 200, DurationMs: 12, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.TotalRecorded != 5 {
		t.Errorf("TotalRecorded = %d, want 5", snap.TotalRecorded)
	}
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].AvgMs != 20 {
		t.Errorf("SlowestPaths = %+v", snap.SlowestPaths)
	}
	if len(snap.SlowestQueries) != 2 || snap.SlowestQueries[0].Path != "QueryContext member" {
		t.Errorf("SlowestQueries = %+v", snap.SlowestQueries)
	}
	if len(snap.GatewayCalls) != 1 || snap.GatewayCalls[0].Path != "gateway.list" {
		t.Errorf("GatewayCalls = %+v", snap.GatewayCalls)
	}
	// Gateway durations never feed the server request percentiles.
	if snap.RequestP99Ms > 30 {
		t.Errorf("RequestP99Ms = %v, want <= 30", snap.RequestP99Ms)
	}
}

// TestSnapshot_Failures verifies which status codes count as failures per kind.
func TestSnapshot_Failures(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		fail  bool
	}{
		{"gateway ok", Entry{Kind: KindGateway, StatusCode: 201}, false},
		{"gateway unreachable", Entry{Kind: KindGateway, StatusCode: 0}, true},
		{"gateway unknown member", Entry{Kind: KindGateway, StatusCode: 404}, true},
		{"gateway server error", Entry{Kind: KindGateway, StatusCode: 502}, true},
		{"request not found", Entry{Kind: KindRequest, StatusCode: 404}, false},
		{"request server error", Entry{Kind: KindRequest, StatusCode: 500}, true},
		{"query", Entry{Kind: KindQuery}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(4)
			now := time.Now()
			e := tt.entry
			e.Path, e.DurationMs, e.Timestamp = "op", 1, now
			c.Record(e)

			snap := c.Snapshot(now.Add(-time.Minute), 10)
			var stats []PathStat
			switch e.Kind {
			case KindRequest:
				stats = snap.SlowestPaths
			case KindQuery:
				stats = snap.SlowestQueries
			case KindGateway:
				stats = snap.GatewayCalls
			}
			if len(stats) != 1 {
				t.Fatalf("stats = %+v", stats)
			}
			want := 0
			if tt.fail {
				want = 1
			}
			if stats[0].Failures != want {
				t.Errorf("Failures = %d, want %d", stats[0].Failures, want)
			}
		})
	}
}

// TestSnapshot_GatewayOrdering verifies gateway ops are ranked by average latency.
func TestSnapshot_GatewayOrdering(t *testing.T) {
	c := NewCollector(100)
	now := time.Now()

	c.Record(Entry{Kind: KindGateway, Path: "gateway.delete", StatusCode: 204, DurationMs: 2, Timestamp: now})
	c.Record(Entry{Kind: KindGateway, Path: "gateway.update", StatusCode: 200, DurationMs: 9, Timestamp: now})
	c.Record(Entry{Kind: KindGateway, Path: "gateway.create", StatusCode: 201, DurationMs: 5, Timestamp: now})
	c.Record(Entry{Kind: KindGateway, Path: "gateway.list", StatusCode: 200, DurationMs: 5, Timestamp: now})

	snap := c.Snapshot(now.Add(-time.Minute), 3)
	want := []string{"gateway.update", "gateway.create", "gateway.list"}
	if len(snap.GatewayCalls) != len(want) {
		t.Fatalf("GatewayCalls = %+v", snap.GatewayCalls)
	}
	for i, p := range snap.GatewayCalls {
		if p.Path != want[i] {
			t.Errorf("GatewayCalls[%d] = %q, want %q", i, p.Path, want[i])
		}
	}
}

// TestSnapshot_RingAndWindow verifies a full ring keeps the newest entries and the
// since cutoff drops older ones.
func TestSnapshot_RingAndWindow(t *testing.T) {
	c := NewCollector(3)
	now := time.Now()

	c.Record(Entry{Kind: KindRequest, Path: "GET /api/audit", DurationMs: 1, Timestamp: now.Add(-2 * time.Hour)})
	for i := 0; i < 4; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /api/members", DurationMs: float64(i), Timestamp: now})
	}
	if c.TotalRecorded() != 5 {
		t.Errorf("TotalRecorded = %d, want 5", c.TotalRecorded())
	}

	snap := c.Snapshot(now.Add(-time.Hour), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Count != 3 {
		t.Errorf("SlowestPaths = %+v, want only the last 3 member listings", snap.SlowestPaths)
	}
}

// TestSnapshot_Percentiles verifies request percentiles over 1..100ms.
func TestSnapshot_Percentiles(t *testing.T) {
	c := NewCollector(200)
	now := time.Now()
	for i := 1; i <= 100; i++ {
		c.Record(Entry{Kind: KindRequest, Path: "GET /api/members/summary", DurationMs: float64(i), Timestamp: now})
	}

	snap := c.Snapshot(now.Add(-time.Minute), 10)
	if snap.RequestP50Ms < 49 || snap.RequestP50Ms > 51 {
		t.Errorf("P50 = %v, want ~50", snap.RequestP50Ms)
	}
	if snap.RequestP95Ms < 94 || snap.RequestP95Ms > 96 {
		t.Errorf("P95 = %v, want ~95", snap.RequestP95Ms)
	}
}

// TestCollector_ConcurrentGatewayAndServer verifies one collector shared by the
// console gateway and request timing is race-free.
func TestCollector_ConcurrentGatewayAndServer(t *testing.T) {
	c := NewCollector(500)
	now := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Record(Entry{Kind: KindGateway, Path: "gateway.create", StatusCode: 201, DurationMs: 1, Timestamp: now})
		}()
		go func() {
			defer wg.Done()
			c.Record(Entry{Kind: KindRequest, Path: "POST /api/members", StatusCode: 201, DurationMs: 1, Timestamp: now})
			c.Snapshot(now.Add(-time.Minute), 5)
		}()
	}
	wg.Wait()

	snap := c.Snapshot(now.Add(-time.Minute), 5)
	if snap.TotalRecorded != 100 || snap.GatewayCalls[0].Count != 50 {
		t.Errorf("snapshot = %+v", snap)
	}
}

// BenchmarkCollectorRecord measures per-call cost of Record().
func BenchmarkCollectorRecord(b *testing.B) {
	c := NewCollector(DefaultRingSize)
	e := Entry{Kind: KindGateway, Path: "gateway.list", StatusCode: 200, DurationMs: 1.5, Timestamp: time.Now()}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Record(e)
	}
}
