package web

import (
	"net/http"
	"strconv"
	"time"
)

// defaultPerfWindow is how far back GET /api/perf looks unless ?minutes= is given.
const defaultPerfWindow = 15 * time.Minute

// handlePerf handles GET /api/perf
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "perf collection disabled"})
		return
	}
	window := defaultPerfWindow
	if v := r.URL.Query().Get("minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, "minutes must be a positive integer")
			return
		}
		window = time.Duration(n) * time.Minute
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-window), 10))
}
