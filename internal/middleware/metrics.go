package middleware

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Metrics holds service counters updated atomically.
type Metrics struct {
	RequestsTotal   int64
	RequestsActive  int64
	ResponsesByCode map[string]*int64

	AnalysesTotal   int64
	AnalysesFailed  int64
	AnalysesRunning int64
}

// NewMetrics creates a metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		ResponsesByCode: map[string]*int64{
			"2xx": new(int64),
			"3xx": new(int64),
			"4xx": new(int64),
			"5xx": new(int64),
		},
	}
}

func (m *Metrics) recordStatus(code int) {
	var bucket string
	switch {
	case code >= 200 && code < 300:
		bucket = "2xx"
	case code >= 300 && code < 400:
		bucket = "3xx"
	case code >= 400 && code < 500:
		bucket = "4xx"
	default:
		bucket = "5xx"
	}
	atomic.AddInt64(m.ResponsesByCode[bucket], 1)
}

// AnalysisStarted marks a valuation run in flight.
func (m *Metrics) AnalysisStarted() {
	atomic.AddInt64(&m.AnalysesTotal, 1)
	atomic.AddInt64(&m.AnalysesRunning, 1)
}

// AnalysisFinished marks a run complete, failed or not.
func (m *Metrics) AnalysisFinished(err error) {
	atomic.AddInt64(&m.AnalysesRunning, -1)
	if err != nil {
		atomic.AddInt64(&m.AnalysesFailed, 1)
	}
}

// MetricsMiddleware counts requests and response classes.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&m.RequestsTotal, 1)
		atomic.AddInt64(&m.RequestsActive, 1)
		defer atomic.AddInt64(&m.RequestsActive, -1)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		m.recordStatus(wrapped.statusCode)
	})
}

// MetricsHandler exposes the counters as JSON.
func (m *Metrics) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := map[string]any{
			"requests_total":   atomic.LoadInt64(&m.RequestsTotal),
			"requests_active":  atomic.LoadInt64(&m.RequestsActive),
			"analyses_total":   atomic.LoadInt64(&m.AnalysesTotal),
			"analyses_failed":  atomic.LoadInt64(&m.AnalysesFailed),
			"analyses_running": atomic.LoadInt64(&m.AnalysesRunning),
			"time":             time.Now(),
		}
		codes := make(map[string]int64, len(m.ResponsesByCode))
		for bucket, counter := range m.ResponsesByCode {
			codes[bucket] = atomic.LoadInt64(counter)
		}
		snapshot["responses_by_code"] = codes

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	}
}
