package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithRequestLoggingPreservesStatus(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := WithRequestLogging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), log)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusTeapot {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestLoggingResponseWriterPreservesFlusher(t *testing.T) {
	rr := httptest.NewRecorder()
	lrw := &loggingResponseWriter{ResponseWriter: rr, status: http.StatusOK}

	// httptest.ResponseRecorder implements http.Flusher; the wrapper must
	// pass it through or streaming responses stall.
	lrw.Flush()
	if !rr.Flushed {
		t.Fatal("Flush not forwarded")
	}

	if lrw.Unwrap() != rr {
		t.Fatal("Unwrap should return the wrapped writer")
	}
}

func TestWithSecurityHeaders(t *testing.T) {
	h := WithSecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("missing nosniff: %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("missing frame options: %q", got)
	}
	if got := rr.Header().Get("Referrer-Policy"); got != "no-referrer" {
		t.Fatalf("missing referrer policy: %q", got)
	}
}

func TestWithRequestMetricsRecordsDuration(t *testing.T) {
	m := NewMetrics()

	h := WithRequestMetrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), m)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}

	mfs, err := m.registry.Gather()
	if err != nil {
		t.Fatal(err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "clubhouse_http_request_duration_seconds" {
			found = true
			if len(mf.GetMetric()) == 0 {
				t.Fatal("no samples recorded")
			}
		}
	}
	if !found {
		t.Fatal("duration histogram not registered")
	}
}
