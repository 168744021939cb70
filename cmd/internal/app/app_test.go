package app

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testApp(t *testing.T) *App {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(Config{DevMode: true, ClubSecret: "test-secret"}, log)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func TestNewDevModeWiresMemoryStores(t *testing.T) {
	a := testApp(t)

	if a.dbEnabled {
		t.Fatal("dev mode without DATABASE_URL must not enable the database")
	}
	if a.site == nil || a.feed == nil || a.metrics == nil {
		t.Fatal("incomplete wiring")
	}
}

func TestNewRequiresDatabaseOutsideDevMode(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := New(Config{ClubSecret: "test-secret"}, log)
	if err == nil {
		t.Fatal("expected error without CLUBHOUSE_DATABASE_URL outside dev mode")
	}
}

func TestOpsEndpoints(t *testing.T) {
	a := testApp(t)

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, a.cfg, a.dbPool, a.dbEnabled, a.site, a.feed, a.metrics)

	for _, tc := range []struct {
		path string
		want int
	}{
		{path: "/healthz", want: http.StatusOK},
		{path: "/readyz", want: http.StatusOK},
		{path: "/metrics", want: http.StatusOK},
	} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rr.Code != tc.want {
			t.Fatalf("%s = %d, want %d", tc.path, rr.Code, tc.want)
		}
	}
}

func TestReadyzRequiresDBWhenConfigured(t *testing.T) {
	a := testApp(t)

	cfg := a.cfg
	cfg.ReadinessRequireDB = true

	mux := http.NewServeMux()
	registerHTTP(mux, a.log, cfg, nil, false, a.site, a.feed, a.metrics)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz = %d, want 503", rr.Code)
	}
}
