package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andresuchdata/stockguard/internal/snapshot"
)

var testNow = time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)

type flakySource struct {
	fail bool
}

func (s *flakySource) Name() string { return "flaky" }

func (s *flakySource) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	if s.fail {
		return nil, errors.New("bucket unreachable")
	}
	return snapshot.Build(snapshot.SampleTables(1, testNow), "flaky", testNow), nil
}

type countingCache struct {
	invalidations int
}

func (c *countingCache) Get(ctx context.Context, kind, version string, params map[string]string, dest any) (bool, error) {
	return false, nil
}

func (c *countingCache) Set(ctx context.Context, kind, version string, params map[string]string, value any) error {
	return nil
}

func (c *countingCache) InvalidateAll(ctx context.Context) error {
	c.invalidations++
	return nil
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestAdmin_SnapshotLifecycle(t *testing.T) {
	src := &flakySource{}
	router := NewRouter(NewHandler(snapshot.NewHolder(src), nil))

	if w := serve(router, http.MethodGet, "/admin/snapshot"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503 before first load, got %d", w.Code)
	}

	w := serve(router, http.MethodPost, "/admin/snapshot/refresh")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 from refresh, got %d (%s)", w.Code, w.Body.String())
	}
	var stats snapshot.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.Stores != 3 || stats.Version == "" {
		t.Errorf("Unexpected stats %+v", stats)
	}

	src.fail = true
	if w := serve(router, http.MethodPost, "/admin/snapshot/refresh"); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 from failed refresh, got %d", w.Code)
	}
	if w := serve(router, http.MethodGet, "/admin/snapshot"); w.Code != http.StatusOK {
		t.Errorf("Expected previous snapshot to stay served, got %d", w.Code)
	}
}

func TestAdmin_InvalidateCache(t *testing.T) {
	c := &countingCache{}
	router := NewRouter(NewHandler(snapshot.NewHolder(nil), c))

	if w := serve(router, http.MethodPost, "/admin/cache/invalidate"); w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if c.invalidations != 1 {
		t.Errorf("Expected 1 invalidation, got %d", c.invalidations)
	}
}

func TestAdmin_RoutesAndMethods(t *testing.T) {
	router := NewRouter(NewHandler(snapshot.NewHolder(nil), nil))

	if w := serve(router, http.MethodGet, "/health"); w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Errorf("Unexpected health response %d %q", w.Code, w.Body.String())
	}
	if w := serve(router, http.MethodGet, "/admin/snapshot/refresh"); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET refresh, got %d", w.Code)
	}
}
