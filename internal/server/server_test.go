package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/canopy/pkg/config"
	"github.com/matzehuels/canopy/pkg/grid"
	"github.com/matzehuels/canopy/pkg/layout"
)

const sampleTree = `{"id": "root", "children": [{"id": "A"}, {"id": "B"}]}`

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(sampleTree), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(context.Background(), config.Default(), []string{path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, path
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetLayout(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/layout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var l layout.Layout
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatal(err)
	}
	if got := l.IDs(); !slices.Equal(got, []string{"root", "A", "B"}) {
		t.Errorf("ids = %v", got)
	}
	if a, _ := l.Find("A"); a.Position != (grid.Point{X: 200, Y: 80}) {
		t.Errorf("A at %v", a.Position)
	}
}

func TestDragAndStop(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/drag", pointerRequest{ID: "A", X: 200, Y: 190})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("drag status = %d: %s", rec.Code, rec.Body)
	}
	if !s.tick() {
		t.Error("queued move did not produce a frame")
	}
	if s.tick() {
		t.Error("second tick without input should be idle")
	}

	rec = do(t, h, http.MethodPost, "/drag/stop", pointerRequest{ID: "A", X: 200, Y: 190})
	if rec.Code != http.StatusOK {
		t.Fatalf("stop status = %d: %s", rec.Code, rec.Body)
	}
	var res stopResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Order, []string{"B", "A"}) {
		t.Errorf("order = %v, want [B A]", res.Order)
	}
	if res.Positions["A"] != (grid.Point{X: 200, Y: 240}) {
		t.Errorf("A settled at %v", res.Positions["A"])
	}
	if res.SessionID == "" || res.Scope != "service" {
		t.Errorf("session = %q, scope = %q", res.SessionID, res.Scope)
	}
	if b, _ := res.Layout.Find("B"); b.Position != (grid.Point{X: 200, Y: 160}) {
		t.Errorf("B at %v", b.Position)
	}
}

func TestRequestErrors(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	tests := []struct {
		name     string
		path     string
		body     any
		wantCode int
		wantErr  string
	}{
		{"unknown node", "/drag", pointerRequest{ID: "nope"}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown stop", "/drag/stop", pointerRequest{ID: "nope"}, http.StatusNotFound, "NOT_FOUND"},
		{"empty id", "/drag", pointerRequest{}, http.StatusBadRequest, "INVALID_INPUT"},
		{"malformed", "/drag", `{"id": `, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "/toggle", `{"id": "A", "depth": 1}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"toggle unknown", "/toggle", toggleRequest{ID: "nope"}, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body)
			}
			var e errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
				t.Fatal(err)
			}
			if e.Code != tt.wantErr {
				t.Errorf("code = %q, want %q", e.Code, tt.wantErr)
			}
		})
	}
}

func TestToggle(t *testing.T) {
	nested := `{"id": "root", "children": [{"id": "A", "children": [{"id": "A1"}]}, {"id": "B"}]}`
	path := filepath.Join(t.TempDir(), "tree.json")
	if err := os.WriteFile(path, []byte(nested), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(context.Background(), config.Default(), []string{path})
	if err != nil {
		t.Fatal(err)
	}

	rec := do(t, s.Handler(), http.MethodPost, "/toggle", toggleRequest{ID: "A"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	var res toggleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Expanded {
		t.Error("A should be expanded")
	}
	if _, ok := res.Layout.Find("A1"); !ok {
		t.Error("A1 should be visible after expanding A")
	}
}

func TestReloadSwapsTree(t *testing.T) {
	s, path := newTestServer(t)
	updated := `{"id": "root", "children": [{"id": "A"}, {"id": "B"}, {"id": "C"}]}`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := len(s.canvas.Snapshot().Nodes); got != 4 {
		t.Errorf("nodes after reload = %d, want 4", got)
	}

	if err := os.WriteFile(path, []byte(`{"id": "root", "children": [{"id": ""}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.reload(context.Background()); err == nil {
		t.Error("expected reload error for invalid tree")
	}
	if got := len(s.canvas.Snapshot().Nodes); got != 4 {
		t.Errorf("failed reload replaced the tree: %d nodes", got)
	}
}

func TestNewRequiresPaths(t *testing.T) {
	if _, err := New(context.Background(), config.Default(), nil); err == nil {
		t.Error("expected error without tree files")
	}
	if _, err := New(context.Background(), config.Default(), []string{"/does/not/exist.json"}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
