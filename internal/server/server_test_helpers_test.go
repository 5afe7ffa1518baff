package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/izzyreal/pagehist/internal/config"
	"github.com/izzyreal/pagehist/internal/protocol"
	"github.com/izzyreal/pagehist/internal/store"
)

func newTestState(t *testing.T) *stateStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pagehist.db")
	db, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Default()
	cfg.Server.DBPath = dbPath
	cfg.Server.IngestRatePerSec = 0
	cfg.Server.MDNS.Enabled = false
	return newStateStore(db, cfg)
}

func newTestHTTPServer(t *testing.T) (*httptest.Server, *stateStore) {
	t.Helper()
	s := newTestState(t)
	ts := httptest.NewServer(buildRouter(s))
	t.Cleanup(ts.Close)
	return ts, s
}

func mustJSONRequest(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request JSON: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeJSONBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return string(data)
}

// buildRequest turns "page=status" pairs into a record-build body.
func buildRequest(pairs ...string) protocol.RecordBuildRequest {
	req := protocol.RecordBuildRequest{StartedUTC: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	for _, p := range pairs {
		page, status, _ := strings.Cut(p, "=")
		req.Outcomes = append(req.Outcomes, protocol.ChildOutcome{Page: page, Status: status})
	}
	return req
}

func recordBuild(t *testing.T, ts *httptest.Server, project string, pairs ...string) protocol.BuildResult {
	t.Helper()
	resp := mustJSONRequest(t, ts.Client(), http.MethodPost, ts.URL+"/api/v1/projects/"+project+"/builds", buildRequest(pairs...))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record build: expected 201, got %d body=%s", resp.StatusCode, readBody(t, resp))
	}
	var out protocol.RecordBuildResponse
	decodeJSONBody(t, resp, &out)
	return out.Build
}

// blankPageName rewrites a stored page name behind the store's back, the way
// an older or hand-edited database could hold one.
func blankPageName(t *testing.T, s *stateStore, page, blank string) {
	t.Helper()
	db, err := sql.Open("sqlite", s.cfg.Server.DBPath)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`UPDATE build_outcomes SET page = ? WHERE page = ?`, blank, page); err != nil {
		t.Fatalf("blank page %q: %v", page, err)
	}
}
