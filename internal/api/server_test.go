package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"fixture_parser/internal/parser"
	"fixture_parser/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "fixtures.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	p := parser.New(parser.Options{Year: 2024, TypoCorrection: true, FreightCalculation: true})
	return NewServer(db, p, ":0", nil)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := doRequest(t, s, http.MethodGet, "/api/v1/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %q, want ok", resp["status"])
	}
}

func TestParseAndStore(t *testing.T) {
	s := newTestServer(t)

	body := `{"lines": ["Nord Sirius 12,000 POP Lubmin / Rotterdam 25-30 Jun Usd 29.00 pmt - Cargill"], "store": true}`
	rr := doRequest(t, s, http.MethodPost, "/api/v1/parse", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	var results []ParseResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &results); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Fields["Charterer"] != "Cargill" {
		t.Errorf("charterer = %v, want Cargill", results[0].Fields["Charterer"])
	}

	// The stored fixture shows up in the recent list.
	rr = doRequest(t, s, http.MethodGet, "/api/v1/fixtures", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("fixtures status = %d", rr.Code)
	}
	var fixtures []FixtureResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &fixtures); err != nil {
		t.Fatalf("unmarshal fixtures: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("got %d stored fixtures, want 1", len(fixtures))
	}
}

func TestParseRejectsBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"no lines", `{"lines": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, s, http.MethodPost, "/api/v1/parse", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rr.Code)
			}
		})
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	s := newTestServer(t)
	rr := doRequest(t, s, http.MethodGet, "/api/v1/fixtures/search", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestSearchFindsStoredFixture(t *testing.T) {
	s := newTestServer(t)

	body := `{"lines": ["Nord Sirius 12,000 POP Lubmin / Rotterdam 25-30 Jun Usd 29.00 pmt - Cargill"], "store": true}`
	if rr := doRequest(t, s, http.MethodPost, "/api/v1/parse", body); rr.Code != http.StatusOK {
		t.Fatalf("parse status = %d", rr.Code)
	}

	rr := doRequest(t, s, http.MethodGet, "/api/v1/fixtures/search?q=Rotterdam", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("search status = %d", rr.Code)
	}
	var fixtures []FixtureResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &fixtures); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("got %d matches, want 1", len(fixtures))
	}
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	rr := doRequest(t, s, http.MethodGet, "/api/v1/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var counts storage.Counts
	if err := json.Unmarshal(rr.Body.Bytes(), &counts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if counts.Total != 0 {
		t.Errorf("Total = %d, want 0 on fresh store", counts.Total)
	}
}
