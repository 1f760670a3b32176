// Package api provides REST API endpoints for parsed fixture data.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"fixture_parser/internal/fixture"
	"fixture_parser/internal/parser"
	"fixture_parser/internal/storage"
)

// Server provides REST API access to stored fixtures and on-demand parsing.
type Server struct {
	db     *storage.SQLite
	parser *parser.Parser
	addr   string
	log    *zap.Logger
}

// NewServer creates a fixture API server.
func NewServer(db *storage.SQLite, p *parser.Parser, addr string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{db: db, parser: p, addr: addr, log: log}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	s.log.Info("api starting", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.Router())
}

// Router returns the configured chi router.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Standard middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/fixtures", s.handleRecent)
		r.Get("/fixtures/search", s.handleSearch)
		r.Get("/stats", s.handleStats)
		r.Post("/parse", s.handleParse)
	})

	return r
}

// FixtureResponse is the JSON shape of one stored fixture.
type FixtureResponse struct {
	ID       int64          `json:"id"`
	ParsedAt string         `json:"parsed_at"`
	RawLine  string         `json:"raw_line"`
	Fields   map[string]any `json:"fields"`
}

func fixtureToResponse(f storage.Fixture) FixtureResponse {
	return FixtureResponse{
		ID:       f.ID,
		ParsedAt: f.ParsedAt.Format(time.RFC3339),
		RawLine:  f.RawLine,
		Fields:   f.Record.Fields(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 50)
	fixtures, err := s.db.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]FixtureResponse, 0, len(fixtures))
	for _, f := range fixtures {
		results = append(results, fixtureToResponse(f))
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	fixtures, err := s.db.Search(query, queryLimit(r, 50))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	results := make([]FixtureResponse, 0, len(fixtures))
	for _, f := range fixtures {
		results = append(results, fixtureToResponse(f))
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.db.Stats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// ParseRequest is the request body for on-demand parsing.
type ParseRequest struct {
	Lines []string `json:"lines"`
	// Store persists the parsed records when true.
	Store bool `json:"store,omitempty"`
}

// ParseResponse pairs each input line with its parsed fields.
type ParseResponse struct {
	Line   string         `json:"line"`
	Format string         `json:"format"`
	Fields map[string]any `json:"fields"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "No lines specified")
		return
	}
	if len(req.Lines) > 1000 {
		writeError(w, http.StatusBadRequest, "Maximum 1000 lines per request")
		return
	}

	var results []ParseResponse
	var stored []*fixture.Record
	var storedLines []string
	for _, line := range req.Lines {
		rec := s.parser.ParseLine(line)
		results = append(results, ParseResponse{
			Line:   line,
			Format: s.parser.Classify(line).String(),
			Fields: rec.Fields(),
		})
		if req.Store {
			stored = append(stored, rec)
			storedLines = append(storedLines, line)
		}
	}

	if req.Store {
		if err := s.db.InsertAll(storedLines, stored); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, results)
}

// Helper functions.

func queryLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 1000 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
