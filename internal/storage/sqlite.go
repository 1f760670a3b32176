// Package storage provides persistent storage for parsed shipping fixtures.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"fixture_parser/internal/fixture"
)

// Fixture is a stored record together with its provenance.
type Fixture struct {
	ID       int64
	ParsedAt time.Time
	RawLine  string
	Record   fixture.Record
}

// SQLite wraps the local fixture database. It is the default store for CLI
// runs and backs the review API.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates a fixture database at the given path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func createSQLiteSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS fixtures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		parsed_at TEXT NOT NULL,
		vessel_name TEXT NOT NULL,
		cargo TEXT NOT NULL,
		quantity_mt REAL,
		load_port TEXT NOT NULL,
		discharge_port TEXT NOT NULL,
		laycan TEXT NOT NULL,
		laycan_start TEXT,
		laycan_end TEXT,
		freight TEXT NOT NULL,
		total_freight_usd REAL,
		charterer TEXT NOT NULL,
		raw_line TEXT NOT NULL,
		is_complete INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_fixtures_charterer ON fixtures(charterer);
	CREATE INDEX IF NOT EXISTS idx_fixtures_cargo ON fixtures(cargo);
	CREATE INDEX IF NOT EXISTS idx_fixtures_vessel ON fixtures(vessel_name);
	CREATE INDEX IF NOT EXISTS idx_fixtures_parsed_at ON fixtures(parsed_at);

	-- FTS5 virtual table for full-text search on the raw fixture line.
	CREATE VIRTUAL TABLE IF NOT EXISTS fixtures_fts USING fts5(
		raw_line,
		content='fixtures',
		content_rowid='id'
	);

	CREATE TRIGGER IF NOT EXISTS fixtures_ai AFTER INSERT ON fixtures BEGIN
		INSERT INTO fixtures_fts(rowid, raw_line) VALUES (new.id, new.raw_line);
	END;

	CREATE TRIGGER IF NOT EXISTS fixtures_ad AFTER DELETE ON fixtures BEGIN
		INSERT INTO fixtures_fts(fixtures_fts, rowid, raw_line) VALUES('delete', old.id, old.raw_line);
	END;

	CREATE TRIGGER IF NOT EXISTS fixtures_au AFTER UPDATE ON fixtures BEGIN
		INSERT INTO fixtures_fts(fixtures_fts, rowid, raw_line) VALUES('delete', old.id, old.raw_line);
		INSERT INTO fixtures_fts(rowid, raw_line) VALUES (new.id, new.raw_line);
	END;
	`
	_, err := db.Exec(schema)
	return err
}

// Insert stores one parsed fixture and returns its row ID.
func (s *SQLite) Insert(rawLine string, rec *fixture.Record) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO fixtures (
			parsed_at, vessel_name, cargo, quantity_mt,
			load_port, discharge_port, laycan, laycan_start, laycan_end,
			freight, total_freight_usd, charterer, raw_line, is_complete
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		rec.VesselName, rec.Cargo, nullFloat(rec.QuantityMT, rec.QuantityKnown),
		rec.LoadPort, rec.DischargePort, rec.Laycan,
		nullString(rec.LaycanStart), nullString(rec.LaycanEnd),
		rec.Freight, nullFloat(rec.TotalFreightUSD, rec.TotalFreightKnown),
		rec.Charterer, rawLine, boolInt(rec.IsComplete()),
	)
	if err != nil {
		return 0, fmt.Errorf("insert fixture: %w", err)
	}
	return res.LastInsertId()
}

// InsertAll stores a batch of fixtures in one transaction. rawLines and
// records must be the same length.
func (s *SQLite) InsertAll(rawLines []string, records []*fixture.Record) error {
	if len(rawLines) != len(records) {
		return fmt.Errorf("insert all: %d lines for %d records", len(rawLines), len(records))
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO fixtures (
			parsed_at, vessel_name, cargo, quantity_mt,
			load_port, discharge_port, laycan, laycan_start, laycan_end,
			freight, total_freight_usd, charterer, raw_line, is_complete
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for i, rec := range records {
		if _, err := stmt.Exec(
			now,
			rec.VesselName, rec.Cargo, nullFloat(rec.QuantityMT, rec.QuantityKnown),
			rec.LoadPort, rec.DischargePort, rec.Laycan,
			nullString(rec.LaycanStart), nullString(rec.LaycanEnd),
			rec.Freight, nullFloat(rec.TotalFreightUSD, rec.TotalFreightKnown),
			rec.Charterer, rawLines[i], boolInt(rec.IsComplete()),
		); err != nil {
			return fmt.Errorf("insert line %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}

// Recent returns the newest fixtures, most recent first.
func (s *SQLite) Recent(limit int) ([]Fixture, error) {
	rows, err := s.db.Query(selectColumns+` FROM fixtures f ORDER BY f.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()
	return scanFixtures(rows)
}

// Search runs a full-text query against the raw fixture lines.
func (s *SQLite) Search(query string, limit int) ([]Fixture, error) {
	rows, err := s.db.Query(selectColumns+`
		FROM fixtures f
		JOIN fixtures_fts ON fixtures_fts.rowid = f.id
		WHERE fixtures_fts MATCH ?
		ORDER BY rank LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()
	return scanFixtures(rows)
}

// Counts summarizes the stored fixtures.
type Counts struct {
	Total       int `json:"total"`
	Complete    int `json:"complete"`
	WithLaycan  int `json:"with_laycan_dates"`
	WithFreight int `json:"with_total_freight"`
}

// Stats returns store-wide counters.
func (s *SQLite) Stats() (Counts, error) {
	var c Counts
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(is_complete), 0),
		       COALESCE(SUM(laycan_start IS NOT NULL), 0),
		       COALESCE(SUM(total_freight_usd IS NOT NULL), 0)
		FROM fixtures`).Scan(&c.Total, &c.Complete, &c.WithLaycan, &c.WithFreight)
	if err != nil {
		return Counts{}, fmt.Errorf("stats: %w", err)
	}
	return c, nil
}

const selectColumns = `
	SELECT f.id, f.parsed_at, f.vessel_name, f.cargo, f.quantity_mt,
	       f.load_port, f.discharge_port, f.laycan, f.laycan_start, f.laycan_end,
	       f.freight, f.total_freight_usd, f.charterer, f.raw_line`

func scanFixtures(rows *sql.Rows) ([]Fixture, error) {
	var out []Fixture
	for rows.Next() {
		var (
			fx       Fixture
			parsedAt string
			qty      sql.NullFloat64
			total    sql.NullFloat64
			layStart sql.NullString
			layEnd   sql.NullString
		)
		if err := rows.Scan(
			&fx.ID, &parsedAt, &fx.Record.VesselName, &fx.Record.Cargo, &qty,
			&fx.Record.LoadPort, &fx.Record.DischargePort, &fx.Record.Laycan,
			&layStart, &layEnd, &fx.Record.Freight, &total,
			&fx.Record.Charterer, &fx.RawLine,
		); err != nil {
			return nil, fmt.Errorf("scan fixture: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, parsedAt); err == nil {
			fx.ParsedAt = t
		}
		if qty.Valid {
			fx.Record.QuantityMT = qty.Float64
			fx.Record.QuantityKnown = true
		}
		if total.Valid {
			fx.Record.TotalFreightUSD = total.Float64
			fx.Record.TotalFreightKnown = true
		}
		fx.Record.LaycanStart = layStart.String
		fx.Record.LaycanEnd = layEnd.String
		out = append(out, fx)
	}
	return out, rows.Err()
}

func nullFloat(v float64, known bool) any {
	if !known {
		return nil
	}
	return v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
