package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"fixture_parser/internal/fixture"
)

// ClickHouseConfig holds ClickHouse connection settings.
type ClickHouseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ClickHouseDB wraps a ClickHouse connection for fixture analytics.
type ClickHouseDB struct {
	conn driver.Conn
}

// Conn returns the underlying ClickHouse connection for direct queries.
func (d *ClickHouseDB) Conn() driver.Conn {
	return d.conn
}

// OpenClickHouse opens a connection to ClickHouse.
func OpenClickHouse(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:     10 * time.Second,
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}

	// Test the connection.
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &ClickHouseDB{conn: conn}, nil
}

// Close closes the ClickHouse connection.
func (d *ClickHouseDB) Close() error {
	return d.conn.Close()
}

// CreateSchema creates the ClickHouse tables.
func (d *ClickHouseDB) CreateSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS fixtures (
			id                  UInt64,
			parsed_at           DateTime64(3),
			vessel_name         LowCardinality(String),
			cargo               LowCardinality(String),
			quantity_mt         Nullable(Float64),
			load_port           LowCardinality(String),
			discharge_port      LowCardinality(String),
			laycan              String,
			laycan_start        Nullable(Date),
			laycan_end          Nullable(Date),
			freight             String,
			total_freight_usd   Nullable(Float64),
			charterer           LowCardinality(String),
			raw_line            String,
			is_complete         UInt8,
			created_at          DateTime64(3) DEFAULT now64(3)
		)
		ENGINE = MergeTree()
		PARTITION BY toYYYYMM(parsed_at)
		ORDER BY (charterer, cargo, parsed_at, id)
		SETTINGS index_granularity = 8192`,
	}

	for _, q := range queries {
		if err := d.conn.Exec(ctx, q); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	// Add bloom filter index for full-text search (ignore error if already exists).
	_ = d.conn.Exec(ctx, `ALTER TABLE fixtures ADD INDEX IF NOT EXISTS idx_raw_line_bloom raw_line TYPE tokenbf_v1(32768, 3, 0) GRANULARITY 1`)

	return nil
}

// CHFixture is a fixture row as stored in ClickHouse.
type CHFixture struct {
	ID        uint64
	ParsedAt  time.Time
	RawLine   string
	Record    fixture.Record
	CreatedAt time.Time
}

// InsertBatch stores multiple fixtures in ClickHouse efficiently.
func (d *ClickHouseDB) InsertBatch(ctx context.Context, rawLines []string, records []*fixture.Record, startID uint64) error {
	if len(records) == 0 {
		return nil
	}
	if len(rawLines) != len(records) {
		return fmt.Errorf("insert batch: %d lines for %d records", len(rawLines), len(records))
	}

	batch, err := d.conn.PrepareBatch(ctx, `
		INSERT INTO fixtures (id, parsed_at, vessel_name, cargo, quantity_mt, load_port, discharge_port, laycan, laycan_start, laycan_end, freight, total_freight_usd, charterer, raw_line, is_complete)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	now := time.Now().UTC()
	for i, rec := range records {
		err = batch.Append(
			startID+uint64(i), now,
			rec.VesselName, rec.Cargo, chFloat(rec.QuantityMT, rec.QuantityKnown),
			rec.LoadPort, rec.DischargePort, rec.Laycan,
			chDate(rec.LaycanStart), chDate(rec.LaycanEnd),
			rec.Freight, chFloat(rec.TotalFreightUSD, rec.TotalFreightKnown),
			rec.Charterer, rawLines[i], boolUint8(rec.IsComplete()),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CHQueryParams contains filtering options for querying fixtures.
type CHQueryParams struct {
	ID        uint64
	Charterer string
	Cargo     string
	Vessel    string
	Complete  bool
	FullText  string // LIKE match on raw_line.
	Limit     int
	Offset    int
}

// Query retrieves fixtures matching the given parameters, newest first.
func (d *ClickHouseDB) Query(ctx context.Context, p CHQueryParams) ([]CHFixture, error) {
	var conditions []string
	var args []interface{}

	if p.ID != 0 {
		conditions = append(conditions, "id = ?")
		args = append(args, p.ID)
	}
	if p.Charterer != "" {
		conditions = append(conditions, "charterer = ?")
		args = append(args, p.Charterer)
	}
	if p.Cargo != "" {
		conditions = append(conditions, "cargo = ?")
		args = append(args, p.Cargo)
	}
	if p.Vessel != "" {
		conditions = append(conditions, "vessel_name LIKE ?")
		args = append(args, "%"+p.Vessel+"%")
	}
	if p.Complete {
		conditions = append(conditions, "is_complete = 1")
	}
	if p.FullText != "" {
		conditions = append(conditions, "raw_line LIKE ?")
		args = append(args, "%"+p.FullText+"%")
	}

	query := `SELECT id, parsed_at, vessel_name, cargo, quantity_mt, load_port, discharge_port, laycan, laycan_start, laycan_end, freight, total_freight_usd, charterer, raw_line, created_at FROM fixtures`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id DESC"

	limit := 100
	if p.Limit > 0 {
		limit = p.Limit
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, p.Offset)

	rows, err := d.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []CHFixture
	for rows.Next() {
		var (
			f        CHFixture
			qty      *float64
			total    *float64
			layStart *time.Time
			layEnd   *time.Time
		)
		err := rows.Scan(&f.ID, &f.ParsedAt, &f.Record.VesselName, &f.Record.Cargo, &qty,
			&f.Record.LoadPort, &f.Record.DischargePort, &f.Record.Laycan,
			&layStart, &layEnd, &f.Record.Freight, &total,
			&f.Record.Charterer, &f.RawLine, &f.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if qty != nil {
			f.Record.QuantityMT = *qty
			f.Record.QuantityKnown = true
		}
		if total != nil {
			f.Record.TotalFreightUSD = *total
			f.Record.TotalFreightKnown = true
		}
		if layStart != nil {
			f.Record.LaycanStart = layStart.Format("2006-01-02")
		}
		if layEnd != nil {
			f.Record.LaycanEnd = layEnd.Format("2006-01-02")
		}
		fixtures = append(fixtures, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return fixtures, nil
}

// CargoVolume is total reported tonnage for one cargo type.
type CargoVolume struct {
	Cargo    string
	Fixtures uint64
	TotalMT  float64
}

// VolumeByCargo aggregates reported quantities per cargo, largest first.
func (d *ClickHouseDB) VolumeByCargo(ctx context.Context, limit int) ([]CargoVolume, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(ctx, `
		SELECT cargo, count(), sum(coalesce(quantity_mt, 0))
		FROM fixtures
		WHERE cargo != 'N/A'
		GROUP BY cargo
		ORDER BY sum(coalesce(quantity_mt, 0)) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volumes []CargoVolume
	for rows.Next() {
		var v CargoVolume
		if err := rows.Scan(&v.Cargo, &v.Fixtures, &v.TotalMT); err != nil {
			return nil, fmt.Errorf("scan cargo volume: %w", err)
		}
		volumes = append(volumes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cargo volumes: %w", err)
	}
	return volumes, nil
}

// FreightByCharterer aggregates computed freight totals per charterer.
func (d *ClickHouseDB) FreightByCharterer(ctx context.Context) (map[string]float64, error) {
	totals := make(map[string]float64)
	rows, err := d.conn.Query(ctx, `
		SELECT charterer, sum(total_freight_usd)
		FROM fixtures
		WHERE charterer != 'N/A' AND total_freight_usd IS NOT NULL
		GROUP BY charterer`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var charterer string
		var total float64
		if err := rows.Scan(&charterer, &total); err != nil {
			return nil, fmt.Errorf("scan freight total: %w", err)
		}
		totals[charterer] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate freight totals: %w", err)
	}
	return totals, nil
}

// MaxID returns the maximum fixture ID in the table.
func (d *ClickHouseDB) MaxID(ctx context.Context) (uint64, error) {
	var maxID uint64
	row := d.conn.QueryRow(ctx, "SELECT max(id) FROM fixtures")
	if err := row.Scan(&maxID); err != nil {
		return 0, err
	}
	return maxID, nil
}

func chFloat(v float64, known bool) *float64 {
	if !known {
		return nil
	}
	return &v
}

func chDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

func boolUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
