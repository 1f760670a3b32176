package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fixture_parser/internal/fixture"
)

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// PostgresDB wraps a PostgreSQL connection pool for the shared fixture
// archive and reference data.
type PostgresDB struct {
	pool *pgxpool.Pool
}

// OpenPostgres opens a connection pool to PostgreSQL.
func OpenPostgres(ctx context.Context, cfg PostgresConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Test the connection.
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Close closes the PostgreSQL connection pool.
func (d *PostgresDB) Close() {
	d.pool.Close()
}

// CreateSchema creates the PostgreSQL tables.
func (d *PostgresDB) CreateSchema(ctx context.Context) error {
	schema := `
	-- Reference data: Vessels
	CREATE TABLE IF NOT EXISTS vessels (
		name            TEXT PRIMARY KEY,
		first_seen      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		fixture_count   INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_vessels_last_seen ON vessels(last_seen);

	-- Reference data: Charterers
	CREATE TABLE IF NOT EXISTS charterers (
		name            TEXT PRIMARY KEY,
		first_seen      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_seen       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		fixture_count   INTEGER NOT NULL DEFAULT 1
	);

	-- Archive: Parsed fixtures
	CREATE TABLE IF NOT EXISTS fixtures (
		id                  BIGSERIAL PRIMARY KEY,
		parsed_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		vessel_name         TEXT NOT NULL,
		cargo               TEXT NOT NULL,
		quantity_mt         DOUBLE PRECISION,
		load_port           TEXT NOT NULL,
		discharge_port      TEXT NOT NULL,
		laycan              TEXT NOT NULL,
		laycan_start        DATE,
		laycan_end          DATE,
		freight             TEXT NOT NULL,
		total_freight_usd   DOUBLE PRECISION,
		charterer           TEXT NOT NULL,
		raw_line            TEXT NOT NULL,
		is_complete         BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE(raw_line)
	);

	CREATE INDEX IF NOT EXISTS idx_fixtures_vessel ON fixtures(vessel_name);
	CREATE INDEX IF NOT EXISTS idx_fixtures_charterer ON fixtures(charterer);
	CREATE INDEX IF NOT EXISTS idx_fixtures_laycan_start ON fixtures(laycan_start);
	`

	_, err := d.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	// Create partial index separately (IF NOT EXISTS syntax differs).
	_, _ = d.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_fixtures_complete ON fixtures(is_complete) WHERE is_complete = TRUE`)

	return nil
}

// UpsertFixture inserts a fixture keyed by its raw line, or refreshes the
// parse of an already-archived line. Returns the fixture ID.
func (d *PostgresDB) UpsertFixture(ctx context.Context, rawLine string, rec *fixture.Record) (int64, error) {
	var id int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO fixtures (vessel_name, cargo, quantity_mt, load_port, discharge_port,
			laycan, laycan_start, laycan_end, freight, total_freight_usd, charterer, raw_line, is_complete)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (raw_line) DO UPDATE SET
			vessel_name = EXCLUDED.vessel_name,
			cargo = EXCLUDED.cargo,
			quantity_mt = EXCLUDED.quantity_mt,
			load_port = EXCLUDED.load_port,
			discharge_port = EXCLUDED.discharge_port,
			laycan = EXCLUDED.laycan,
			laycan_start = EXCLUDED.laycan_start,
			laycan_end = EXCLUDED.laycan_end,
			freight = EXCLUDED.freight,
			total_freight_usd = EXCLUDED.total_freight_usd,
			charterer = EXCLUDED.charterer,
			is_complete = EXCLUDED.is_complete,
			parsed_at = NOW()
		RETURNING id
	`, rec.VesselName, rec.Cargo, nullFloat(rec.QuantityMT, rec.QuantityKnown),
		rec.LoadPort, rec.DischargePort, rec.Laycan,
		nullString(rec.LaycanStart), nullString(rec.LaycanEnd),
		rec.Freight, nullFloat(rec.TotalFreightUSD, rec.TotalFreightKnown),
		rec.Charterer, rawLine, rec.IsComplete()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert fixture: %w", err)
	}

	if rec.VesselName != fixture.Unknown {
		if err := d.upsertVessel(ctx, rec.VesselName); err != nil {
			return id, err
		}
	}
	if rec.Charterer != fixture.Unknown {
		if err := d.upsertCharterer(ctx, rec.Charterer); err != nil {
			return id, err
		}
	}
	return id, nil
}

func (d *PostgresDB) upsertVessel(ctx context.Context, name string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO vessels (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET
			last_seen = NOW(),
			fixture_count = vessels.fixture_count + 1
	`, name)
	return err
}

func (d *PostgresDB) upsertCharterer(ctx context.Context, name string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO charterers (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET
			last_seen = NOW(),
			fixture_count = charterers.fixture_count + 1
	`, name)
	return err
}

// Vessel represents a vessel reference record.
type Vessel struct {
	Name         string
	FirstSeen    time.Time
	LastSeen     time.Time
	FixtureCount int
}

// GetVessel retrieves a vessel by name.
func (d *PostgresDB) GetVessel(ctx context.Context, name string) (*Vessel, error) {
	var v Vessel
	err := d.pool.QueryRow(ctx, `
		SELECT name, first_seen, last_seen, fixture_count
		FROM vessels WHERE name = $1
	`, name).Scan(&v.Name, &v.FirstSeen, &v.LastSeen, &v.FixtureCount)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Charterer represents a charterer reference record.
type Charterer struct {
	Name         string
	FirstSeen    time.Time
	LastSeen     time.Time
	FixtureCount int
}

// ListCharterers retrieves all charterers with at least minFixtures fixtures.
func (d *PostgresDB) ListCharterers(ctx context.Context, minFixtures int) ([]Charterer, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT name, first_seen, last_seen, fixture_count
		FROM charterers
		WHERE fixture_count >= $1
		ORDER BY name
	`, minFixtures)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charterers []Charterer
	for rows.Next() {
		var c Charterer
		if err := rows.Scan(&c.Name, &c.FirstSeen, &c.LastSeen, &c.FixtureCount); err != nil {
			return nil, err
		}
		charterers = append(charterers, c)
	}
	return charterers, rows.Err()
}

// FixturesByCharterer retrieves archived fixtures for a charterer, newest first.
func (d *PostgresDB) FixturesByCharterer(ctx context.Context, charterer string, limit int) ([]Fixture, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, parsed_at, vessel_name, cargo, quantity_mt, load_port, discharge_port,
			laycan, laycan_start, laycan_end, freight, total_freight_usd, charterer, raw_line
		FROM fixtures
		WHERE charterer = $1
		ORDER BY id DESC
		LIMIT $2
	`, charterer, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixtures []Fixture
	for rows.Next() {
		var (
			fx       Fixture
			qty      *float64
			total    *float64
			layStart *time.Time
			layEnd   *time.Time
		)
		if err := rows.Scan(&fx.ID, &fx.ParsedAt, &fx.Record.VesselName, &fx.Record.Cargo, &qty,
			&fx.Record.LoadPort, &fx.Record.DischargePort, &fx.Record.Laycan,
			&layStart, &layEnd, &fx.Record.Freight, &total,
			&fx.Record.Charterer, &fx.RawLine); err != nil {
			return nil, err
		}
		if qty != nil {
			fx.Record.QuantityMT = *qty
			fx.Record.QuantityKnown = true
		}
		if total != nil {
			fx.Record.TotalFreightUSD = *total
			fx.Record.TotalFreightKnown = true
		}
		if layStart != nil {
			fx.Record.LaycanStart = layStart.Format("2006-01-02")
		}
		if layEnd != nil {
			fx.Record.LaycanEnd = layEnd.Format("2006-01-02")
		}
		fixtures = append(fixtures, fx)
	}
	return fixtures, rows.Err()
}

// Pool returns the underlying connection pool for advanced operations.
func (d *PostgresDB) Pool() *pgxpool.Pool {
	return d.pool
}
