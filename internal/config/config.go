// Package config loads fixture parser settings from file, environment and
// defaults via viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"fixture_parser/internal/lexicon"
)

// EnvPrefix is the prefix for environment variable overrides (FIXTURE_*).
const EnvPrefix = "FIXTURE"

// ParserConfig controls parsing behavior.
type ParserConfig struct {
	// Year anchors laycan phrases that carry no year of their own.
	Year               int  `yaml:"year" mapstructure:"year"`
	TypoCorrection     bool `yaml:"typo_correction" mapstructure:"typo_correction"`
	FreightCalculation bool `yaml:"freight_calculation" mapstructure:"freight_calculation"`
}

// SQLiteConfig holds local database settings.
type SQLiteConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PostgresSettings holds PostgreSQL connection settings.
type PostgresSettings struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Database string `yaml:"database" mapstructure:"database"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
}

// ClickHouseSettings holds ClickHouse connection settings.
type ClickHouseSettings struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Database string `yaml:"database" mapstructure:"database"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
}

// StorageConfig groups the storage backends.
type StorageConfig struct {
	SQLite     SQLiteConfig       `yaml:"sqlite" mapstructure:"sqlite"`
	Postgres   PostgresSettings   `yaml:"postgres" mapstructure:"postgres"`
	ClickHouse ClickHouseSettings `yaml:"clickhouse" mapstructure:"clickhouse"`
}

// NATSConfig holds message ingest settings.
type NATSConfig struct {
	URL     string `yaml:"url" mapstructure:"url"`
	Subject string `yaml:"subject" mapstructure:"subject"`
	Queue   string `yaml:"queue" mapstructure:"queue"`
}

// APIConfig holds HTTP server settings.
type APIConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// OutputConfig controls where parse results are written.
type OutputConfig struct {
	// Path is the output file; empty means stdout.
	Path string `yaml:"path" mapstructure:"path"`
	// Format is "csv" or "jsonl".
	Format string `yaml:"format" mapstructure:"format"`
}

// Config is the full application configuration.
type Config struct {
	Parser  ParserConfig   `yaml:"parser" mapstructure:"parser"`
	Lexicon lexicon.Config `yaml:"lexicon" mapstructure:"lexicon"`
	Storage StorageConfig  `yaml:"storage" mapstructure:"storage"`
	NATS    NATSConfig     `yaml:"nats" mapstructure:"nats"`
	API     APIConfig      `yaml:"api" mapstructure:"api"`
	Output  OutputConfig   `yaml:"output" mapstructure:"output"`
	Verbose bool           `yaml:"verbose" mapstructure:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Parser: ParserConfig{
			Year:               time.Now().Year(),
			TypoCorrection:     true,
			FreightCalculation: true,
		},
		Lexicon: lexicon.DefaultConfig(),
		Storage: StorageConfig{
			SQLite: SQLiteConfig{Path: "fixtures.db"},
			Postgres: PostgresSettings{
				Host:     "localhost",
				Port:     5432,
				Database: "fixtures",
				User:     "fixtures",
				Password: "fixtures",
			},
			ClickHouse: ClickHouseSettings{
				Host:     "localhost",
				Port:     9000,
				Database: "fixtures",
				User:     "default",
			},
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Subject: "fixtures.raw",
			Queue:   "fixture-parsers",
		},
		API: APIConfig{
			Addr: ":8080",
		},
		Output: OutputConfig{
			Format: "csv",
		},
	}
}

// Load reads configuration from FIXTURE_* environment variables, the given
// file (optional), and defaults, in that priority order.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	bindDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// bindDefaults registers every scalar key with viper. AutomaticEnv only
// overrides keys viper already knows, so each one is seeded here from the
// built-in defaults. The lexicon tables are file-only: ordered lists do not
// map onto single environment values.
func bindDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("parser.year", cfg.Parser.Year)
	v.SetDefault("parser.typo_correction", cfg.Parser.TypoCorrection)
	v.SetDefault("parser.freight_calculation", cfg.Parser.FreightCalculation)
	v.SetDefault("storage.sqlite.path", cfg.Storage.SQLite.Path)
	v.SetDefault("storage.postgres.host", cfg.Storage.Postgres.Host)
	v.SetDefault("storage.postgres.port", cfg.Storage.Postgres.Port)
	v.SetDefault("storage.postgres.database", cfg.Storage.Postgres.Database)
	v.SetDefault("storage.postgres.user", cfg.Storage.Postgres.User)
	v.SetDefault("storage.postgres.password", cfg.Storage.Postgres.Password)
	v.SetDefault("storage.clickhouse.host", cfg.Storage.ClickHouse.Host)
	v.SetDefault("storage.clickhouse.port", cfg.Storage.ClickHouse.Port)
	v.SetDefault("storage.clickhouse.database", cfg.Storage.ClickHouse.Database)
	v.SetDefault("storage.clickhouse.user", cfg.Storage.ClickHouse.User)
	v.SetDefault("storage.clickhouse.password", cfg.Storage.ClickHouse.Password)
	v.SetDefault("nats.url", cfg.NATS.URL)
	v.SetDefault("nats.subject", cfg.NATS.Subject)
	v.SetDefault("nats.queue", cfg.NATS.Queue)
	v.SetDefault("api.addr", cfg.API.Addr)
	v.SetDefault("output.path", cfg.Output.Path)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("verbose", cfg.Verbose)
}

// Validate checks the configuration for values that would break parsing or
// output downstream.
func (c Config) Validate() error {
	if c.Parser.Year < 2000 || c.Parser.Year > 2100 {
		return fmt.Errorf("parser year %d out of range (2000-2100)", c.Parser.Year)
	}
	switch c.Output.Format {
	case "csv", "jsonl":
	default:
		return fmt.Errorf("output format %q not supported (csv, jsonl)", c.Output.Format)
	}
	if c.API.Addr == "" {
		return fmt.Errorf("api addr must not be empty")
	}
	if c.NATS.Subject == "" {
		return fmt.Errorf("nats subject must not be empty")
	}
	return nil
}
