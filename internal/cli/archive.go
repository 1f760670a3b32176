package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fixture_parser/internal/config"
	"fixture_parser/internal/fixture"
	"fixture_parser/internal/storage"
)

var (
	archiveLimit  int
	archiveSchema bool
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Push local fixtures to the shared archive",
	Long: `Copy recent fixtures from the local SQLite database into the shared
PostgreSQL archive and the ClickHouse analytics store. Re-archiving a
line that is already present refreshes its parse in PostgreSQL.`,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().IntVar(&archiveLimit, "limit", 1000, "maximum fixtures to archive")
	archiveCmd.Flags().BoolVar(&archiveSchema, "create-schema", false, "create archive schemas before pushing")
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	local, err := storage.OpenSQLite(cfg.Storage.SQLite.Path)
	if err != nil {
		return err
	}
	defer local.Close()

	ctx := cmd.Context()
	remote, err := storage.Open(ctx, storage.Config{
		Postgres:   postgresConfig(cfg),
		ClickHouse: clickhouseConfig(cfg),
	})
	if err != nil {
		return err
	}
	defer remote.Close()

	if archiveSchema {
		if err := remote.CreateSchemas(ctx); err != nil {
			return err
		}
	}

	fixtures, err := local.Recent(archiveLimit)
	if err != nil {
		return err
	}
	if len(fixtures) == 0 {
		fmt.Println("Nothing to archive")
		return nil
	}

	if err := pushArchive(ctx, remote, fixtures); err != nil {
		return err
	}

	log.Info("archived fixtures", zap.Int("count", len(fixtures)))
	fmt.Printf("Archived %d fixtures\n", len(fixtures))
	return nil
}

func pushArchive(ctx context.Context, remote *storage.DB, fixtures []storage.Fixture) error {
	lines := make([]string, 0, len(fixtures))
	records := make([]*fixture.Record, 0, len(fixtures))

	for i := range fixtures {
		fx := &fixtures[i]
		if _, err := remote.PG.UpsertFixture(ctx, fx.RawLine, &fx.Record); err != nil {
			return fmt.Errorf("archive line %q: %w", fx.RawLine, err)
		}
		lines = append(lines, fx.RawLine)
		records = append(records, &fx.Record)
	}

	maxID, err := remote.CH.MaxID(ctx)
	if err != nil {
		return fmt.Errorf("clickhouse max id: %w", err)
	}
	if err := remote.CH.InsertBatch(ctx, lines, records, maxID+1); err != nil {
		return err
	}
	return nil
}

func postgresConfig(cfg config.Config) storage.PostgresConfig {
	return storage.PostgresConfig{
		Host:     cfg.Storage.Postgres.Host,
		Port:     cfg.Storage.Postgres.Port,
		Database: cfg.Storage.Postgres.Database,
		User:     cfg.Storage.Postgres.User,
		Password: cfg.Storage.Postgres.Password,
	}
}

func clickhouseConfig(cfg config.Config) storage.ClickHouseConfig {
	return storage.ClickHouseConfig{
		Host:     cfg.Storage.ClickHouse.Host,
		Port:     cfg.Storage.ClickHouse.Port,
		Database: cfg.Storage.ClickHouse.Database,
		User:     cfg.Storage.ClickHouse.User,
		Password: cfg.Storage.ClickHouse.Password,
	}
}
