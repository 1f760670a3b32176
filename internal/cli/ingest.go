package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fixture_parser/internal/ingest"
	"fixture_parser/internal/storage"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Consume raw fixture lines from NATS and store parsed records",
	Long: `Subscribe to the configured NATS subject and parse every received
line into the local database. Runs until interrupted; the subscription
is drained on shutdown.`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p, err := newParser(cfg, log)
	if err != nil {
		return err
	}

	db, err := storage.OpenSQLite(cfg.Storage.SQLite.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return ingest.New(cfg.NATS, p, db, log).Run(ctx)
}
