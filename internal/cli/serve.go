package cli

import (
	"github.com/spf13/cobra"

	"fixture_parser/internal/api"
	"fixture_parser/internal/storage"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the fixture REST API",
	Long: `Serve stored fixtures over HTTP: recent records, full-text search,
store-wide counters, and on-demand parsing of submitted lines.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	addr := cfg.API.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	return api.NewServer(db, p, addr, log).Run()
}
