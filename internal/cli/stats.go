package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixture_parser/internal/storage"
)

var statsArchive bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show fixture store statistics",
	Long: `Show counters for the local database, or aggregate cargo volumes and
per-charterer freight totals from the ClickHouse archive with --archive.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsArchive, "archive", false, "query the ClickHouse archive instead of the local database")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !statsArchive {
		db, err := storage.OpenSQLite(cfg.Storage.SQLite.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		c, err := db.Stats()
		if err != nil {
			return err
		}
		fmt.Printf("Fixtures:           %d\n", c.Total)
		fmt.Printf("Complete:           %d\n", c.Complete)
		fmt.Printf("With laycan dates:  %d\n", c.WithLaycan)
		fmt.Printf("With freight total: %d\n", c.WithFreight)
		return nil
	}

	ctx := cmd.Context()
	ch, err := storage.OpenClickHouse(ctx, clickhouseConfig(cfg))
	if err != nil {
		return err
	}
	defer ch.Close()

	volumes, err := ch.VolumeByCargo(ctx, 20)
	if err != nil {
		return err
	}
	fmt.Println("Cargo volumes:")
	for _, v := range volumes {
		fmt.Printf("  %-28s %6d fixtures  %12.0f MT\n", v.Cargo, v.Fixtures, v.TotalMT)
	}

	totals, err := ch.FreightByCharterer(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Freight by charterer:")
	for name, total := range totals {
		fmt.Printf("  %-28s %14.0f USD\n", name, total)
	}
	return nil
}
