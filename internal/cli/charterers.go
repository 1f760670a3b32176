package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixture_parser/internal/storage"
)

var (
	charterersMin    int
	charterersShow   string
	charterersVessel string
	charterersLimit  int
)

var charterersCmd = &cobra.Command{
	Use:   "charterers",
	Short: "List charterers seen in the shared archive",
	Long: `List charterers from the PostgreSQL archive with their fixture counts,
or show the recent fixtures of one charterer with --show.`,
	RunE: runCharterers,
}

func init() {
	charterersCmd.Flags().IntVar(&charterersMin, "min", 1, "minimum fixtures for a charterer to be listed")
	charterersCmd.Flags().StringVar(&charterersShow, "show", "", "show recent fixtures for this charterer")
	charterersCmd.Flags().StringVar(&charterersVessel, "vessel", "", "look up one vessel instead of listing charterers")
	charterersCmd.Flags().IntVar(&charterersLimit, "limit", 20, "maximum fixtures to show per charterer")
	rootCmd.AddCommand(charterersCmd)
}

func runCharterers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pg, err := storage.OpenPostgres(ctx, postgresConfig(cfg))
	if err != nil {
		return err
	}
	defer pg.Close()

	if charterersVessel != "" {
		v, err := pg.GetVessel(ctx, charterersVessel)
		if err != nil {
			return err
		}
		if v == nil {
			fmt.Printf("No archived fixtures for vessel %q\n", charterersVessel)
			return nil
		}
		fmt.Printf("%s: %d fixtures, first seen %s, last seen %s\n",
			v.Name, v.FixtureCount,
			v.FirstSeen.Format("2006-01-02"), v.LastSeen.Format("2006-01-02"))
		return nil
	}

	if charterersShow != "" {
		fixtures, err := pg.FixturesByCharterer(ctx, charterersShow, charterersLimit)
		if err != nil {
			return err
		}
		if len(fixtures) == 0 {
			fmt.Printf("No archived fixtures for %q\n", charterersShow)
			return nil
		}
		for _, fx := range fixtures {
			fmt.Printf("%s  %s\n", fx.ParsedAt.Format("2006-01-02"), fx.RawLine)
		}
		return nil
	}

	charterers, err := pg.ListCharterers(ctx, charterersMin)
	if err != nil {
		return err
	}
	for _, c := range charterers {
		fmt.Printf("%-28s %6d fixtures  last seen %s\n",
			c.Name, c.FixtureCount, c.LastSeen.Format("2006-01-02"))
	}
	return nil
}
