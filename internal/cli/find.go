package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"fixture_parser/internal/storage"
)

var (
	findCharterer string
	findCargo     string
	findVessel    string
	findText      string
	findComplete  bool
	findLimit     int
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Filter fixtures in the ClickHouse archive",
	RunE:  runFind,
}

func init() {
	findCmd.Flags().StringVar(&findCharterer, "charterer", "", "exact charterer name")
	findCmd.Flags().StringVar(&findCargo, "cargo", "", "exact cargo name")
	findCmd.Flags().StringVar(&findVessel, "vessel", "", "vessel name substring")
	findCmd.Flags().StringVar(&findText, "text", "", "raw line substring")
	findCmd.Flags().BoolVar(&findComplete, "complete", false, "only complete records")
	findCmd.Flags().IntVar(&findLimit, "limit", 50, "maximum results")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	ch, err := storage.OpenClickHouse(ctx, clickhouseConfig(cfg))
	if err != nil {
		return err
	}
	defer ch.Close()

	fixtures, err := ch.Query(ctx, storage.CHQueryParams{
		Charterer: findCharterer,
		Cargo:     findCargo,
		Vessel:    findVessel,
		FullText:  findText,
		Complete:  findComplete,
		Limit:     findLimit,
	})
	if err != nil {
		return err
	}

	if len(fixtures) == 0 {
		fmt.Println("No fixtures matched")
		return nil
	}
	for _, fx := range fixtures {
		fmt.Printf("%d  %s  %s\n", fx.ID, fx.ParsedAt.Format("2006-01-02"), fx.RawLine)
	}
	return nil
}
