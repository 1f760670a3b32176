package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fixture_parser/internal/batch"
	"fixture_parser/internal/fixture"
	"fixture_parser/internal/report"
	"fixture_parser/internal/storage"
	"fixture_parser/internal/writer"
)

var (
	parseInput   string
	parseOutput  string
	parseFormat  string
	parseStore   string
	parseSummary bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [line...]",
	Short: "Parse fixture lines from arguments, a file or stdin",
	Long: `Parse fixture lines and write the records as CSV or JSON Lines.

Lines are taken from positional arguments if given, otherwise from the
--input file, otherwise from stdin. One record is emitted per non-blank
line; fields that cannot be recovered are reported as N/A.`,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseInput, "input", "i", "", "input file (default: stdin)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "output file (default: stdout)")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: csv or jsonl (default from config)")
	parseCmd.Flags().StringVar(&parseStore, "store", "", "also insert records into this SQLite database")
	parseCmd.Flags().BoolVar(&parseSummary, "summary", false, "print batch summary to stderr")

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
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

	text, err := readInput(args)
	if err != nil {
		return err
	}

	driver := batch.New(p, log)
	lines, records, stats := driver.ParseAll(text)

	format := cfg.Output.Format
	if parseFormat != "" {
		format = parseFormat
	}
	outPath := cfg.Output.Path
	if parseOutput != "" {
		outPath = parseOutput
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := writer.New(format, out)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if parseStore != "" {
		if err := storeRecords(parseStore, lines, records); err != nil {
			return err
		}
	}

	if parseSummary {
		fmt.Fprint(os.Stderr, report.Build(records, stats).String())
	}
	return nil
}

// readInput gathers the raw text to parse: args first, then --input, then
// stdin.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}
	if parseInput != "" {
		b, err := os.ReadFile(parseInput)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}

func storeRecords(path string, lines []string, records []*fixture.Record) error {
	db, err := storage.OpenSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.InsertAll(lines, records)
}
