// Package cli implements the fixture_parser command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fixture_parser/internal/config"
	"fixture_parser/internal/lexicon"
	"fixture_parser/internal/parser"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fixture_parser",
	Short: "Parse free-form shipping fixture lines into structured records",
	Long: `fixture_parser converts single-line charter fixture descriptions,
as circulated on broker mailing lists, into normalized records:
vessel, cargo, quantity, ports, laycan window, freight and charterer.

Lines arrive in two shapes: the common free-form order and the
charterer-led slash-separated form. Fields that cannot be recovered
are reported as N/A rather than guessed.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fixture_parser v0.3.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves the effective configuration from FIXTURE_* environment
// variables, the config file and defaults.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// newLogger builds the process logger. Verbose runs get development output
// with debug level.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Verbose {
		return zap.NewDevelopment()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zc.Build()
}

func newLexicon(cfg config.Config) (*lexicon.Lexicon, error) {
	lex, err := lexicon.New(cfg.Lexicon)
	if err != nil {
		return nil, fmt.Errorf("compile lexicon: %w", err)
	}
	return lex, nil
}

// newParser builds a parser from the effective configuration.
func newParser(cfg config.Config, log *zap.Logger) (*parser.Parser, error) {
	lex, err := newLexicon(cfg)
	if err != nil {
		return nil, err
	}
	return parser.New(parser.Options{
		Lexicon:            lex,
		Year:               cfg.Parser.Year,
		TypoCorrection:     cfg.Parser.TypoCorrection,
		FreightCalculation: cfg.Parser.FreightCalculation,
		Logger:             log,
	}), nil
}
