// Package lexicon holds the configurable lexical tables the fixture parser
// matches against: charterer names, cargo-name patterns, month abbreviations,
// and the ordered catalogs of laycan and freight surface patterns.
//
// Ordering is a documented contract throughout: every catalog is searched
// first-match-wins, so more specific patterns must precede generic ones.
package lexicon

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Config is the raw, caller-editable form of the tables. Callers may extend
// it (add a charterer, add a cargo pattern) before building a Lexicon; a
// built Lexicon is immutable and safe to share across line parses.
type Config struct {
	Charterers      []string `yaml:"charterers" mapstructure:"charterers"`
	CargoPatterns   []string `yaml:"cargo_patterns" mapstructure:"cargo_patterns"`
	MonthNames      []string `yaml:"month_names" mapstructure:"month_names"`
	LaycanPatterns  []string `yaml:"laycan_patterns" mapstructure:"laycan_patterns"`
	FreightPatterns []string `yaml:"freight_patterns" mapstructure:"freight_patterns"`
}

// DefaultConfig returns the built-in tables.
func DefaultConfig() Config {
	return Config{
		Charterers: []string{
			"P66", "Neste", "Bunge", "Cargill", "Nova", "Olam", "ENI", "DGD",
			"SK Energy", "ICOF", "Kolmar", "Petroineos", "Wilmar", "GAM", "Aramco",
			"First Resources", "Alpha star", "St, Bernards Resources", "Mewah",
			"EFK", "Sime Darby", "Xiamen ITG", "Glencore", "SA Services", "CNR",
		},
		// Most specific first: multi-word cargo names must win over their
		// substrings (e.g. "Palm oil products" before "Palm oil" before "Palms").
		CargoPatterns: []string{
			`UCO\s*\+\s*Tallow`, `UCO/UCOME/Bio\s+feedstock`, `UCO/Bio\s+feedstocks?`,
			`POME/Palms/UCO`, `Palm/POME/EFBO/SBEO`, `SAF/UCO/FAME`, `Fishoil\s+and\s+UCO`,
			`Palm\s+oil\s+products`, `Palm\s+oil`, `Palmoil`, `Palms`,
			`POP`, `BIOS`, `Fishoil`, `UCO`, `UCOME`, `Tallow`, `Benzene`,
			`MTBE`, `POME`, `FAME`, `EFBO`, `SBEO`, `SAF`, `Bio\s+feedstocks?`,
			`RPKO`, `S\.Acid`, `Chems`, `Biofeedstocks/chems`,
		},
		MonthNames: []string{
			"jan", "feb", "mar", "apr", "may", "jun",
			"jul", "aug", "sep", "oct", "nov", "dec",
		},
		LaycanPatterns: []string{
			`\d{1,2}\s+\w+\s*[–-]\s*\d{1,2}\s+\w+`, // 25 Jun – 5 July
			`\d{1,2}-\d{1,2}\s+\w+`,                // 25-30 Jun, 06-10 June
			`end\s+\w+\s*[–-]\s*ely\s+\w+`,         // end June – ely July
			`[12][Hh]\s+\w+`,                       // 1H July, 2H June
			`[Ee](?:ly|arly)\s+\w+`,                // Ely Jun, Early June
			`[Ee]nd\s+\w+`,                         // end June
			`mid\s+\w+`,                            // mid Jul
			`\w+\s+dates`,                          // June dates
			`1\s+H\s+\w+`,                          // 1 H Jul
		},
		FreightPatterns: []string{
			`USD\s+[\d,\.]+\s*M\s+Lumpsum`,              // USD 2.15M Lumpsum
			`[YU]?[Uu]sd?\s+(?:hi|lo|mid)\s+[\d,\.]+\s*M`, // USd hi 2 M
			`[YU]?[Uu]sd?\s+[\d,\.]+\s*M`,               // Usd 2.85 M
			`[YU]?[Uu]sd?\s+[\d,\.]+\s+pmt`,             // Usd 29.00 pmt, YUsd 55 pmt
			`[YU]?[Uu]sd?\s+[\d,\.]+\s*K\s+PD`,          // Usd 24K PD
			`[YU]?[Uu]sd?\s+(?:low|hi|lo|mid|miod|hih)\s+\d+ies`, // Usd hi 40ies
			`(?:low|hi|lo|mid|miod|hih)\s+\d+ies`,       // hi 40ies (no currency prefix)
			`RNR`,                                       // rate not reported
		},
	}
}

// AddCharterer appends a charterer if not already present.
func (c *Config) AddCharterer(name string) {
	for _, existing := range c.Charterers {
		if existing == name {
			return
		}
	}
	c.Charterers = append(c.Charterers, name)
}

// AddCargoPattern appends a cargo pattern if not already present. The new
// pattern is tried last, so it cannot shadow the existing specific names.
func (c *Config) AddCargoPattern(pattern string) {
	for _, existing := range c.CargoPatterns {
		if existing == pattern {
			return
		}
	}
	c.CargoPatterns = append(c.CargoPatterns, pattern)
}

// Surface is one entry of an ordered surface-pattern catalog.
type Surface struct {
	Source string
	Re     *regexp.Regexp
}

type charterer struct {
	name   string
	wordRe *regexp.Regexp // case-insensitive whole-word match
	prefix string         // charterer-led line prefix, e.g. "P66 /"
}

type cargoPattern struct {
	source string
	re     *regexp.Regexp // anchored at start of remaining text
}

// Lexicon is the compiled, immutable form of Config.
type Lexicon struct {
	charterers []charterer
	cargo      []cargoPattern
	months     map[string]time.Month
	laycan     []Surface
	freight    []Surface
}

// New compiles cfg into a Lexicon. Pattern compilation errors are returned,
// not deferred: a bad table should fail construction, never a line parse.
func New(cfg Config) (*Lexicon, error) {
	lex := &Lexicon{months: make(map[string]time.Month, len(cfg.MonthNames))}

	for _, name := range cfg.Charterers {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("charterer %q: %w", name, err)
		}
		lex.charterers = append(lex.charterers, charterer{
			name:   name,
			wordRe: re,
			prefix: name + " /",
		})
	}

	for _, src := range cfg.CargoPatterns {
		re, err := regexp.Compile(`(?i)^(?:` + src + `)`)
		if err != nil {
			return nil, fmt.Errorf("cargo pattern %q: %w", src, err)
		}
		lex.cargo = append(lex.cargo, cargoPattern{source: src, re: re})
	}

	for i, name := range cfg.MonthNames {
		lex.months[strings.ToLower(name)] = time.Month(i + 1)
	}

	var err error
	if lex.laycan, err = compileSurfaces(cfg.LaycanPatterns); err != nil {
		return nil, fmt.Errorf("laycan pattern: %w", err)
	}
	if lex.freight, err = compileSurfaces(cfg.FreightPatterns); err != nil {
		return nil, fmt.Errorf("freight pattern: %w", err)
	}
	return lex, nil
}

// Default returns the Lexicon built from DefaultConfig. The defaults are
// known-good, so this never fails.
func Default() *Lexicon {
	lex, err := New(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("lexicon: default tables failed to compile: %v", err))
	}
	return lex
}

func compileSurfaces(sources []string) ([]Surface, error) {
	out := make([]Surface, 0, len(sources))
	for _, src := range sources {
		re, err := regexp.Compile(`(?i)` + src)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", src, err)
		}
		out = append(out, Surface{Source: src, Re: re})
	}
	return out, nil
}

// IsChartererLed reports whether the line opens with a known charterer name
// immediately followed by a slash separator.
func (l *Lexicon) IsChartererLed(line string) bool {
	for _, c := range l.charterers {
		if strings.HasPrefix(line, c.prefix) {
			return true
		}
	}
	return false
}

// FindCharterer scans text for the first charterer, in table order, matched
// as a case-insensitive whole word. It returns the canonical table spelling
// and the matched span.
func (l *Lexicon) FindCharterer(text string) (name string, span []int, ok bool) {
	for _, c := range l.charterers {
		if loc := c.wordRe.FindStringIndex(text); loc != nil {
			return c.name, loc, true
		}
	}
	return "", nil, false
}

// MatchCargo attempts the cargo catalog anchored at the start of text and
// returns the matched cargo name and the index just past it.
func (l *Lexicon) MatchCargo(text string) (cargo string, end int, ok bool) {
	for _, c := range l.cargo {
		if loc := c.re.FindStringIndex(text); loc != nil {
			return strings.TrimSpace(text[loc[0]:loc[1]]), loc[1], true
		}
	}
	return "", 0, false
}

// Month resolves a month word by its first three letters.
func (l *Lexicon) Month(word string) (time.Month, bool) {
	w := strings.ToLower(word)
	if len(w) > 3 {
		w = w[:3]
	}
	m, ok := l.months[w]
	return m, ok
}

// FindLaycan searches text for the first laycan surface pattern, in catalog
// order, and returns the matched text and span.
func (l *Lexicon) FindLaycan(text string) (match string, span []int, ok bool) {
	return findSurface(l.laycan, text)
}

// FindFreight searches text for the first freight surface pattern, in
// catalog order, and returns the matched text and span.
func (l *Lexicon) FindFreight(text string) (match string, span []int, ok bool) {
	return findSurface(l.freight, text)
}

func findSurface(catalog []Surface, text string) (string, []int, bool) {
	for _, s := range catalog {
		if loc := s.Re.FindStringIndex(text); loc != nil {
			return strings.TrimSpace(text[loc[0]:loc[1]]), loc, true
		}
	}
	return "", nil, false
}
