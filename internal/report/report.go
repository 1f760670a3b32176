// Package report summarizes a batch of parsed fixture records.
package report

import (
	"fmt"
	"sort"
	"strings"

	"fixture_parser/internal/batch"
	"fixture_parser/internal/fixture"
)

// Summary aggregates parse results for one batch run.
type Summary struct {
	Lines    int `json:"lines"`
	Parsed   int `json:"parsed"`
	Failed   int `json:"failed"`
	Complete int `json:"complete"`

	WithLaycanDates int `json:"with_laycan_dates"`
	WithFreightUSD  int `json:"with_total_freight"`

	TotalQuantityMT   float64        `json:"total_quantity_mt"`
	TotalFreightUSD   float64        `json:"total_freight_usd"`
	FixturesByCharter map[string]int `json:"fixtures_by_charterer"`
}

// Build computes a summary from records and their batch counters.
func Build(records []*fixture.Record, stats batch.Stats) Summary {
	s := Summary{
		Lines:             stats.Lines,
		Parsed:            stats.Parsed,
		Failed:            stats.Failed,
		FixturesByCharter: make(map[string]int),
	}
	for _, rec := range records {
		if rec.IsComplete() {
			s.Complete++
		}
		if rec.HasLaycanDates() {
			s.WithLaycanDates++
		}
		if rec.TotalFreightKnown {
			s.WithFreightUSD++
			s.TotalFreightUSD += rec.TotalFreightUSD
		}
		if rec.QuantityKnown {
			s.TotalQuantityMT += rec.QuantityMT
		}
		if rec.Charterer != fixture.Unknown {
			s.FixturesByCharter[rec.Charterer]++
		}
	}
	return s
}

// String renders the summary as a human-readable block.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lines:              %d\n", s.Lines)
	fmt.Fprintf(&b, "Parsed:             %d\n", s.Parsed)
	fmt.Fprintf(&b, "Failed:             %d\n", s.Failed)
	fmt.Fprintf(&b, "Complete records:   %d\n", s.Complete)
	fmt.Fprintf(&b, "With laycan dates:  %d\n", s.WithLaycanDates)
	fmt.Fprintf(&b, "With freight total: %d\n", s.WithFreightUSD)
	fmt.Fprintf(&b, "Total quantity MT:  %.0f\n", s.TotalQuantityMT)
	fmt.Fprintf(&b, "Total freight USD:  %.0f\n", s.TotalFreightUSD)

	if len(s.FixturesByCharter) > 0 {
		names := make([]string, 0, len(s.FixturesByCharter))
		for name := range s.FixturesByCharter {
			names = append(names, name)
		}
		sort.Strings(names)
		b.WriteString("Fixtures by charterer:\n")
		for _, name := range names {
			fmt.Fprintf(&b, "  %-24s %d\n", name, s.FixturesByCharter[name])
		}
	}
	return b.String()
}
