// Package batch drives the per-line parser over a block of fixture text and
// aggregates the results, isolating any per-line failure so one bad line
// never aborts the run.
package batch

import (
	"strings"

	"go.uber.org/zap"

	"fixture_parser/internal/fixture"
	"fixture_parser/internal/parser"
)

// Stats summarizes one batch run.
type Stats struct {
	Lines  int // non-blank input lines
	Parsed int // records produced
	Failed int // lines abandoned after an unexpected panic
}

// Driver applies the parser line by line.
type Driver struct {
	parser *parser.Parser
	log    *zap.Logger
}

// New returns a Driver. A nil logger disables logging.
func New(p *parser.Parser, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{parser: p, log: log}
}

// Parse splits text into lines, skips blanks, and returns one record per
// remaining line in input order. A line that panics inside the parser is
// logged and skipped; parsing continues with the next line.
func (d *Driver) Parse(text string) []*fixture.Record {
	records, _ := d.ParseWithStats(text)
	return records
}

// ParseWithStats is Parse plus run counters.
func (d *Driver) ParseWithStats(text string) ([]*fixture.Record, Stats) {
	_, records, st := d.ParseAll(text)
	return records, st
}

// ParseAll additionally returns the trimmed input line behind each record,
// index for index, for callers that archive the raw text.
func (d *Driver) ParseAll(text string) ([]string, []*fixture.Record, Stats) {
	lines := make([]string, 0)
	records := make([]*fixture.Record, 0)
	var st Stats

	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		st.Lines++

		rec := d.parseLine(lineNo+1, line)
		if rec == nil {
			st.Failed++
			continue
		}
		lines = append(lines, line)
		records = append(records, rec)
		st.Parsed++
	}

	d.log.Info("batch parsed",
		zap.Int("lines", st.Lines),
		zap.Int("parsed", st.Parsed),
		zap.Int("failed", st.Failed))
	return lines, records, st
}

// parseLine wraps one line parse in a recover so an unexpected panic is
// contained to that line.
func (d *Driver) parseLine(lineNo int, line string) (rec *fixture.Record) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("line parse panicked",
				zap.Int("line", lineNo),
				zap.Any("panic", r))
			rec = nil
		}
	}()
	return d.parser.ParseLine(line)
}
