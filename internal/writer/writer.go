// Package writer renders parsed fixture records as CSV or JSON Lines.
package writer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"fixture_parser/internal/fixture"
)

// Writer streams records to an output in a fixed format.
type Writer interface {
	Write(rec *fixture.Record) error
	// Flush finishes the stream. Must be called once after the last record.
	Flush() error
}

// New returns a writer for the given format name ("csv" or "jsonl").
func New(format string, w io.Writer) (Writer, error) {
	switch format {
	case "csv":
		return NewCSV(w)
	case "jsonl":
		return NewJSONL(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// CSV writes records as comma-separated rows under a fixed header.
type CSV struct {
	w *csv.Writer
}

// NewCSV creates a CSV writer and emits the header row.
func NewCSV(w io.Writer) (*CSV, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(fixture.Labels); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &CSV{w: cw}, nil
}

func (c *CSV) Write(rec *fixture.Record) error {
	return c.w.Write(rec.Row())
}

func (c *CSV) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// JSONL writes one JSON object per line, with unknown values as null.
type JSONL struct {
	enc *json.Encoder
}

// NewJSONL creates a JSON Lines writer.
func NewJSONL(w io.Writer) *JSONL {
	return &JSONL{enc: json.NewEncoder(w)}
}

func (j *JSONL) Write(rec *fixture.Record) error {
	return j.enc.Encode(jsonRecord(rec))
}

func (j *JSONL) Flush() error {
	return nil
}

// jsonRecord maps a record to JSON field names. Unknown numeric and date
// values become null rather than the "N/A" sentinel.
func jsonRecord(rec *fixture.Record) map[string]any {
	out := map[string]any{
		"vessel_name":    rec.VesselName,
		"cargo":          rec.Cargo,
		"load_port":      rec.LoadPort,
		"discharge_port": rec.DischargePort,
		"laycan":         rec.Laycan,
		"freight":        rec.Freight,
		"charterer":      rec.Charterer,
	}
	if rec.QuantityKnown {
		out["quantity_mt"] = rec.QuantityMT
	} else {
		out["quantity_mt"] = nil
	}
	if rec.TotalFreightKnown {
		out["total_freight_usd"] = rec.TotalFreightUSD
	} else {
		out["total_freight_usd"] = nil
	}
	if rec.HasLaycanDates() {
		out["laycan_start"] = rec.LaycanStart
		out["laycan_end"] = rec.LaycanEnd
	} else {
		out["laycan_start"] = nil
		out["laycan_end"] = nil
	}
	return out
}
