// Package fixture provides the shipping fixture record type and its output contract.
package fixture

import (
	"fmt"
	"strconv"
)

// Unknown is the sentinel emitted for any field that could not be extracted.
const Unknown = "N/A"

// Labels is the output column order. Downstream writers and the API depend
// on these exact strings.
var Labels = []string{
	"Vessel Name",
	"Cargo",
	"Quantity (MT)",
	"Load Port",
	"Discharge Port",
	"Laycan",
	"Laycan Start Date",
	"Laycan End Date",
	"Freight",
	"Total Freight (USD)",
	"Charterer",
}

// Record is one structured shipping fixture. Every text field defaults to
// Unknown; numeric fields carry a Known flag instead of overloading the zero
// value. Laycan dates are YYYY-MM-DD strings, empty when unresolved — they
// are always set or cleared together.
type Record struct {
	VesselName    string  `json:"vessel_name"`
	Cargo         string  `json:"cargo"`
	QuantityMT    float64 `json:"quantity_mt,omitempty"`
	QuantityKnown bool    `json:"-"`
	LoadPort      string  `json:"load_port"`
	DischargePort string  `json:"discharge_port"`
	Laycan        string  `json:"laycan"`
	LaycanStart   string  `json:"laycan_start_date,omitempty"`
	LaycanEnd     string  `json:"laycan_end_date,omitempty"`

	// Freight keeps the matched surface text verbatim, typos included,
	// so the original quote stays auditable.
	Freight           string  `json:"freight"`
	TotalFreightUSD   float64 `json:"total_freight_usd,omitempty"`
	TotalFreightKnown bool    `json:"-"`
	Charterer         string  `json:"charterer"`
}

// New returns a record with every field at its sentinel.
func New() *Record {
	return &Record{
		VesselName:    Unknown,
		Cargo:         Unknown,
		LoadPort:      Unknown,
		DischargePort: Unknown,
		Laycan:        Unknown,
		Freight:       Unknown,
		Charterer:     Unknown,
	}
}

// Fields returns the record as the label→value mapping consumed by writers
// and reporters. Numeric fields are float64 or the Unknown string; date
// fields are strings or nil.
func (r *Record) Fields() map[string]any {
	m := map[string]any{
		"Vessel Name":    r.VesselName,
		"Cargo":          r.Cargo,
		"Quantity (MT)":  any(Unknown),
		"Load Port":      r.LoadPort,
		"Discharge Port": r.DischargePort,
		"Laycan":         r.Laycan,
		"Freight":        r.Freight,
		"Charterer":      r.Charterer,
	}
	if r.QuantityKnown {
		m["Quantity (MT)"] = r.QuantityMT
	}
	m["Total Freight (USD)"] = any(Unknown)
	if r.TotalFreightKnown {
		m["Total Freight (USD)"] = r.TotalFreightUSD
	}
	m["Laycan Start Date"] = nil
	m["Laycan End Date"] = nil
	if r.LaycanStart != "" {
		m["Laycan Start Date"] = r.LaycanStart
		m["Laycan End Date"] = r.LaycanEnd
	}
	return m
}

// Row returns the record as CSV cells in Labels order. Absent dates are
// empty cells; unknown numerics are the sentinel text.
func (r *Record) Row() []string {
	qty := Unknown
	if r.QuantityKnown {
		qty = formatFloat(r.QuantityMT)
	}
	total := Unknown
	if r.TotalFreightKnown {
		total = formatFloat(r.TotalFreightUSD)
	}
	return []string{
		r.VesselName,
		r.Cargo,
		qty,
		r.LoadPort,
		r.DischargePort,
		r.Laycan,
		r.LaycanStart,
		r.LaycanEnd,
		r.Freight,
		total,
		r.Charterer,
	}
}

// IsComplete reports whether the record carries the essentials: a vessel
// name and a numeric quantity.
func (r *Record) IsComplete() bool {
	return r.VesselName != Unknown && r.QuantityKnown
}

// HasLaycanDates reports whether the laycan resolved to a calendar range.
func (r *Record) HasLaycanDates() bool {
	return r.LaycanStart != ""
}

func (r *Record) String() string {
	qty := Unknown
	if r.QuantityKnown {
		qty = formatFloat(r.QuantityMT)
	}
	return fmt.Sprintf("Record(vessel=%q, cargo=%q, quantity=%s)", r.VesselName, r.Cargo, qty)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
