package report

import (
	"strings"
	"testing"

	"fixture_parser/internal/batch"
	"fixture_parser/internal/fixture"
)

func TestBuild(t *testing.T) {
	complete := fixture.New()
	complete.VesselName = "Nord Sirius"
	complete.Cargo = "POP"
	complete.QuantityMT = 12000
	complete.QuantityKnown = true
	complete.LoadPort = "Lubmin"
	complete.DischargePort = "Rotterdam"
	complete.Laycan = "25-30 Jun"
	complete.LaycanStart = "2024-06-25"
	complete.LaycanEnd = "2024-06-30"
	complete.Freight = "Usd 29.00 pmt"
	complete.TotalFreightUSD = 348000
	complete.TotalFreightKnown = true
	complete.Charterer = "Cargill"

	// Quantity but no vessel name: counted in tonnage, not completeness.
	partial := fixture.New()
	partial.QuantityMT = 5000
	partial.QuantityKnown = true
	partial.Charterer = "Cargill"

	empty := fixture.New()

	s := Build([]*fixture.Record{complete, partial, empty}, batch.Stats{Lines: 4, Parsed: 3, Failed: 1})

	if s.Lines != 4 || s.Parsed != 3 || s.Failed != 1 {
		t.Errorf("counters = %d/%d/%d, want 4/3/1", s.Lines, s.Parsed, s.Failed)
	}
	if s.Complete != 1 {
		t.Errorf("Complete = %d, want 1", s.Complete)
	}
	if s.WithLaycanDates != 1 {
		t.Errorf("WithLaycanDates = %d, want 1", s.WithLaycanDates)
	}
	if s.WithFreightUSD != 1 {
		t.Errorf("WithFreightUSD = %d, want 1", s.WithFreightUSD)
	}
	if s.TotalQuantityMT != 17000 {
		t.Errorf("TotalQuantityMT = %v, want 17000", s.TotalQuantityMT)
	}
	if s.TotalFreightUSD != 348000 {
		t.Errorf("TotalFreightUSD = %v, want 348000", s.TotalFreightUSD)
	}
	if s.FixturesByCharter["Cargill"] != 2 {
		t.Errorf("Cargill count = %d, want 2", s.FixturesByCharter["Cargill"])
	}
	// Unknown charterers stay out of the breakdown.
	if _, ok := s.FixturesByCharter[fixture.Unknown]; ok {
		t.Error("sentinel charterer counted in breakdown")
	}
}

func TestStringIncludesCharterers(t *testing.T) {
	rec := fixture.New()
	rec.Charterer = "Wilmar"
	s := Build([]*fixture.Record{rec}, batch.Stats{Lines: 1, Parsed: 1})

	text := s.String()
	if !strings.Contains(text, "Wilmar") {
		t.Errorf("summary missing charterer:\n%s", text)
	}
	if !strings.Contains(text, "Parsed:             1") {
		t.Errorf("summary missing parsed count:\n%s", text)
	}
}
