package parser

import (
	"strconv"
	"testing"

	"fixture_parser/internal/fixture"
)

func newTestParser() *Parser {
	return New(Options{
		Year:               2024,
		TypoCorrection:     true,
		FreightCalculation: true,
	})
}

func TestClassify(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		line string
		want Format
	}{
		{"P66 / Seaways Moment / 32,000MT UCO + Tallow", FormatChartererLed},
		{"Neste / Vessel / 10,000MT UCO", FormatChartererLed},
		{"Dai Thanh 12ktons POP Balikpapan / South China", FormatStandard},
		// The charterer must open the line and be followed by a slash.
		{"Seaways Moment P66 / cargo", FormatStandard},
		{"P66 Seaways Moment", FormatStandard},
	}

	for _, tt := range tests {
		if got := p.Classify(tt.line); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseLineStandard(t *testing.T) {
	p := newTestParser()

	rec := p.ParseLine("Dai Thanh 12ktons POP Balikpapan / South China Usd 29.00 pmt 25-30 Jun Nova")

	if rec.VesselName != "Dai Thanh" {
		t.Errorf("VesselName = %q, want %q", rec.VesselName, "Dai Thanh")
	}
	if rec.Cargo != "POP" {
		t.Errorf("Cargo = %q, want %q", rec.Cargo, "POP")
	}
	if !rec.QuantityKnown || rec.QuantityMT != 12000 {
		t.Errorf("QuantityMT = %v (known=%v), want 12000", rec.QuantityMT, rec.QuantityKnown)
	}
	if rec.LoadPort != "Balikpapan" {
		t.Errorf("LoadPort = %q, want %q", rec.LoadPort, "Balikpapan")
	}
	if rec.DischargePort != "South China" {
		t.Errorf("DischargePort = %q, want %q", rec.DischargePort, "South China")
	}
	if rec.Laycan != "25-30 Jun" {
		t.Errorf("Laycan = %q, want %q", rec.Laycan, "25-30 Jun")
	}
	if rec.LaycanStart != "2024-06-25" || rec.LaycanEnd != "2024-06-30" {
		t.Errorf("laycan dates = %s..%s, want 2024-06-25..2024-06-30", rec.LaycanStart, rec.LaycanEnd)
	}
	if rec.Freight != "Usd 29.00 pmt" {
		t.Errorf("Freight = %q, want %q", rec.Freight, "Usd 29.00 pmt")
	}
	if !rec.TotalFreightKnown || rec.TotalFreightUSD != 348000 {
		t.Errorf("TotalFreightUSD = %v (known=%v), want 348000", rec.TotalFreightUSD, rec.TotalFreightKnown)
	}
	if rec.Charterer != "Nova" {
		t.Errorf("Charterer = %q, want %q", rec.Charterer, "Nova")
	}
}

func TestParseLineChartererLed(t *testing.T) {
	p := newTestParser()

	rec := p.ParseLine("P66 / Seaways Moment / 32,000MT UCO + Tallow / Port Klang to USWC / 06-10 June / USD 2.15M Lumpsum")

	if rec.Charterer != "P66" {
		t.Errorf("Charterer = %q, want %q", rec.Charterer, "P66")
	}
	if rec.VesselName != "Seaways Moment" {
		t.Errorf("VesselName = %q, want %q", rec.VesselName, "Seaways Moment")
	}
	if !rec.QuantityKnown || rec.QuantityMT != 32000 {
		t.Errorf("QuantityMT = %v (known=%v), want 32000", rec.QuantityMT, rec.QuantityKnown)
	}
	if rec.Cargo != "UCO + Tallow" {
		t.Errorf("Cargo = %q, want %q", rec.Cargo, "UCO + Tallow")
	}
	if rec.LoadPort != "Port Klang" || rec.DischargePort != "USWC" {
		t.Errorf("ports = %q / %q, want Port Klang / USWC", rec.LoadPort, rec.DischargePort)
	}
	if rec.LaycanStart != "2024-06-06" || rec.LaycanEnd != "2024-06-10" {
		t.Errorf("laycan dates = %s..%s, want 2024-06-06..2024-06-10", rec.LaycanStart, rec.LaycanEnd)
	}
	if !rec.TotalFreightKnown || rec.TotalFreightUSD != 2150000 {
		t.Errorf("TotalFreightUSD = %v (known=%v), want 2150000", rec.TotalFreightUSD, rec.TotalFreightKnown)
	}
}

// A freight total needs a numeric quantity on the record; a resolvable
// lumpsum phrase alone is not enough.
func TestParseLineFreightNeedsQuantity(t *testing.T) {
	p := newTestParser()

	rec := p.ParseLine("Ocean Glory UCO Singapore / Rotterdam USD 2.15M Lumpsum")

	if rec.QuantityKnown {
		t.Fatalf("QuantityMT = %v, want unknown", rec.QuantityMT)
	}
	if rec.TotalFreightKnown {
		t.Errorf("TotalFreightUSD = %v, want unknown without a quantity", rec.TotalFreightUSD)
	}
}

func TestParseLineDeliveryVocabularyBlocksPorts(t *testing.T) {
	p := newTestParser()

	lines := []string{
		"Ocean Glory 10ktons UCO del Singapore / re-del Japan",
		"Ocean Glory 10ktons UCO delivery Singapore to Rotterdam",
	}
	for _, line := range lines {
		rec := p.ParseLine(line)
		if rec.LoadPort != fixture.Unknown || rec.DischargePort != fixture.Unknown {
			t.Errorf("ParseLine(%q) ports = %q / %q, want both %q",
				line, rec.LoadPort, rec.DischargePort, fixture.Unknown)
		}
	}
}

func TestParseLineQuantityForms(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		line string
		want float64
	}{
		{"Vessel One 12ktons POP Balikpapan / South China", 12000},
		{"Vessel Two 25-30ktons POP Balikpapan / South China", 25000}, // lower bound of range
		{"Vessel Three 8600 Benzene Ulsan to Malaysia", 8600},
		{"Vessel Six 8600 benzene Ulsan to Malaysia", 8600}, // lowercase cargo word
		{"Vessel Four 12ktrons POP A / B", 12000}, // unit typo still scales
		{"Vessel Five 5 Mtons POP A / B", 5},
	}

	for _, tt := range tests {
		rec := p.ParseLine(tt.line)
		if !rec.QuantityKnown || rec.QuantityMT != tt.want {
			t.Errorf("ParseLine(%q) quantity = %v (known=%v), want %v",
				tt.line, rec.QuantityMT, rec.QuantityKnown, tt.want)
		}
	}
}

// Quantity normalization is idempotent: feeding a parsed quantity's own
// printed form back through the unit logic yields the same value.
func TestParseQuantityIdempotent(t *testing.T) {
	p := newTestParser()

	rec := p.ParseLine("Dai Thanh 12ktons POP Balikpapan / South China")
	printed := strconv.FormatFloat(rec.QuantityMT, 'f', -1, 64)

	again, ok := parseQuantity(printed, "")
	if !ok || again != rec.QuantityMT {
		t.Errorf("re-parsed quantity = %v (ok=%v), want %v", again, ok, rec.QuantityMT)
	}
}

func TestParseLineSuffixStripping(t *testing.T) {
	p := newTestParser()

	base := p.ParseLine("Dai Thanh 12ktons POP Balikpapan / South China Usd 29.00 pmt 25-30 Jun Nova")
	for _, suffix := range []string{" - Failed", " - on subs", " bss Balikpapan"} {
		rec := p.ParseLine("Dai Thanh 12ktons POP Balikpapan / South China Usd 29.00 pmt 25-30 Jun Nova" + suffix)
		if rec.VesselName != base.VesselName || rec.Charterer != base.Charterer ||
			rec.DischargePort != base.DischargePort {
			t.Errorf("suffix %q changed extraction: %+v", suffix, rec)
		}
	}
}

func TestParseLineFallbackCargo(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		line      string
		wantCargo string
	}{
		// Unknown single-word cargo before a port separator.
		{"Vessel One 8600 Glycerine Ulsan to Malaysia", "Glycerine"},
		// Two words with a generic suffix keep both.
		{"Vessel Two 8600 Rapeseed oil to Malaysia", "Rapeseed oil"},
		// No separator at all: leading word is the best guess.
		{"Vessel Three 8600 Glycerine", "Glycerine"},
	}

	for _, tt := range tests {
		rec := p.ParseLine(tt.line)
		if rec.Cargo != tt.wantCargo {
			t.Errorf("ParseLine(%q) cargo = %q, want %q", tt.line, rec.Cargo, tt.wantCargo)
		}
	}
}

// Every parse yields a record; fields that cannot be isolated stay at the
// sentinel rather than being dropped.
func TestParseLineNeverEmpty(t *testing.T) {
	p := newTestParser()

	lines := []string{
		"x",
		"!!!",
		"/ / / / /",
		"1234567890",
		"to to to to",
	}
	for _, line := range lines {
		rec := p.ParseLine(line)
		if rec == nil {
			t.Fatalf("ParseLine(%q) = nil", line)
		}
		fields := rec.Fields()
		for _, label := range fixture.Labels {
			if _, present := fields[label]; !present {
				t.Errorf("ParseLine(%q) missing field %q", line, label)
			}
		}
	}
}
