package batch

import (
	"testing"

	"fixture_parser/internal/parser"
)

func newTestDriver() *Driver {
	p := parser.New(parser.Options{
		Year:               2024,
		TypoCorrection:     true,
		FreightCalculation: true,
	})
	return New(p, nil)
}

func TestParseEmptyInput(t *testing.T) {
	d := newTestDriver()

	for _, input := range []string{"", "   ", "\n\n\n", " \t \n  \n"} {
		records := d.Parse(input)
		if len(records) != 0 {
			t.Errorf("Parse(%q) = %d records, want 0", input, len(records))
		}
	}
}

func TestParsePreservesLineOrder(t *testing.T) {
	d := newTestDriver()

	input := "Dai Thanh 12ktons POP Balikpapan / South China Usd 29.00 pmt 25-30 Jun Nova\n" +
		"\n" +
		"P66 / Seaways Moment / 32,000MT UCO + Tallow / Port Klang to USWC / 06-10 June / USD 2.15M Lumpsum\n" +
		"   \n" +
		"Ocean Glory 10ktons UCO del Singapore / re-del Japan\n"

	records, st := d.ParseWithStats(input)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if st.Lines != 3 || st.Parsed != 3 || st.Failed != 0 {
		t.Errorf("stats = %+v, want 3 lines, 3 parsed, 0 failed", st)
	}

	wantVessels := []string{"Dai Thanh", "Seaways Moment", "Ocean Glory"}
	for i, want := range wantVessels {
		if records[i].VesselName != want {
			t.Errorf("records[%d].VesselName = %q, want %q", i, records[i].VesselName, want)
		}
	}
}

func TestParseAllFieldsAlwaysPresent(t *testing.T) {
	d := newTestDriver()

	records := d.Parse("not a fixture at all\n???\n")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for i, rec := range records {
		if len(rec.Fields()) != 11 {
			t.Errorf("records[%d] has %d fields, want 11", i, len(rec.Fields()))
		}
	}
}
