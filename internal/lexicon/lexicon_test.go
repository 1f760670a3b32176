package lexicon

import (
	"testing"
	"time"
)

func TestIsChartererLed(t *testing.T) {
	lex := Default()

	tests := []struct {
		line string
		want bool
	}{
		{"P66 / Seaways Moment / 32,000MT UCO", true},
		{"Sime Darby / Vessel / 8,000MT Palm oil", true},
		{"Dai Thanh 12ktons POP Balikpapan", false},
		{"P66/ Vessel", false},  // separator needs the surrounding space
		{"P66 Vessel", false},   // no separator at all
		{"xP66 / Vessel", false}, // charterer must open the line
	}

	for _, tt := range tests {
		if got := lex.IsChartererLed(tt.line); got != tt.want {
			t.Errorf("IsChartererLed(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestFindCharterer(t *testing.T) {
	lex := Default()

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"cargo 25-30 Jun Nova", "Nova", true},
		{"cargo nova 25-30 Jun", "Nova", true}, // case-insensitive, canonical spelling returned
		{"fixture for SK Energy account", "SK Energy", true},
		{"Novation clause pending", "", false}, // whole words only
		{"plain line", "", false},
	}

	for _, tt := range tests {
		name, span, ok := lex.FindCharterer(tt.text)
		if ok != tt.ok {
			t.Errorf("FindCharterer(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if name != tt.want {
			t.Errorf("FindCharterer(%q) = %q, want %q", tt.text, name, tt.want)
		}
		if span == nil || span[0] < 0 || span[1] > len(tt.text) {
			t.Errorf("FindCharterer(%q) span = %v", tt.text, span)
		}
	}
}

func TestMatchCargoPrefersSpecificNames(t *testing.T) {
	lex := Default()

	tests := []struct {
		text string
		want string
	}{
		// Multi-word names beat their own substrings.
		{"Palm oil products Lubuk Gaung / China", "Palm oil products"},
		{"Palm oil Lubuk Gaung / China", "Palm oil"},
		{"Palms Lubuk Gaung / China", "Palms"},
		{"UCO + Tallow somewhere / elsewhere", "UCO + Tallow"},
		{"UCO somewhere / elsewhere", "UCO"},
		{"POP Balikpapan / South China", "POP"},
	}

	for _, tt := range tests {
		cargo, _, ok := lex.MatchCargo(tt.text)
		if !ok {
			t.Errorf("MatchCargo(%q) failed, want %q", tt.text, tt.want)
			continue
		}
		if cargo != tt.want {
			t.Errorf("MatchCargo(%q) = %q, want %q", tt.text, cargo, tt.want)
		}
	}

	if _, _, ok := lex.MatchCargo("Glycerine Ulsan / Malaysia"); ok {
		t.Error("MatchCargo matched an unknown cargo name")
	}
}

func TestMonth(t *testing.T) {
	lex := Default()

	tests := []struct {
		word string
		want time.Month
		ok   bool
	}{
		{"jun", time.June, true},
		{"June", time.June, true},
		{"JULY", time.July, true},
		{"dec", time.December, true},
		{"zzz", 0, false},
	}

	for _, tt := range tests {
		got, ok := lex.Month(tt.word)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Month(%q) = %v, %v; want %v, %v", tt.word, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFindFreightOrder(t *testing.T) {
	lex := Default()

	// The lumpsum pattern must win over the bare millions pattern when both
	// could match.
	match, _, ok := lex.FindFreight("closing at USD 2.15M Lumpsum subs lifted")
	if !ok || match != "USD 2.15M Lumpsum" {
		t.Errorf("FindFreight = %q, %v; want %q, true", match, ok, "USD 2.15M Lumpsum")
	}

	match, _, ok = lex.FindFreight("quoted RNR for now")
	if !ok || match != "RNR" {
		t.Errorf("FindFreight = %q, %v; want RNR, true", match, ok)
	}
}

func TestConfigExtension(t *testing.T) {
	cfg := DefaultConfig()
	before := len(cfg.Charterers)

	cfg.AddCharterer("Trafigura")
	cfg.AddCharterer("Trafigura") // duplicate is a no-op
	if len(cfg.Charterers) != before+1 {
		t.Fatalf("charterer count = %d, want %d", len(cfg.Charterers), before+1)
	}

	cfg.AddCargoPattern(`Glycerine`)
	lex, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !lex.IsChartererLed("Trafigura / Vessel / 10,000MT UCO") {
		t.Error("added charterer not recognized")
	}
	if cargo, _, ok := lex.MatchCargo("Glycerine Ulsan / Malaysia"); !ok || cargo != "Glycerine" {
		t.Errorf("added cargo pattern: got %q, %v", cargo, ok)
	}
}

func TestNewRejectsBadPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CargoPatterns = append(cfg.CargoPatterns, `(unclosed`)
	if _, err := New(cfg); err == nil {
		t.Error("New accepted an invalid cargo pattern")
	}
}
