package fixture

import "testing"

func TestNewAllSentinels(t *testing.T) {
	rec := New()

	fields := rec.Fields()
	if len(fields) != len(Labels) {
		t.Fatalf("field count = %d, want %d", len(fields), len(Labels))
	}
	for _, label := range Labels {
		v, present := fields[label]
		if !present {
			t.Errorf("missing field %q", label)
			continue
		}
		switch label {
		case "Laycan Start Date", "Laycan End Date":
			if v != nil {
				t.Errorf("%s = %v, want nil", label, v)
			}
		default:
			if v != Unknown {
				t.Errorf("%s = %v, want %q", label, v, Unknown)
			}
		}
	}
}

func TestFieldsNumericTypes(t *testing.T) {
	rec := New()
	rec.QuantityMT = 12000
	rec.QuantityKnown = true
	rec.TotalFreightUSD = 348000
	rec.TotalFreightKnown = true
	rec.LaycanStart = "2024-06-25"
	rec.LaycanEnd = "2024-06-30"

	fields := rec.Fields()
	if got, ok := fields["Quantity (MT)"].(float64); !ok || got != 12000 {
		t.Errorf("Quantity (MT) = %v, want float64 12000", fields["Quantity (MT)"])
	}
	if got, ok := fields["Total Freight (USD)"].(float64); !ok || got != 348000 {
		t.Errorf("Total Freight (USD) = %v, want float64 348000", fields["Total Freight (USD)"])
	}
	if fields["Laycan Start Date"] != "2024-06-25" || fields["Laycan End Date"] != "2024-06-30" {
		t.Errorf("laycan dates = %v..%v", fields["Laycan Start Date"], fields["Laycan End Date"])
	}
}

func TestRow(t *testing.T) {
	rec := New()
	rec.VesselName = "Dai Thanh"
	rec.QuantityMT = 12000
	rec.QuantityKnown = true

	row := rec.Row()
	if len(row) != len(Labels) {
		t.Fatalf("row length = %d, want %d", len(row), len(Labels))
	}
	if row[0] != "Dai Thanh" {
		t.Errorf("row[0] = %q, want Dai Thanh", row[0])
	}
	if row[2] != "12000" {
		t.Errorf("row[2] = %q, want 12000", row[2])
	}
	if row[9] != Unknown {
		t.Errorf("row[9] = %q, want %q", row[9], Unknown)
	}
}

func TestIsComplete(t *testing.T) {
	rec := New()
	if rec.IsComplete() {
		t.Error("empty record reported complete")
	}
	rec.VesselName = "Dai Thanh"
	rec.QuantityMT = 12000
	rec.QuantityKnown = true
	if !rec.IsComplete() {
		t.Error("record with vessel and quantity reported incomplete")
	}
}
