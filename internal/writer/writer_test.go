package writer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"fixture_parser/internal/fixture"
)

func parsedRecord() *fixture.Record {
	rec := fixture.New()
	rec.VesselName = "Nord Sirius"
	rec.Cargo = "POP"
	rec.QuantityMT = 12000
	rec.QuantityKnown = true
	rec.LoadPort = "Lubmin"
	rec.DischargePort = "Rotterdam"
	rec.Laycan = "25-30 Jun"
	rec.LaycanStart = "2024-06-25"
	rec.LaycanEnd = "2024-06-30"
	rec.Freight = "Usd 29.00 pmt"
	rec.TotalFreightUSD = 348000
	rec.TotalFreightKnown = true
	rec.Charterer = "Cargill"
	return rec
}

func TestCSVHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewCSV(&buf)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}
	if err := w.Write(parsedRecord()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(fixture.New()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Vessel Name,Cargo,") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "12000") || !strings.Contains(lines[1], "348000") {
		t.Errorf("parsed row = %q", lines[1])
	}
	if !strings.Contains(lines[2], "N/A") {
		t.Errorf("sentinel row = %q", lines[2])
	}
}

func TestJSONLNullsForUnknowns(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONL(&buf)
	if err := w.Write(fixture.New()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if obj["vessel_name"] != "N/A" {
		t.Errorf("vessel_name = %v, want N/A", obj["vessel_name"])
	}
	for _, key := range []string{"quantity_mt", "total_freight_usd", "laycan_start", "laycan_end"} {
		if v, ok := obj[key]; !ok || v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}
}

func TestJSONLParsedValues(t *testing.T) {
	var buf bytes.Buffer
	w := NewJSONL(&buf)
	if err := w.Write(parsedRecord()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(buf.Bytes(), &obj); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if obj["quantity_mt"] != float64(12000) {
		t.Errorf("quantity_mt = %v, want 12000", obj["quantity_mt"])
	}
	if obj["laycan_start"] != "2024-06-25" {
		t.Errorf("laycan_start = %v", obj["laycan_start"])
	}
}

func TestNewFormatDispatch(t *testing.T) {
	var buf bytes.Buffer
	if _, err := New("csv", &buf); err != nil {
		t.Errorf("csv: %v", err)
	}
	if _, err := New("jsonl", &buf); err != nil {
		t.Errorf("jsonl: %v", err)
	}
	if _, err := New("xml", &buf); err == nil {
		t.Error("New accepted unknown format")
	}
}
