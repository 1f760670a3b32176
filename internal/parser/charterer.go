package parser

import (
	"regexp"
	"strconv"
	"strings"

	"fixture_parser/internal/fixture"
)

// Quantity-and-cargo segment of a charterer-led line: "32,000MT UCO + Tallow".
var qtyCargoRe = regexp.MustCompile(`(?i)([\d,]+)\s*MT\s+(.*)`)

// parseChartererLed handles slash-segmented lines. Slash segmentation
// already isolates the fields, so positions carry meaning: charterer,
// vessel, quantity+cargo, ports, then laycan and freight anywhere in the
// tail. The tail search reuses the standard surface catalogs but without
// destructive consumption — nothing else competes for that text.
func (p *Parser) parseChartererLed(line string) *fixture.Record {
	rec := fixture.New()

	parts := strings.Split(line, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 0 && parts[0] != "" {
		rec.Charterer = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		rec.VesselName = parts[1]
	}
	if len(parts) > 2 {
		p.extractQuantityCargo(parts[2], rec)
	}
	if len(parts) > 3 {
		p.extractPorts(parts[3], rec)
	}
	if len(parts) > 4 {
		tail := strings.Join(parts[4:], " / ")
		if match, _, ok := p.lex.FindLaycan(tail); ok {
			rec.Laycan = match
		}
		if match, _, ok := p.lex.FindFreight(tail); ok {
			rec.Freight = match
		}
	}

	return rec
}

// extractQuantityCargo reads "<digits>MT <cargo>" from a slash segment. A
// malformed digit run leaves the quantity unknown but still keeps the cargo.
func (p *Parser) extractQuantityCargo(text string, rec *fixture.Record) {
	m := qtyCargoRe.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if qty, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64); err == nil {
		rec.QuantityMT = qty
		rec.QuantityKnown = true
	}
	if cargo := strings.TrimSpace(m[2]); cargo != "" {
		rec.Cargo = cargo
	}
}
