package parser

import (
	"regexp"
	"strconv"
	"strings"

	"fixture_parser/internal/fixture"
)

// Fixed engine patterns. These are not part of the configurable lexicon:
// they describe line mechanics (status suffixes, quantity tokens, port
// separators), not market vocabulary.
var (
	// Trailing status annotations stripped before extraction begins.
	suffixPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s*-\s*Failed\s*$`),     // cancelled fixture
		regexp.MustCompile(`(?i)\s*-\s*on\s+subs\s*$`),  // subject to confirmation
		regexp.MustCompile(`(?i)\s+RNR\s*$`),            // trailing rate-not-reported
		regexp.MustCompile(`(?i)\s+bss\s+\w+\s*$`),      // basis clause
		regexp.MustCompile(`(?i)\s+\d/\d\s*$`),          // part-cargo marker
		regexp.MustCompile(`(?i)\s+n\s+Trip\s+T/C.*$`),  // time-charter tail
		regexp.MustCompile(`(?i)\s+Trip\s+t/C.*$`),
	}

	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)

	// Quantity with an explicit unit, typo unit spellings included
	// ("ktrons", "ktpns"). An optional hyphenated range keeps its lower
	// bound: "25-30ktons" reads as 25.
	qtyUnitRe = regexp.MustCompile(`(?i)(\d+-?\d*)\s*(ktons|ktrons|ktpns|Mtons|MT)\b`)

	// Bare quantity followed by a word (the cargo name, any case). The
	// second group is a boundary marker only and is never consumed.
	qtyPlainRe = regexp.MustCompile(`(?i)(\d+(?:,\d{3})*)\s+([A-Z][a-z])`)

	portSepRe  = regexp.MustCompile(`(?i)\s+/\s+|\s+to\s+`)
	portToRe   = regexp.MustCompile(`(?i)\s+to\s+`)
	deliveryRe = regexp.MustCompile(`(?i)\b(delivery|del|re-del)\b`)

	// Freight fragments that occasionally leak into the port segment.
	freightLeakPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[YU]?[Uu]sd?\s+[\d,\.]+`),
		regexp.MustCompile(`(?i)RNR`),
		regexp.MustCompile(`(?i)(?:hi|lo|mid)\s+\d+ies`),
	}

	// Generic words that extend a one-word fallback cargo name.
	cargoSuffixWords = map[string]bool{
		"oil": true, "acid": true, "gas": true, "fuel": true,
	}
)

func isRNR(phrase string) bool {
	return strings.EqualFold(strings.TrimSpace(phrase), "RNR")
}

// parseStandard runs the subject-first pipeline: strip suffixes, then peel
// charterer, laycan and freight off the working span, then read vessel,
// quantity, cargo and ports from what is left. Each step consumes its match
// so no later step can re-claim the same text.
func (p *Parser) parseStandard(line string) *fixture.Record {
	rec := fixture.New()
	buf := newBuffer(stripSuffixes(line))

	if name, span, ok := p.lex.FindCharterer(buf.text); ok {
		rec.Charterer = name
		buf.consume(span)
	}
	if match, span, ok := p.lex.FindLaycan(buf.text); ok {
		rec.Laycan = match
		buf.consume(span)
	}
	if match, span, ok := p.lex.FindFreight(buf.text); ok {
		rec.Freight = match
		buf.consume(span)
	}

	p.extractVesselQuantity(buf.text, rec)
	return rec
}

func stripSuffixes(line string) string {
	for _, re := range suffixPatterns {
		line = re.ReplaceAllString(line, "")
	}
	return line
}

// extractVesselQuantity locates the quantity token; everything before it is
// the vessel name, everything after it carries cargo and ports. Without a
// quantity token the whole text goes to cargo/port extraction and the vessel
// stays unknown.
func (p *Parser) extractVesselQuantity(text string, rec *fixture.Record) {
	qtySpan, remStart, unit := findQuantity(text)
	if qtySpan == nil {
		p.extractCargoPorts(strings.TrimSpace(text), rec)
		return
	}

	vessel := strings.TrimSpace(text[:qtySpan[0]])
	vessel = strings.TrimSpace(parentheticalRe.ReplaceAllString(vessel, ""))
	if vessel != "" {
		rec.VesselName = vessel
	}

	if qty, ok := parseQuantity(text[qtySpan[2]:qtySpan[3]], unit); ok {
		rec.QuantityMT = qty
		rec.QuantityKnown = true
	}

	p.extractCargoPorts(strings.TrimSpace(text[remStart:]), rec)
}

// findQuantity returns the quantity match span (full match plus digit
// group, regexp index layout), the index the remaining text starts at, and
// the unit token ("" for bare numbers). Unit-suffixed quantities win over
// bare numbers.
func findQuantity(text string) (span []int, remStart int, unit string) {
	if loc := qtyUnitRe.FindStringSubmatchIndex(text); loc != nil {
		return loc, loc[1], strings.ToLower(text[loc[4]:loc[5]])
	}
	if loc := qtyPlainRe.FindStringSubmatchIndex(text); loc != nil {
		// Resume at the boundary word, not after it: that word belongs to
		// the cargo step.
		return loc, loc[4], ""
	}
	return nil, 0, ""
}

// parseQuantity converts a digit token to metric tons. Hyphenated ranges
// keep the lower bound; kilo-ton units scale by 1000.
func parseQuantity(digits, unit string) (float64, bool) {
	if lo, _, found := strings.Cut(digits, "-"); found {
		digits = lo
	}
	digits = strings.ReplaceAll(digits, ",", "")
	qty, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	if strings.HasPrefix(unit, "k") {
		qty *= 1000
	}
	return qty, true
}

// extractCargoPorts reads the cargo name from the front of text — known
// catalog names first, then a conservative one-or-two word fallback — and
// hands the rest to port extraction.
func (p *Parser) extractCargoPorts(text string, rec *fixture.Record) {
	if text == "" {
		return
	}

	if cargo, end, ok := p.lex.MatchCargo(text); ok {
		rec.Cargo = cargo
		p.extractPorts(strings.TrimSpace(text[end:]), rec)
		return
	}

	sep := portSepRe.FindStringIndex(text)
	if sep == nil {
		// No port boundary at all; the leading word is the best cargo guess.
		if words := strings.Fields(text); len(words) > 0 {
			rec.Cargo = words[0]
		}
		return
	}

	cargoPart := strings.TrimSpace(text[:sep[0]])
	words := strings.Fields(cargoPart)
	switch {
	case len(words) == 1:
		rec.Cargo = words[0]
	case len(words) == 2 && cargoSuffixWords[strings.ToLower(words[1])]:
		// "Palm oil", "S. acid": generic suffix word extends the name.
		rec.Cargo = cargoPart
	case len(words) >= 2:
		rec.Cargo = words[0]
	case cargoPart != "":
		rec.Cargo = cargoPart
	}

	p.extractPorts(strings.TrimSpace(text[sep[0]:]), rec)
}

// extractPorts splits the port-candidate text into load and discharge
// ports. Delivery/redelivery vocabulary marks time-charter instructions,
// which are never ports; further segments past the second are ignored.
func (p *Parser) extractPorts(text string, rec *fixture.Record) {
	if text == "" {
		return
	}
	if deliveryRe.MatchString(text) {
		return
	}

	for _, re := range freightLeakPatterns {
		text = strings.TrimSpace(re.ReplaceAllString(text, ""))
	}

	var load, discharge string
	if before, after, found := strings.Cut(text, " / "); found {
		load, discharge = before, after
	} else if loc := portToRe.FindStringIndex(text); loc != nil {
		load, discharge = text[:loc[0]], text[loc[1]:]
	} else {
		return
	}

	if load = strings.TrimSpace(load); load != "" {
		rec.LoadPort = load
	}
	if discharge = strings.TrimSpace(discharge); discharge != "" {
		rec.DischargePort = discharge
	}
}
