// Package parser turns one free-form shipping fixture line into a structured
// record. It hosts the format classifier and the sequential, destructive
// field extraction pipeline; laycan and freight resolution are delegated to
// their own packages during finalization.
package parser

import (
	"time"

	"go.uber.org/zap"

	"fixture_parser/internal/fixture"
	"fixture_parser/internal/freight"
	"fixture_parser/internal/laycan"
	"fixture_parser/internal/lexicon"
)

// Format selects the extraction strategy for a line.
type Format int

const (
	// FormatStandard is subject-first word order: vessel, quantity, cargo,
	// ports, laycan, freight, charterer scattered through the line.
	FormatStandard Format = iota

	// FormatChartererLed is the slash-segmented order opened by a known
	// charterer name: "P66 / Vessel / 32,000MT Cargo / Ports / Dates / Rate".
	FormatChartererLed
)

func (f Format) String() string {
	if f == FormatChartererLed {
		return "charterer_led"
	}
	return "standard"
}

// Options configures a Parser.
type Options struct {
	// Lexicon supplies the lexical tables. Nil means the built-in defaults.
	Lexicon *lexicon.Lexicon

	// Year is the reference year for laycan phrases without an explicit year.
	Year int

	// TypoCorrection canonicalizes known freight-phrase misspellings before
	// totals are computed. The stored raw phrase is never touched.
	TypoCorrection bool

	// FreightCalculation enables resolving freight phrases to USD totals.
	FreightCalculation bool

	// Logger receives normalization-failure warnings. Nil means no logging.
	Logger *zap.Logger
}

// Parser is the per-line extraction engine. It holds only immutable
// configuration, so one Parser is safe to use across goroutines.
type Parser struct {
	lex         *lexicon.Lexicon
	laycan      *laycan.Normalizer
	freight     *freight.Calculator
	calcFreight bool
	log         *zap.Logger
}

// New builds a Parser from opts.
func New(opts Options) *Parser {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		lex:         lex,
		laycan:      laycan.New(lex, year),
		freight:     freight.New(opts.TypoCorrection),
		calcFreight: opts.FreightCalculation,
		log:         log,
	}
}

// Classify decides which extraction strategy applies to a line. There is no
// failure mode: anything not opened by a known charterer and a slash is
// standard order.
func (p *Parser) Classify(line string) Format {
	if p.lex.IsChartererLed(line) {
		return FormatChartererLed
	}
	return FormatStandard
}

// ParseLine extracts a record from one trimmed, non-empty line. Every field
// that cannot be isolated stays at its sentinel; ParseLine itself never
// fails.
func (p *Parser) ParseLine(line string) *fixture.Record {
	var rec *fixture.Record
	switch p.Classify(line) {
	case FormatChartererLed:
		rec = p.parseChartererLed(line)
	default:
		rec = p.parseStandard(line)
	}
	p.finalize(rec)
	return rec
}

// finalize resolves the laycan phrase into calendar dates and the freight
// phrase into a USD total. This is the record's last mutation; afterwards it
// is emitted as-is.
func (p *Parser) finalize(rec *fixture.Record) {
	if rec.Laycan != fixture.Unknown {
		start, end, ok := p.laycan.NormalizeStrings(rec.Laycan)
		if ok {
			rec.LaycanStart = start
			rec.LaycanEnd = end
		} else {
			p.log.Warn("laycan phrase did not normalize", zap.String("laycan", rec.Laycan))
		}
	}

	// Totals are only attached to records with a numeric quantity, even for
	// bases (lumpsum, thousands) the calculator could resolve without one.
	if !p.calcFreight || rec.Freight == fixture.Unknown || !rec.QuantityKnown {
		return
	}
	total, ok := p.freight.Total(rec.Freight, rec.QuantityMT, rec.QuantityKnown)
	if ok {
		rec.TotalFreightUSD = total
		rec.TotalFreightKnown = true
	} else if !isRNR(rec.Freight) {
		p.log.Warn("freight phrase did not resolve", zap.String("freight", rec.Freight))
	}
}
