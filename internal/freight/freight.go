// Package freight converts raw freight phrases into total USD figures.
//
// Freight quotes arrive in several bases: per-metric-ton rates ("Usd 29.00
// pmt"), lumpsums in millions ("USD 2.15M Lumpsum"), thousands ("Usd 24K
// PD"), banded estimates ("hi 40ies"), or the explicit rate-not-reported
// marker "RNR". The raw phrase is never modified here — typo normalization
// only touches an internal working copy, so the stored quote stays verbatim
// for audit.
package freight

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Currency-prefix typos: "YUsd 55 pmt", "USd 2.85 M".
	currencyTypoRe = regexp.MustCompile(`^[YU]?[Uu]sd?`)
	bandMiodRe     = regexp.MustCompile(`\bmiod\b`)
	bandHihRe      = regexp.MustCompile(`\bhih\b`)

	millionRe  = regexp.MustCompile(`(?i)\b[\d\.]+\s*M\b`)
	thousandRe = regexp.MustCompile(`(?i)\d\s*K\b`)
	bandedRe   = regexp.MustCompile(`(?i)(?:hi|lo|mid)\s+\d+ies`)
	numberRe   = regexp.MustCompile(`([\d\.]+)`)
	bandBaseRe = regexp.MustCompile(`(\d+)ies`)
)

// Calculator turns freight phrases into USD totals. Zero value disables
// typo correction; use New to choose.
type Calculator struct {
	typoCorrection bool
}

// New returns a Calculator. When typoCorrection is set, known misspellings
// of the currency prefix and band words are canonicalized before the phrase
// is interpreted.
func New(typoCorrection bool) *Calculator {
	return &Calculator{typoCorrection: typoCorrection}
}

// Total resolves a freight phrase against a quantity in metric tons. ok is
// false for the RNR marker, unrecognized shapes, missing numerics, or
// per-ton bases without a numeric quantity. Total never panics on malformed
// input; every failure is the sentinel path.
func (c *Calculator) Total(phrase string, quantityMT float64, quantityKnown bool) (usd float64, ok bool) {
	if strings.EqualFold(strings.TrimSpace(phrase), "RNR") {
		return 0, false
	}

	work := phrase
	if c.typoCorrection {
		work = currencyTypoRe.ReplaceAllString(work, "USD")
		work = bandMiodRe.ReplaceAllString(work, "mid")
		work = bandHihRe.ReplaceAllString(work, "hi")
	}
	work = strings.ReplaceAll(work, ",", "")
	lower := strings.ToLower(work)

	switch {
	case strings.Contains(lower, "pmt"):
		// Per-metric-ton rate: needs a real quantity to total against.
		if !quantityKnown {
			return 0, false
		}
		if v, found := firstNumber(work); found {
			return v * quantityMT, true
		}

	case millionRe.MatchString(work) || strings.Contains(lower, "lumpsum"):
		if v, found := firstNumber(work); found {
			return v * 1_000_000, true
		}

	case thousandRe.MatchString(work):
		if v, found := firstNumber(work); found {
			return v * 1_000, true
		}

	case bandedRe.MatchString(work):
		m := bandBaseRe.FindStringSubmatch(work)
		if m == nil {
			return 0, false
		}
		base, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		switch {
		case strings.Contains(lower, "lo") && base > 50:
			// "lo 90ies" is a thousands-denominated lumpsum band.
			return base * 1_000, true
		case base < 200:
			// Small bands read as per-ton rates.
			if !quantityKnown {
				return 0, false
			}
			return base * quantityMT, true
		default:
			return base * 1_000, true
		}
	}

	return 0, false
}

func firstNumber(s string) (float64, bool) {
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
