// Package laycan normalizes raw laycan phrases into calendar date ranges.
//
// A laycan is the contractual window during which a vessel must present for
// loading. The surface forms are loose ("25-30 Jun", "2H July", "end June –
// ely July", "June dates"); the normalizer maps each recognized shape onto a
// concrete (start, end) pair using a caller-supplied reference year.
package laycan

import (
	"regexp"
	"strconv"
	"time"

	"fixture_parser/internal/lexicon"
)

// DateFormat is how resolved laycan dates are rendered downstream.
const DateFormat = "2006-01-02"

// Normalizer resolves laycan phrases against a reference year. It is
// stateless apart from its configuration and safe for concurrent use.
type Normalizer struct {
	lex  *lexicon.Lexicon
	year int
}

// New returns a Normalizer using lex for month lookup and year for phrases
// that carry no explicit year.
func New(lex *lexicon.Lexicon, year int) *Normalizer {
	return &Normalizer{lex: lex, year: year}
}

// shape pairs a phrase pattern with its handler. The table is evaluated in
// order and the first matching shape wins, so more specific shapes (the
// explicit day ranges) come before the vague month words.
type shape struct {
	name string
	re   *regexp.Regexp
	fn   func(n *Normalizer, m []string) (time.Time, time.Time, bool)
}

var shapes = []shape{
	{"same_month_range", regexp.MustCompile(`(?i)^(\d{1,2})-(\d{1,2})\s+(\w+)`), (*Normalizer).sameMonthRange},
	{"cross_month_range", regexp.MustCompile(`(?i)^(\d{1,2})\s+(\w+)\s*[–-]\s*(\d{1,2})\s+(\w+)`), (*Normalizer).crossMonthRange},
	{"end_to_early", regexp.MustCompile(`(?i)^end\s+(\w+)\s*[–-]\s*ely\s+(\w+)`), (*Normalizer).endToEarly},
	{"first_half", regexp.MustCompile(`(?i)^1\s*[Hh]\s+(\w+)`), (*Normalizer).firstHalf},
	{"second_half", regexp.MustCompile(`(?i)^2[Hh]\s+(\w+)`), (*Normalizer).secondHalf},
	{"early_month", regexp.MustCompile(`(?i)^[Ee](?:ly|arly)\s+(\w+)`), (*Normalizer).earlyMonth},
	{"mid_month", regexp.MustCompile(`(?i)^mid\s+(\w+)`), (*Normalizer).midMonth},
	{"end_month", regexp.MustCompile(`(?i)^[Ee]nd\s+(\w+)`), (*Normalizer).endMonth},
	{"whole_month", regexp.MustCompile(`(?i)^(\w+)\s+dates`), (*Normalizer).wholeMonth},
}

// Normalize maps a laycan phrase onto a (start, end) pair. ok is false when
// no shape matches or a matched shape carries an out-of-range day or an
// unknown month; the caller decides whether that is worth a warning.
//
// Same-month ranges are not reordered: "30-25 June" yields end before start,
// exactly as written. Silently swapping the days would change a contractual
// window, so the counter-chronological result is passed through.
func (n *Normalizer) Normalize(phrase string) (start, end time.Time, ok bool) {
	for _, s := range shapes {
		if m := s.re.FindStringSubmatch(phrase); m != nil {
			return s.fn(n, m)
		}
	}
	return time.Time{}, time.Time{}, false
}

// NormalizeStrings is Normalize with both dates rendered as YYYY-MM-DD.
func (n *Normalizer) NormalizeStrings(phrase string) (start, end string, ok bool) {
	s, e, ok := n.Normalize(phrase)
	if !ok {
		return "", "", false
	}
	return s.Format(DateFormat), e.Format(DateFormat), true
}

func (n *Normalizer) sameMonthRange(m []string) (time.Time, time.Time, bool) {
	month, ok := n.lex.Month(m[3])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, ok1 := n.date(n.year, month, atoi(m[1]))
	end, ok2 := n.date(n.year, month, atoi(m[2]))
	return start, end, ok1 && ok2
}

func (n *Normalizer) crossMonthRange(m []string) (time.Time, time.Time, bool) {
	month1, ok1 := n.lex.Month(m[2])
	month2, ok2 := n.lex.Month(m[4])
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, false
	}
	// A later-to-earlier month pair spans a year boundary ("25 Dec – 5 Jan").
	endYear := n.year
	if month2 < month1 {
		endYear++
	}
	start, ok1 := n.date(n.year, month1, atoi(m[1]))
	end, ok2 := n.date(endYear, month2, atoi(m[3]))
	return start, end, ok1 && ok2
}

func (n *Normalizer) endToEarly(m []string) (time.Time, time.Time, bool) {
	month1, ok1 := n.lex.Month(m[1])
	month2, ok2 := n.lex.Month(m[2])
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, false
	}
	endYear := n.year
	if month2 < month1 {
		endYear++
	}
	start, _ := n.date(n.year, month1, 24)
	end, _ := n.date(endYear, month2, 10)
	return start, end, true
}

func (n *Normalizer) firstHalf(m []string) (time.Time, time.Time, bool) {
	return n.monthSpan(m[1], 1, 15)
}

func (n *Normalizer) secondHalf(m []string) (time.Time, time.Time, bool) {
	month, ok := n.lex.Month(m[1])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, _ := n.date(n.year, month, 16)
	return start, monthEnd(n.year, month), true
}

func (n *Normalizer) earlyMonth(m []string) (time.Time, time.Time, bool) {
	return n.monthSpan(m[1], 1, 10)
}

func (n *Normalizer) midMonth(m []string) (time.Time, time.Time, bool) {
	return n.monthSpan(m[1], 11, 20)
}

func (n *Normalizer) endMonth(m []string) (time.Time, time.Time, bool) {
	month, ok := n.lex.Month(m[1])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, _ := n.date(n.year, month, 24)
	return start, monthEnd(n.year, month), true
}

func (n *Normalizer) wholeMonth(m []string) (time.Time, time.Time, bool) {
	month, ok := n.lex.Month(m[1])
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, _ := n.date(n.year, month, 1)
	return start, monthEnd(n.year, month), true
}

func (n *Normalizer) monthSpan(word string, fromDay, toDay int) (time.Time, time.Time, bool) {
	month, ok := n.lex.Month(word)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	start, _ := n.date(n.year, month, fromDay)
	end, _ := n.date(n.year, month, toDay)
	return start, end, true
}

// date builds a calendar date, rejecting out-of-range days instead of
// letting time.Date normalize them into the next month.
func (n *Normalizer) date(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > monthEnd(year, month).Day() {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// monthEnd returns the last calendar day of the month: first of the next
// month minus one day, which handles variable month lengths, leap-year
// February, and the December rollover.
func monthEnd(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
