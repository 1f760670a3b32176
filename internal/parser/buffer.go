package parser

import "strings"

// buffer is the working span a line is consumed from. Extraction steps
// remove matched text by index range, so a token that happens to recur
// elsewhere in the line can never be deleted by accident — consumed text is
// structurally gone, not string-replaced away.
type buffer struct {
	text string
}

func newBuffer(line string) *buffer {
	return &buffer{text: strings.TrimSpace(line)}
}

// consume removes the span [lo, hi) from the buffer and returns the removed
// text. Spans come straight from regexp FindStringIndex results.
func (b *buffer) consume(span []int) string {
	matched := b.text[span[0]:span[1]]
	b.text = strings.TrimSpace(b.text[:span[0]] + b.text[span[1]:])
	return matched
}

func (b *buffer) String() string {
	return b.text
}
