package tnfa

import "fmt"

// InputRange is an inclusive range of input runes consumed by a symbol
// transition. The determinizer only ever queries with elementary ranges,
// i.e. ranges that are fully inside or fully outside every transition range.
type InputRange struct {
	Lo rune
	Hi rune
}

// EOS is the synthetic range passed to closure in start mode, where no input
// is consumed. It matches nothing.
var EOS = InputRange{Lo: -1, Hi: -1}

// NewInputRange returns the inclusive range [lo, hi].
func NewInputRange(lo, hi rune) InputRange {
	if lo > hi {
		panic(fmt.Sprintf("tnfa: invalid input range [%q, %q]", lo, hi))
	}
	return InputRange{Lo: lo, Hi: hi}
}

// Single returns the range containing exactly r.
func Single(r rune) InputRange {
	return InputRange{Lo: r, Hi: r}
}

// Contains reports whether r falls inside the range.
func (ir InputRange) Contains(r rune) bool {
	return ir.Lo <= r && r <= ir.Hi
}

// ContainsRange reports whether other lies entirely inside ir.
func (ir InputRange) ContainsRange(other InputRange) bool {
	return ir.Lo <= other.Lo && other.Hi <= ir.Hi
}

// IsEOS reports whether this is the synthetic start-mode range.
func (ir InputRange) IsEOS() bool {
	return ir.Lo < 0
}

// String implements fmt.Stringer.
func (ir InputRange) String() string {
	if ir.IsEOS() {
		return "EOS"
	}
	if ir.Lo == ir.Hi {
		return fmt.Sprintf("%q", ir.Lo)
	}
	return fmt.Sprintf("%q-%q", ir.Lo, ir.Hi)
}
