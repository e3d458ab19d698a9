package tnfa

import "fmt"

// CaptureGroup is a numbered, possibly nested capture group. Group 0 is the
// whole match; numbering is dense, so 2*Number (+1 for the end boundary) is a
// stable index into a per-DFA-state history vector.
type CaptureGroup struct {
	Number int
	Parent *CaptureGroup // self for group 0

	StartTag *Tag
	EndTag   *Tag
}

// newCaptureGroup allocates a group together with its two boundary tags.
// A nil parent means the group is its own parent (the root group).
func newCaptureGroup(number int, parent *CaptureGroup) *CaptureGroup {
	g := &CaptureGroup{Number: number, Parent: parent}
	if parent == nil {
		g.Parent = g
	}
	g.StartTag = &Tag{Group: g, start: true}
	g.EndTag = &Tag{Group: g}
	return g
}

// String implements fmt.Stringer.
func (g *CaptureGroup) String() string {
	return fmt.Sprintf("g%d", g.Number)
}

// Tag marks the start or end boundary of a capture group on an epsilon edge.
type Tag struct {
	Group *CaptureGroup
	start bool
}

// IsStartTag reports whether the tag opens its group.
func (t *Tag) IsStartTag() bool {
	return t.start
}

// IsEndTag reports whether the tag closes its group.
func (t *Tag) IsEndTag() bool {
	return !t.start
}

// Position returns the tag's index into a history vector:
// 2*group for a start tag, 2*group+1 for an end tag.
func (t *Tag) Position() int {
	r := 2 * t.Group.Number
	if t.IsEndTag() {
		r++
	}
	return r
}

// String implements fmt.Stringer.
func (t *Tag) String() string {
	if t.start {
		return fmt.Sprintf("<%d", t.Group.Number)
	}
	return fmt.Sprintf("%d>", t.Group.Number)
}
