package diff

import (
	"fmt"
	"strings"
)

// Counts holds the number of hunk lines per LineType.
type Counts struct {
	Retain int
	Add    int
	Remove int
}

func (c *Counts) adjust(t LineType, delta int) {
	switch t {
	case Add:
		c.Add += delta
	case Remove:
		c.Remove += delta
	default:
		c.Retain += delta
	}
}

// Hunk represents one contiguous change region.
//
// Lines are only mutable through Hunk methods so that the category counts
// stay in step with the line sequence.
type Hunk struct {
	StartPre  int
	StartPost int
	lines     []Line
	counts    Counts
}

// NewHunk creates a hunk anchored at the supplied 1-based start lines.
func NewHunk(startPre, startPost int, lines ...Line) *Hunk {
	ret := &Hunk{StartPre: startPre, StartPost: startPost}
	ret.Append(lines...)
	return ret
}

// Lines returns a copy of the hunk lines.
func (h *Hunk) Lines() []Line {
	ret := make([]Line, len(h.lines))
	copy(ret, h.lines)
	return ret
}

// Line returns the line at index i.
func (h *Hunk) Line(i int) Line {
	return h.lines[i]
}

// Len returns the number of lines.
func (h *Hunk) Len() int {
	return len(h.lines)
}

// Counts returns the per-type line counts.
func (h *Hunk) Counts() Counts {
	return h.counts
}

// PreLength returns the number of lines the hunk spans in the original file.
func (h *Hunk) PreLength() int {
	return h.counts.Retain + h.counts.Remove
}

// PostLength returns the number of lines the hunk spans in the resulting file.
func (h *Hunk) PostLength() int {
	return h.counts.Retain + h.counts.Add
}

// Append adds lines at the end of the hunk.
func (h *Hunk) Append(lines ...Line) {
	for _, line := range lines {
		h.lines = append(h.lines, line)
		h.counts.adjust(line.Type, 1)
	}
}

// Insert inserts a line before index i.
func (h *Hunk) Insert(i int, line Line) {
	h.lines = append(h.lines, Line{})
	copy(h.lines[i+1:], h.lines[i:])
	h.lines[i] = line
	h.counts.adjust(line.Type, 1)
}

// RemoveAt deletes the line at index i.
func (h *Hunk) RemoveAt(i int) {
	h.counts.adjust(h.lines[i].Type, -1)
	h.lines = append(h.lines[:i], h.lines[i+1:]...)
}

// SetType changes the type of the line at index i.
func (h *Hunk) SetType(i int, t LineType) {
	h.counts.adjust(h.lines[i].Type, -1)
	h.lines[i].Type = t
	h.counts.adjust(t, 1)
}

// Reset replaces all lines.
func (h *Hunk) Reset(lines []Line) {
	h.lines = nil
	h.counts = Counts{}
	h.Append(lines...)
}

// Shift moves both start lines by delta.
func (h *Hunk) Shift(delta int) {
	h.StartPre += delta
	h.StartPost += delta
}

// Clone returns a deep copy of the hunk.
func (h *Hunk) Clone() *Hunk {
	return NewHunk(h.StartPre, h.StartPost, h.lines...)
}

// Changes returns the number of added and removed lines.
func (h *Hunk) Changes() int {
	return h.counts.Add + h.counts.Remove
}

// IsEffective reports whether the hunk carries at least one non-blank change.
func (h *Hunk) IsEffective() bool {
	if h.Changes() == 0 {
		return false
	}
	for _, line := range h.lines {
		if line.IsChange() && strings.TrimSpace(line.Content) != "" {
			return true
		}
	}
	return false
}

// Validate recomputes the counts from the line sequence and reports a mismatch.
func (h *Hunk) Validate() error {
	var actual Counts
	for _, line := range h.lines {
		actual.adjust(line.Type, 1)
	}
	if actual != h.counts {
		return fmt.Errorf("hunk @@ -%d +%d @@: counts %+v do not match lines %+v", h.StartPre, h.StartPost, h.counts, actual)
	}
	return nil
}

// Header returns the "@@ -a,b +c,d @@" hunk header.
func (h *Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.StartPre, h.PreLength(), h.StartPost, h.PostLength())
}

// String renders the hunk header and body, each line newline terminated.
func (h *Hunk) String() string {
	builder := strings.Builder{}
	builder.WriteString(h.Header())
	builder.WriteByte('\n')
	for _, line := range h.lines {
		builder.WriteString(line.String())
		builder.WriteByte('\n')
	}
	return builder.String()
}
