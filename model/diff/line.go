package diff

// LineType classifies a hunk line.
type LineType int

const (
	// Retain is an unchanged context line.
	Retain LineType = iota
	// Add is a line introduced by the patch.
	Add
	// Remove is a line deleted by the patch.
	Remove
)

// String returns the line type name.
func (t LineType) String() string {
	switch t {
	case Retain:
		return "retain"
	case Add:
		return "add"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// Prefix returns the unified-diff marker for this line type.
func (t LineType) Prefix() string {
	switch t {
	case Add:
		return "+"
	case Remove:
		return "-"
	default:
		return " "
	}
}

// Line is a single hunk line with its marker stripped.
type Line struct {
	Type    LineType
	Content string
}

// IsChange reports whether the line adds or removes content.
func (l Line) IsChange() bool {
	return l.Type == Add || l.Type == Remove
}

func (l Line) String() string {
	return l.Type.Prefix() + l.Content
}

func lineOf(raw string) Line {
	if raw == "" {
		return Line{Type: Retain}
	}
	switch raw[0] {
	case '+':
		return Line{Type: Add, Content: raw[1:]}
	case '-':
		return Line{Type: Remove, Content: raw[1:]}
	default:
		return Line{Type: Retain, Content: raw[1:]}
	}
}
