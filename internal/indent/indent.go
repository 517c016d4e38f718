// Package indent detects the dominant indentation unit of a text and rewrites
// leading whitespace between units.
package indent

import (
	"sort"
	"strings"
)

// Tab is the tab indentation unit.
const Tab = "\t"

// Detect returns the dominant indentation unit of text ("\t" or a run of
// spaces), or an empty string when no indented line is found.
func Detect(text string) string {
	return DetectLines(strings.Split(text, "\n"))
}

// DetectLines is Detect over already split lines.
func DetectLines(lines []string) string {
	tabLines, spaceLines := 0, 0
	deltas := map[int]int{}
	previous := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := leading(line)
		if strings.HasPrefix(lead, Tab) {
			tabLines++
			continue
		}
		width := len(lead) - len(strings.TrimLeft(lead, " "))
		if width > 0 {
			spaceLines++
		}
		delta := width - previous
		if delta < 0 {
			delta = -delta
		}
		if delta > 0 {
			deltas[delta]++
		}
		previous = width
	}
	if tabLines == 0 && len(deltas) == 0 {
		return ""
	}
	if tabLines >= spaceLines {
		return Tab
	}
	candidates := make([]int, 0, len(deltas))
	for delta := range deltas {
		candidates = append(candidates, delta)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if deltas[candidates[i]] == deltas[candidates[j]] {
			return candidates[i] < candidates[j]
		}
		return deltas[candidates[i]] > deltas[candidates[j]]
	})
	return strings.Repeat(" ", candidates[0])
}

// Convert rewrites every whole from unit found in the leading whitespace of
// line with the to unit; the remainder of the line is left untouched.
func Convert(line, from, to string) string {
	if from == "" || from == to {
		return line
	}
	lead := leading(line)
	if lead == "" {
		return line
	}
	builder := strings.Builder{}
	rest := lead
	for strings.HasPrefix(rest, from) {
		builder.WriteString(to)
		rest = rest[len(from):]
	}
	builder.WriteString(rest)
	builder.WriteString(line[len(lead):])
	return builder.String()
}

func leading(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
