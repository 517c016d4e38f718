package patch

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContextLines is the number of context lines around generated changes.
const DefaultContextLines = 3

// ErrNoChange is returned when both sides of a diff are identical.
var ErrNoChange = errors.New("no change between old and new")

// DiffStats captures basic statistics about unified-diff text.
type DiffStats struct {
	FilesChanged int `json:"filesChanged"`
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
	Hunks        int `json:"hunks"`
}

// DiffResult holds a generated patch and its statistics.
type DiffResult struct {
	Patch string    `json:"patch"`
	Stats DiffStats `json:"stats"`
}

// GenerateDiff produces a unified diff between old and new content with
// "a/" and "b/" prefixed file headers.
func GenerateDiff(old, new []byte, path string, contextLines int) (DiffResult, error) {
	if bytes.Equal(old, new) {
		return DiffResult{}, ErrNoChange
	}
	if path == "" {
		path = "file"
	}
	if contextLines <= 0 {
		contextLines = DefaultContextLines
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(old)),
		B:        difflib.SplitLines(string(new)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  contextLines,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return DiffResult{}, fmt.Errorf("diff generation: %w", err)
	}
	stats := statsOf(text)
	stats.FilesChanged = 1
	return DiffResult{Patch: text, Stats: stats}, nil
}

// statsOf counts hunks and changed lines of unified-diff text.
func statsOf(text string) DiffStats {
	stats := DiffStats{}
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.HasPrefix(line, "@@"):
			stats.Hunks++
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			stats.Insertions++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			stats.Deletions++
		}
	}
	return stats
}
