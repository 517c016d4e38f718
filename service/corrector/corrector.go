// Package corrector re-anchors unified-diff hunks against the current content
// of the file they target and drops instructions the file already satisfies.
package corrector

import (
	"sort"

	"github.com/viant/fuzzypatch/internal/indent"
	"github.com/viant/fuzzypatch/internal/similarity"
	"github.com/viant/fuzzypatch/model/diff"
)

const (
	// DefaultFuzzyThreshold is the minimum similarity of a fuzzy anchor.
	DefaultFuzzyThreshold = 0.9
	// DefaultSearchFactor bounds the spiral search to factor × line count attempts.
	DefaultSearchFactor = 2
)

// Service corrects patches; it holds no per-call state and is safe for
// concurrent use.
type Service struct {
	fuzzyThreshold  float64
	searchFactor    int
	normalizeIndent bool
	parseOptions    []diff.Option
}

// Correct re-anchors and cleans patchText against target. It returns false
// when no effective hunk remains.
func (s *Service) Correct(patchText, target string) (string, bool) {
	options := s.parseOptions
	if s.normalizeIndent {
		if unit := indent.Detect(target); unit != "" {
			options = append(options[:len(options):len(options)], diff.WithIndent(unit))
		}
	}
	patch := diff.Parse(patchText, options...)
	file := newFile(target)
	sort.SliceStable(patch.Hunks, func(i, j int) bool {
		return patch.Hunks[i].StartPre < patch.Hunks[j].StartPre
	})
	for _, hunk := range patch.Hunks {
		s.anchor(hunk, file)
		resolve(hunk, file)
	}
	if len(patch.Effective()) == 0 {
		return "", false
	}
	return patch.String(), true
}

// anchor moves the hunk to where its first matching pre-edit line sits in the
// file. Offsets are tried in spiral order: 0, +1, -1, +2, -2, ...
func (s *Service) anchor(hunk *diff.Hunk, file *file) {
	attempts := s.searchFactor * file.count()
	scanned := 0
	for _, line := range hunk.Lines() {
		if line.Type == diff.Add {
			continue
		}
		var fuzzy []candidate
		for i := 0; i < attempts; i++ {
			offset := spiral(i)
			content, ok := file.line(hunk.StartPre + offset)
			if !ok {
				continue
			}
			score := similarity.Weighted(line.Content, content)
			if score == 1 {
				hunk.Shift(offset - scanned)
				return
			}
			if score >= s.fuzzyThreshold {
				fuzzy = append(fuzzy, candidate{offset: offset, score: score})
			}
		}
		if len(fuzzy) > 0 {
			sort.SliceStable(fuzzy, func(i, j int) bool {
				return fuzzy[i].score > fuzzy[j].score
			})
			hunk.Shift(fuzzy[0].offset - scanned)
			return
		}
		scanned++
	}
}

// resolve turns additions already present in the file into context and drops
// the stale removals directly in front of them.
func resolve(hunk *diff.Hunk, file *file) {
	lines := hunk.Lines()
	resolved := make([]diff.Line, 0, len(lines))
	changed := false
	for _, line := range lines {
		if line.Type != diff.Add || !file.contains(line.Content) {
			resolved = append(resolved, line)
			continue
		}
		for len(resolved) > 0 {
			last := resolved[len(resolved)-1]
			if last.Type != diff.Remove || file.contains(last.Content) {
				break
			}
			resolved = resolved[:len(resolved)-1]
		}
		resolved = append(resolved, diff.Line{Type: diff.Retain, Content: line.Content})
		changed = true
	}
	if changed {
		hunk.Reset(resolved)
	}
}

type candidate struct {
	offset int
	score  float64
}

// spiral maps an attempt index to an offset: 0, 1, -1, 2, -2, ...
func spiral(i int) int {
	if i%2 == 1 {
		return (i + 1) / 2
	}
	return -i / 2
}

// New creates a corrector.
func New(opts ...Option) *Service {
	ret := &Service{
		fuzzyThreshold: DefaultFuzzyThreshold,
		searchFactor:   DefaultSearchFactor,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Correct corrects patchText with the default settings.
func Correct(patchText, target string) (string, bool) {
	return New().Correct(patchText, target)
}
