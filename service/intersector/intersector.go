// Package intersector selects, for every hunk of a reject patch, the hunk of a
// reference patch that shares the most lines with it.
package intersector

import (
	"strings"

	"github.com/viant/fuzzypatch/model/diff"
)

// selfScore is the baseline score of a reject hunk standing in for itself.
const selfScore = 1

type candidate struct {
	hunk  *diff.Hunk
	index int // index in the reference patch, -1 for the reject hunk itself
	score int
}

// Intersect returns the reference hunks matching the reject hunks, in reject
// order, under the reference header. Matching is greedy per reject hunk; a
// reference hunk is used at most once and a reject hunk without a better
// match stands in for itself.
func Intersect(full, reject string) string {
	return IntersectDiff(diff.Parse(full), diff.Parse(reject)).String()
}

// IntersectDiff is Intersect over parsed diffs.
func IntersectDiff(full, reject *diff.Diff) *diff.Diff {
	ret := diff.New(full.FilenamePre, full.FilenamePost)
	used := make([]bool, len(full.Hunks))
	for _, rejected := range reject.Hunks {
		candidates := []candidate{{hunk: rejected, index: -1, score: selfScore}}
		for i, hunk := range full.Hunks {
			if used[i] {
				continue
			}
			candidates = append(candidates, candidate{hunk: hunk, index: i, score: Score(rejected, hunk)})
		}
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.score > best.score {
				best = c
			}
		}
		if best.index >= 0 {
			used[best.index] = true
		}
		ret.Append(best.hunk)
	}
	return ret
}

// Score counts the non-blank lines of rejected that have a line of the same
// type and trimmed content in candidate.
func Score(rejected, candidate *diff.Hunk) int {
	score := 0
	others := candidate.Lines()
	for _, line := range rejected.Lines() {
		content := strings.TrimSpace(line.Content)
		if content == "" {
			continue
		}
		for _, other := range others {
			if other.Type == line.Type && strings.TrimSpace(other.Content) == content {
				score++
				break
			}
		}
	}
	return score
}
