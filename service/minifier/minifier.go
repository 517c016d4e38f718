// Package minifier splits patch hunks into the smallest contiguous change
// batches.
package minifier

import "github.com/viant/fuzzypatch/model/diff"

// Minify splits every hunk into minimal change batches and drops batches
// without changes.
func Minify(patch string) string {
	return MinifyDiff(diff.Parse(patch)).String()
}

// MinifyDiff is Minify over a parsed diff.
//
// Each hunk is scanned as alternating batches: a run of retain/add lines,
// kept only when it adds something, followed by a run of remove lines, always
// kept. A batch is anchored at the hunk start plus the index of its first line.
func MinifyDiff(patch *diff.Diff) *diff.Diff {
	ret := diff.New(patch.FilenamePre, patch.FilenamePost)
	for _, hunk := range patch.Hunks {
		ret.Append(split(hunk)...)
	}
	return ret
}

func split(hunk *diff.Hunk) []*diff.Hunk {
	var ret []*diff.Hunk
	lines := hunk.Lines()
	for i := 0; i < len(lines); {
		start := i
		batch := diff.NewHunk(hunk.StartPre+start, hunk.StartPost+start)
		for ; i < len(lines) && lines[i].Type != diff.Remove; i++ {
			batch.Append(lines[i])
		}
		if batch.Counts().Add > 0 {
			ret = append(ret, batch)
		}

		start = i
		batch = diff.NewHunk(hunk.StartPre+start, hunk.StartPost+start)
		for ; i < len(lines) && lines[i].Type == diff.Remove; i++ {
			batch.Append(lines[i])
		}
		if batch.Len() > 0 {
			ret = append(ret, batch)
		}
	}
	return ret
}
