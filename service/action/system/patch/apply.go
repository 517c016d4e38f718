package patch

import (
	"context"
	"fmt"
	"strings"

	sgdiff "github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

// Reject holds the hunks of one file that could not be applied, as
// unified-diff text.
type Reject struct {
	URL   string `json:"url"`
	Patch string `json:"patch"`
}

// ApplyResult summarises a patch application.
type ApplyResult struct {
	Stats   DiffStats `json:"stats"`
	Rejects []Reject  `json:"rejects,omitempty"`
}

// ApplyPatch applies a multi-file unified diff. Hunks are applied
// independently; a hunk whose context or removed lines do not match is
// rejected and the rest of the file is still patched.
func (s *Session) ApplyPatch(ctx context.Context, patchText string) (*ApplyResult, error) {
	fileDiffs, err := sgdiff.ParseMultiFileDiff([]byte(patchText))
	if err != nil {
		return nil, fmt.Errorf("parse patch: %w", err)
	}
	ret := &ApplyResult{}
	for _, fileDiff := range fileDiffs {
		if err = s.applyFile(ctx, fileDiff, ret); err != nil {
			return ret, err
		}
	}
	return ret, nil
}

func (s *Session) applyFile(ctx context.Context, fileDiff *sgdiff.FileDiff, result *ApplyResult) error {
	orig := s.URL(strings.TrimPrefix(fileDiff.OrigName, "a/"))
	newer := s.URL(strings.TrimPrefix(fileDiff.NewName, "b/"))

	switch {
	case fileDiff.OrigName == devNull && fileDiff.NewName != devNull:
		content, applied, rejected := applyHunks(nil, fileDiff.Hunks)
		if len(applied) > 0 {
			if err := s.Add(ctx, newer, content); err != nil {
				return err
			}
			result.count(applied)
		}
		return result.reject(newer, fileDiff, rejected)
	case fileDiff.NewName == devNull && fileDiff.OrigName != devNull:
		if err := s.Delete(ctx, orig); err != nil {
			return err
		}
		result.count(fileDiff.Hunks)
		return nil
	case orig != newer && len(fileDiff.Hunks) == 0:
		if err := s.Move(ctx, orig, newer); err != nil {
			return err
		}
		result.Stats.FilesChanged++
		return nil
	}

	data, err := s.fs.DownloadWithURL(ctx, orig)
	if err != nil {
		return fmt.Errorf("read %v: %w", orig, err)
	}
	content, applied, rejected := applyHunks(data, fileDiff.Hunks)
	target := orig
	if orig != newer {
		if err = s.Move(ctx, orig, newer); err != nil {
			return err
		}
		target = newer
	}
	if len(applied) > 0 {
		if err = s.Update(ctx, target, content); err != nil {
			return err
		}
		result.count(applied)
	}
	return result.reject(target, fileDiff, rejected)
}

func (r *ApplyResult) count(hunks []*sgdiff.Hunk) {
	r.Stats.FilesChanged++
	for _, hunk := range hunks {
		stats := statsOf(string(hunk.Body))
		r.Stats.Hunks++
		r.Stats.Insertions += stats.Insertions
		r.Stats.Deletions += stats.Deletions
	}
}

func (r *ApplyResult) reject(URL string, fileDiff *sgdiff.FileDiff, hunks []*sgdiff.Hunk) error {
	if len(hunks) == 0 {
		return nil
	}
	rejected := &sgdiff.FileDiff{OrigName: fileDiff.OrigName, NewName: fileDiff.NewName, Hunks: hunks}
	text, err := sgdiff.PrintFileDiff(rejected)
	if err != nil {
		return fmt.Errorf("print rejects %v: %w", URL, err)
	}
	r.Rejects = append(r.Rejects, Reject{URL: URL, Patch: string(text)})
	return nil
}

type bodyLine struct {
	tag  byte
	text string
}

func bodyLines(hunk *sgdiff.Hunk) []bodyLine {
	var ret []bodyLine
	for _, raw := range strings.Split(strings.TrimSuffix(string(hunk.Body), "\n"), "\n") {
		if raw == "" {
			ret = append(ret, bodyLine{tag: ' '})
			continue
		}
		if raw[0] == '\\' { // "\ No newline at end of file"
			continue
		}
		ret = append(ret, bodyLine{tag: raw[0], text: raw[1:]})
	}
	return ret
}

// applyHunks applies every hunk that matches the content at its (shifted)
// origin and returns the patched content with the applied and rejected hunks.
func applyHunks(data []byte, hunks []*sgdiff.Hunk) ([]byte, []*sgdiff.Hunk, []*sgdiff.Hunk) {
	text := string(data)
	trailingNewline := text == "" || strings.HasSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	}
	var applied, rejected []*sgdiff.Hunk
	delta := 0
	for _, hunk := range hunks {
		start := int(hunk.OrigStartLine) - 1 + delta
		if hunk.OrigLines == 0 {
			start = int(hunk.OrigStartLine) + delta
		}
		body := bodyLines(hunk)
		replacement, ok := replace(lines, start, body)
		if !ok {
			rejected = append(rejected, hunk)
			continue
		}
		consumed := 0
		for _, line := range body {
			if line.tag != '+' {
				consumed++
			}
		}
		lines = append(lines[:start], append(replacement, lines[start+consumed:]...)...)
		delta += len(replacement) - consumed
		applied = append(applied, hunk)
	}
	ret := strings.Join(lines, "\n")
	if trailingNewline && len(lines) > 0 {
		ret += "\n"
	}
	return []byte(ret), applied, rejected
}

// replace verifies body against lines at start and returns the lines that
// take their place.
func replace(lines []string, start int, body []bodyLine) ([]string, bool) {
	if start < 0 || start > len(lines) {
		return nil, false
	}
	var ret []string
	index := start
	for _, line := range body {
		switch line.tag {
		case ' ', '-':
			if index >= len(lines) || lines[index] != line.text {
				return nil, false
			}
			if line.tag == ' ' {
				ret = append(ret, line.text)
			}
			index++
		case '+':
			ret = append(ret, line.text)
		default:
			return nil, false
		}
	}
	return ret, true
}
