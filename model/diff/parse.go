package diff

import (
	"log"
	"strings"

	"github.com/viant/fuzzypatch/internal/indent"
)

// Option customises parsing.
type Option func(o *options)

type options struct {
	indent string
}

// WithIndent rewrites the patch indentation to the target indentation unit
// when the two differ. An empty unit disables the rewrite.
func WithIndent(unit string) Option {
	return func(o *options) {
		o.indent = unit
	}
}

// Parse parses single-file unified-diff text. Malformed hunk headers are
// logged and skipped together with the lines that follow them.
func Parse(text string, opts ...Option) *Diff {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	ret := &Diff{}
	var current *Hunk
	preFound, headerDone := false, false
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if !headerDone {
			switch {
			case !preFound && strings.HasPrefix(line, preHeaderPrefix):
				ret.FilenamePre = fileName(line, preHeaderPrefix)
				preFound = true
				continue
			case strings.HasPrefix(line, postHeaderPrefix):
				ret.FilenamePost = fileName(line, postHeaderPrefix)
				headerDone = true
				continue
			}
		}
		if strings.HasPrefix(line, "@@") {
			headerDone = true
			if current != nil {
				ret.Hunks = append(ret.Hunks, current)
				current = nil
			}
			header, err := ParseHeader(line)
			if err != nil {
				log.Printf("diff: skipping malformed hunk header %q: %v", line, err)
				continue
			}
			current = &Hunk{StartPre: header.StartPre, StartPost: header.StartPost}
			continue
		}
		if current != nil {
			current.Append(lineOf(line))
		}
	}
	if current != nil {
		ret.Hunks = append(ret.Hunks, current)
	}
	if o.indent != "" {
		ret.reindent(o.indent)
	}
	return ret
}

func fileName(line, prefix string) string {
	return strings.TrimSuffix(strings.TrimPrefix(line, prefix), tmpSuffix)
}

// reindent detects the patch's own indentation unit from its hunk bodies and
// converts each line's leading whitespace to unit.
func (d *Diff) reindent(unit string) {
	var contents []string
	for _, hunk := range d.Hunks {
		for _, line := range hunk.lines {
			contents = append(contents, line.Content)
		}
	}
	own := indent.DetectLines(contents)
	if own == "" || own == unit {
		return
	}
	for _, hunk := range d.Hunks {
		lines := hunk.Lines()
		for i := range lines {
			lines[i].Content = indent.Convert(lines[i].Content, own, unit)
		}
		hunk.Reset(lines)
	}
}
