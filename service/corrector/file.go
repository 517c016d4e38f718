package corrector

import "strings"

// file is a 1-based line view of the target content.
type file struct {
	lines    []string
	contents map[string]bool
}

func (f *file) count() int {
	return len(f.lines)
}

func (f *file) line(number int) (string, bool) {
	if number < 1 || number > len(f.lines) {
		return "", false
	}
	return f.lines[number-1], true
}

func (f *file) contains(content string) bool {
	return f.contents[content]
}

func newFile(content string) *file {
	ret := &file{contents: map[string]bool{}}
	if content == "" {
		return ret
	}
	ret.lines = strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for _, line := range ret.lines {
		ret.contents[line] = true
	}
	return ret
}
