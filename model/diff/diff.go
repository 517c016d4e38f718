package diff

import "strings"

const (
	preHeaderPrefix  = "--- a/"
	postHeaderPrefix = "+++ b/"
	tmpSuffix        = ".tmp"
)

// Diff is a single-file unified diff.
type Diff struct {
	FilenamePre  string
	FilenamePost string
	Hunks        []*Hunk
}

// Stats summarises the effective hunks of a diff.
type Stats struct {
	Hunks      int `json:"hunks"`
	Insertions int `json:"insertions"`
	Deletions  int `json:"deletions"`
}

// New creates an empty diff for the supplied file names.
func New(filenamePre, filenamePost string) *Diff {
	return &Diff{FilenamePre: filenamePre, FilenamePost: filenamePost}
}

// Append adds hunks in order.
func (d *Diff) Append(hunks ...*Hunk) {
	d.Hunks = append(d.Hunks, hunks...)
}

// Header returns the two file header lines.
func (d *Diff) Header() string {
	return preHeaderPrefix + d.FilenamePre + "\n" + postHeaderPrefix + d.FilenamePost + "\n"
}

// Effective returns the hunks that survive serialization.
func (d *Diff) Effective() []*Hunk {
	var ret []*Hunk
	for _, hunk := range d.Hunks {
		if hunk.IsEffective() {
			ret = append(ret, hunk)
		}
	}
	return ret
}

// Stats counts effective hunks and their changed lines.
func (d *Diff) Stats() Stats {
	var ret Stats
	for _, hunk := range d.Effective() {
		ret.Hunks++
		counts := hunk.Counts()
		ret.Insertions += counts.Add
		ret.Deletions += counts.Remove
	}
	return ret
}

// String serializes the diff; hunks without effective changes are omitted.
func (d *Diff) String() string {
	builder := strings.Builder{}
	builder.WriteString(d.Header())
	for _, hunk := range d.Effective() {
		builder.WriteString(strings.TrimRight(hunk.String(), "\n"))
		builder.WriteByte('\n')
	}
	return builder.String()
}
