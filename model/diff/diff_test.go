package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name         string
		patch        string
		filenamePre  string
		filenamePost string
		hunks        []*Hunk
	}{
		{
			name: "single hunk",
			patch: `--- a/src/app.ts
+++ b/src/app.ts
@@ -1,3 +1,3 @@
 import a
-import b
+import c
 end
`,
			filenamePre:  "src/app.ts",
			filenamePost: "src/app.ts",
			hunks: []*Hunk{
				NewHunk(1, 1,
					Line{Type: Retain, Content: "import a"},
					Line{Type: Remove, Content: "import b"},
					Line{Type: Add, Content: "import c"},
					Line{Type: Retain, Content: "end"},
				),
			},
		},
		{
			name: "tmp suffix and omitted lengths",
			patch: `diff --git a/x b/x
--- a/lib/util.go.tmp
+++ b/lib/util.go.tmp
@@ -7 +7 @@ func main() {
-a
+b
`,
			filenamePre:  "lib/util.go",
			filenamePost: "lib/util.go",
			hunks: []*Hunk{
				NewHunk(7, 7,
					Line{Type: Remove, Content: "a"},
					Line{Type: Add, Content: "b"},
				),
			},
		},
		{
			name: "malformed header is skipped",
			patch: `--- a/f.txt
+++ b/f.txt
@@ -x,2 +1,2 @@
-dropped
+dropped too
@@ -10,2 +10,2 @@
-kept
+kept too
`,
			filenamePre:  "f.txt",
			filenamePost: "f.txt",
			hunks: []*Hunk{
				NewHunk(10, 10,
					Line{Type: Remove, Content: "kept"},
					Line{Type: Add, Content: "kept too"},
				),
			},
		},
		{
			name:  "no header",
			patch: "@@ -1,1 +1,1 @@\n-a\n+b\n",
			hunks: []*Hunk{
				NewHunk(1, 1,
					Line{Type: Remove, Content: "a"},
					Line{Type: Add, Content: "b"},
				),
			},
		},
		{
			name:  "empty",
			patch: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := Parse(tc.patch)
			assert.Equal(t, tc.filenamePre, actual.FilenamePre)
			assert.Equal(t, tc.filenamePost, actual.FilenamePost)
			if !assert.Equal(t, len(tc.hunks), len(actual.Hunks)) {
				return
			}
			for i, expected := range tc.hunks {
				hunk := actual.Hunks[i]
				assert.Equal(t, expected.StartPre, hunk.StartPre)
				assert.Equal(t, expected.StartPost, hunk.StartPost)
				assert.Equal(t, expected.Lines(), hunk.Lines())
				assert.Equal(t, expected.Counts(), hunk.Counts())
				assert.NoError(t, hunk.Validate())
			}
		})
	}
}

func TestDiff_String(t *testing.T) {
	testCases := []struct {
		name     string
		diff     *Diff
		expected string
	}{
		{
			name: "lengths derived from lines",
			diff: &Diff{FilenamePre: "a.txt", FilenamePost: "a.txt", Hunks: []*Hunk{
				NewHunk(3, 4,
					Line{Type: Retain, Content: "one"},
					Line{Type: Remove, Content: "two"},
					Line{Type: Remove, Content: "three"},
					Line{Type: Add, Content: "four"},
					Line{Type: Retain, Content: ""},
				),
			}},
			expected: "--- a/a.txt\n+++ b/a.txt\n@@ -3,4 +4,3 @@\n one\n-two\n-three\n+four\n \n",
		},
		{
			name: "pure context hunk dropped",
			diff: &Diff{FilenamePre: "a.txt", FilenamePost: "a.txt", Hunks: []*Hunk{
				NewHunk(1, 1, Line{Type: Retain, Content: "x"}, Line{Type: Retain, Content: "y"}),
			}},
			expected: "--- a/a.txt\n+++ b/a.txt\n",
		},
		{
			name: "blank only changes dropped",
			diff: &Diff{FilenamePre: "a.txt", FilenamePost: "a.txt", Hunks: []*Hunk{
				NewHunk(1, 1,
					Line{Type: Retain, Content: "x"},
					Line{Type: Add, Content: ""},
					Line{Type: Remove, Content: "   "},
				),
			}},
			expected: "--- a/a.txt\n+++ b/a.txt\n",
		},
		{
			name: "hunk order preserved",
			diff: &Diff{FilenamePre: "a", FilenamePost: "b", Hunks: []*Hunk{
				NewHunk(9, 9, Line{Type: Add, Content: "late"}),
				NewHunk(1, 1, Line{Type: Remove, Content: "early"}),
			}},
			expected: "--- a/a\n+++ b/b\n@@ -9,0 +9,1 @@\n+late\n@@ -1,1 +1,0 @@\n-early\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.diff.String())
		})
	}
}

func TestDiff_RoundTrip(t *testing.T) {
	patches := []string{
		"--- a/src/app.ts\n+++ b/src/app.ts\n@@ -1,3 +1,3 @@\n import a\n-import b\n+import c\n end\n",
		"--- a/x.go\n+++ b/x.go\n@@ -10,2 +10,3 @@ func x() {\n \treturn\n+\t// done\n }\n@@ -40,1 +41,0 @@\n-gone\n",
		"--- a/y\n+++ b/y\n@@ -1 +1,2 @@\n+first\n \n",
	}
	for _, patch := range patches {
		once := Parse(patch).String()
		assert.Equal(t, once, Parse(once).String())
	}
}

func TestParse_WithIndent(t *testing.T) {
	patch := `--- a/main.go
+++ b/main.go
@@ -1,4 +1,4 @@
 func a() {
-    return 1
+    return 2
+        // nested
 }
`
	testCases := []struct {
		name     string
		unit     string
		expected []string
	}{
		{
			name:     "spaces to tabs",
			unit:     "\t",
			expected: []string{"func a() {", "\treturn 1", "\treturn 2", "\t\t// nested", "}"},
		},
		{
			name:     "same unit",
			unit:     "    ",
			expected: []string{"func a() {", "    return 1", "    return 2", "        // nested", "}"},
		},
		{
			name:     "spaces to two spaces",
			unit:     "  ",
			expected: []string{"func a() {", "  return 1", "  return 2", "    // nested", "}"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed := Parse(patch, WithIndent(tc.unit))
			var actual []string
			for _, line := range parsed.Hunks[0].Lines() {
				actual = append(actual, line.Content)
			}
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestDiff_Stats(t *testing.T) {
	parsed := Parse("--- a/f\n+++ b/f\n@@ -1,2 +1,2 @@\n-a\n+b\n c\n@@ -9,1 +9,1 @@\n x\n")
	assert.Equal(t, Stats{Hunks: 1, Insertions: 1, Deletions: 1}, parsed.Stats())
}
