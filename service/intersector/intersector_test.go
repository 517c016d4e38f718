package intersector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/fuzzypatch/model/diff"
)

const full = `--- a/src/index.ts
+++ b/src/index.ts
@@ -1,4 +1,2 @@
 import a from "a"
-import b from "b"
-import c from "c"
 import d from "d"
@@ -20,2 +18,3 @@
 function main() {
+  run()
 }
`

func hunkCount(patch string) int {
	return len(strings.Split(patch, "\n@@ -")) - 1
}

func TestIntersect(t *testing.T) {
	testCases := []struct {
		name     string
		full     string
		reject   string
		expected string
	}{
		{
			name: "split removals keep untouched imports as context",
			full: full,
			reject: `--- a/src/index.ts
+++ b/src/index.ts
@@ -1,2 +1,1 @@
 import a from "a"
-import b from "b"
@@ -3,2 +2,1 @@
-import c from "c"
 import d from "d"
`,
			expected: `--- a/src/index.ts
+++ b/src/index.ts
@@ -1,4 +1,2 @@
 import a from "a"
-import b from "b"
-import c from "c"
 import d from "d"
@@ -3,2 +2,1 @@
-import c from "c"
 import d from "d"
`,
		},
		{
			name: "reject order wins over reference order",
			full: full,
			reject: `--- a/src/index.ts.tmp
+++ b/src/index.ts.tmp
@@ -25,2 +25,3 @@
 function main() {
+  run()
 }
@@ -1,3 +1,1 @@
-import b from "b"
-import c from "c"
 import d from "d"
`,
			expected: `--- a/src/index.ts
+++ b/src/index.ts
@@ -20,2 +18,3 @@
 function main() {
+  run()
 }
@@ -1,4 +1,2 @@
 import a from "a"
-import b from "b"
-import c from "c"
 import d from "d"
`,
		},
		{
			name: "tie keeps the reject hunk",
			full: full,
			reject: `--- a/src/index.ts
+++ b/src/index.ts
@@ -2,1 +2,0 @@
-import b from "b"
`,
			expected: `--- a/src/index.ts
+++ b/src/index.ts
@@ -2,1 +2,0 @@
-import b from "b"
`,
		},
		{
			name: "more reject hunks than reference hunks",
			full: `--- a/f
+++ b/f
@@ -1,2 +1,2 @@
 keep
-x
+y
`,
			reject: `--- a/f
+++ b/f
@@ -1,3 +1,3 @@
 keep
-x
+y
@@ -9,2 +9,2 @@
 keep
-x
+y
`,
			expected: `--- a/f
+++ b/f
@@ -1,2 +1,2 @@
 keep
-x
+y
@@ -9,2 +9,2 @@
 keep
-x
+y
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := Intersect(tc.full, tc.reject)
			assert.Equal(t, tc.expected, actual)
			assert.Equal(t, hunkCount(tc.reject), hunkCount(actual))
		})
	}
}

func TestScore(t *testing.T) {
	rejected := diff.NewHunk(1, 1,
		diff.Line{Type: diff.Retain, Content: "  a"},
		diff.Line{Type: diff.Remove, Content: "b"},
		diff.Line{Type: diff.Add, Content: "c"},
		diff.Line{Type: diff.Retain, Content: "   "},
	)
	candidate := diff.NewHunk(1, 1,
		diff.Line{Type: diff.Retain, Content: "a"},
		diff.Line{Type: diff.Add, Content: "b"},
		diff.Line{Type: diff.Add, Content: "c"},
		diff.Line{Type: diff.Retain, Content: ""},
	)
	assert.Equal(t, 2, Score(rejected, candidate))
}
