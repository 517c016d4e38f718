package indent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "tabs", text: "func a() {\n\treturn\n\tif x {\n\t\ty()\n\t}\n}\n", expected: "\t"},
		{name: "two spaces", text: "a:\n  b:\n    c: 1\n  d: 2\n", expected: "  "},
		{name: "four spaces", text: "def f():\n    if x:\n        return 1\n    return 2\n", expected: "    "},
		{name: "none", text: "one\ntwo\n\nthree\n", expected: ""},
		{name: "empty", text: "", expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Detect(tc.text))
		})
	}
}

func TestConvert(t *testing.T) {
	testCases := []struct {
		name     string
		line     string
		from     string
		to       string
		expected string
	}{
		{name: "spaces to tab", line: "        x := 1", from: "    ", to: "\t", expected: "\t\tx := 1"},
		{name: "partial unit kept", line: "      x", from: "    ", to: "\t", expected: "\t  x"},
		{name: "inner spaces untouched", line: "    a    b", from: "    ", to: "  ", expected: "  a    b"},
		{name: "tab to spaces", line: "\tx", from: "\t", to: "  ", expected: "  x"},
		{name: "no indent", line: "x", from: "\t", to: "  ", expected: "x"},
		{name: "same unit", line: "  x", from: "  ", to: "  ", expected: "  x"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Convert(tc.line, tc.from, tc.to))
		})
	}
}
