// Package similarity scores how closely two lines of text match.
//
// Letters weigh the most, digits and dots less, and whitespace or punctuation
// barely count, so indentation or punctuation drift keeps a score near 1 while
// a renamed identifier does not.
package similarity

import "unicode"

const (
	letterWeight = 3.0
	digitWeight  = 1.0
	otherWeight  = 0.1
)

// Weight returns the edit cost of a single character.
func Weight(r rune) float64 {
	switch {
	case unicode.IsLetter(r):
		return letterWeight
	case unicode.IsDigit(r) || r == '.':
		return digitWeight
	default:
		return otherWeight
	}
}

// Weighted returns a similarity in [0, 1] computed from a character-weighted
// Levenshtein distance normalised by the longest string at letter weight.
func Weighted(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	distance := Distance(ra, rb)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	ret := 1 - distance/(float64(longest)*letterWeight)
	if ret < 0 {
		return 0
	}
	return ret
}

// Distance returns the weighted edit distance between a and b. Inserting or
// deleting a character costs its weight; substituting costs the larger of the
// two weights.
func Distance(a, b []rune) float64 {
	previous := make([]float64, len(b)+1)
	current := make([]float64, len(b)+1)
	for j := 1; j <= len(b); j++ {
		previous[j] = previous[j-1] + Weight(b[j-1])
	}
	for i := 1; i <= len(a); i++ {
		wa := Weight(a[i-1])
		current[0] = previous[0] + wa
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				current[j] = previous[j-1]
				continue
			}
			wb := Weight(b[j-1])
			substitute := previous[j-1] + max(wa, wb)
			remove := previous[j] + wa
			insert := current[j-1] + wb
			current[j] = min(substitute, remove, insert)
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}
