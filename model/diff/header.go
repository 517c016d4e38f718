package diff

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// HunkHeader is the parsed form of "@@ -a,b +c,d @@ section".
type HunkHeader struct {
	StartPre  int
	LenPre    int
	StartPost int
	LenPost   int
	Section   string
}

const (
	whitespaceCode = iota
	markerCode
	minusCode
	plusCode
	commaCode
	numberCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	markerToken     = parsly.NewToken(markerCode, "@@", matcher.NewFragment("@@"))
	minusToken      = parsly.NewToken(minusCode, "-", matcher.NewByte('-'))
	plusToken       = parsly.NewToken(plusCode, "+", matcher.NewByte('+'))
	commaToken      = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	numberToken     = parsly.NewToken(numberCode, "Number", &digitsMatcher{})
)

// digitsMatcher matches an unsigned decimal integer
type digitsMatcher struct{}

func (m *digitsMatcher) Match(cursor *parsly.Cursor) int {
	matched := 0
	for i := cursor.Pos; i < cursor.InputSize; i++ {
		if c := cursor.Input[i]; c < '0' || c > '9' {
			break
		}
		matched++
	}
	return matched
}

// ParseHeader parses a hunk header line. Missing lengths default to 1.
func ParseHeader(line string) (*HunkHeader, error) {
	cursor := parsly.NewCursor("", []byte(line), 0)
	matched := cursor.MatchOne(markerToken)
	if matched.Code != markerToken.Code {
		return nil, cursor.NewError(markerToken)
	}
	ret := &HunkHeader{}
	var err error
	if ret.StartPre, ret.LenPre, err = parseRange(cursor, minusToken); err != nil {
		return nil, err
	}
	if ret.StartPost, ret.LenPost, err = parseRange(cursor, plusToken); err != nil {
		return nil, err
	}
	matched = cursor.MatchAfterOptional(whitespaceToken, markerToken)
	if matched.Code != markerToken.Code {
		return nil, cursor.NewError(markerToken)
	}
	ret.Section = strings.TrimSpace(string(cursor.Input[cursor.Pos:]))
	return ret, nil
}

func parseRange(cursor *parsly.Cursor, sign *parsly.Token) (int, int, error) {
	matched := cursor.MatchAfterOptional(whitespaceToken, sign)
	if matched.Code != sign.Code {
		return 0, 0, cursor.NewError(sign)
	}
	start, err := parseNumber(cursor)
	if err != nil {
		return 0, 0, err
	}
	length := 1
	matched = cursor.MatchOne(commaToken)
	if matched.Code == commaToken.Code {
		if length, err = parseNumber(cursor); err != nil {
			return 0, 0, err
		}
	}
	return start, length, nil
}

func parseNumber(cursor *parsly.Cursor) (int, error) {
	matched := cursor.MatchOne(numberToken)
	if matched.Code != numberToken.Code {
		return 0, cursor.NewError(numberToken)
	}
	text := matched.Text(cursor)
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid line number %q: %w", text, err)
	}
	return value, nil
}
