package timetable

import (
	"strings"

	"github.com/pkg/errors"
)

// DataMarker precedes the object literal holding the timetable in a markup document.
const DataMarker = "export const data ="

// ExtractLiteral returns the source of the object literal assigned after DataMarker in text.
// It returns ErrNotFound when the marker is absent and ErrParseFailure when the braces never balance.
func ExtractLiteral(text string) (string, error) {
	start := strings.Index(text, DataMarker)
	if start == -1 {
		return "", errors.Wrap(ErrNotFound, "data marker not found")
	}
	eq := start + strings.Index(text[start:], "=")
	candidate := strings.TrimSpace(text[eq+1:])

	end := closingBraceIndex(candidate)
	if end == -1 {
		return "", errors.Wrap(ErrParseFailure, "unbalanced object literal")
	}
	return candidate[:end+1], nil
}

// closingBraceIndex returns the index of the brace closing the first brace opened in s,
// ignoring braces inside single or double quoted strings, or -1.
func closingBraceIndex(s string) int {
	var (
		depth   int
		opened  bool
		quote   byte // current string delimiter, 0 outside strings
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
			opened = true
		case '}':
			depth--
			if opened && depth == 0 {
				return i
			}
		}
	}
	return -1
}
