package timetable

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// ParseLiteral parses a JavaScript object/array literal made of plain data into Go values:
// map[string]interface{}, []interface{}, string, float64, bool and nil.
//
// On top of JSON it accepts unquoted identifier keys, single-quoted and backtick strings
// (without ${} interpolation), trailing commas, comments, hex/octal/binary numbers,
// leading-dot and signed numbers, numeric separators, undefined, Infinity and NaN.
// Anything else (calls, references, spreads, computed keys) is rejected.
func ParseLiteral(src string) (interface{}, error) {
	p := &literalParser{src: src}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if err = p.skipSpace(); err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after literal", p.src[p.pos])
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrParseFailure, "offset %d: "+format, append([]interface{}{p.pos}, args...)...)
}

func (p *literalParser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *literalParser) eof() bool { return p.pos >= len(p.src) }

// skipSpace skips whitespace, line and block comments.
func (p *literalParser) skipSpace() error {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f':
			p.pos++
		case strings.HasPrefix(p.src[p.pos:], "\u00a0"), strings.HasPrefix(p.src[p.pos:], "\ufeff"):
			_, size := utf8.DecodeRuneInString(p.src[p.pos:])
			p.pos += size
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end == -1 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 1
			}
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end == -1 {
				return p.errorf("unterminated comment")
			}
			p.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (p *literalParser) parseValue() (interface{}, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	switch c := p.peek(); {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"' || c == '\'' || c == '`':
		return p.parseString()
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.parseNumber()
	case isIdentStart(p.src[p.pos:]):
		start := p.pos
		word := p.parseIdentifier()
		switch word {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "null", "undefined":
			return nil, nil
		case "Infinity":
			return math.Inf(1), nil
		case "NaN":
			return math.NaN(), nil
		}
		p.pos = start
		return nil, p.errorf("unsupported expression %q", word)
	default:
		return nil, p.errorf("unexpected %q", c)
	}
}

func (p *literalParser) parseObject() (interface{}, error) {
	p.pos++ // {
	obj := make(map[string]interface{})
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == '}' {
			p.pos++
			return obj, nil
		}

		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		if err = p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj[key] = val

		if err = p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *literalParser) parseKey() (string, error) {
	if p.eof() {
		return "", p.errorf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '"' || c == '\'':
		return p.parseString()
	case isDigit(c) || c == '.':
		n, err := p.parseNumber()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(n.(float64), 'f', -1, 64), nil
	case isIdentStart(p.src[p.pos:]):
		return p.parseIdentifier(), nil
	default:
		return "", p.errorf("unexpected %q in object key", c)
	}
}

func (p *literalParser) parseArray() (interface{}, error) {
	p.pos++ // [
	arr := make([]interface{}, 0)
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.peek() == ']' {
			p.pos++
			return arr, nil
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)

		if err = p.skipSpace(); err != nil {
			return nil, err
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' in array")
		}
	}
}

func (p *literalParser) parseString() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var sb strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\':
			p.pos++
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		case quote == '`' && strings.HasPrefix(p.src[p.pos:], "${"):
			return "", p.errorf("template interpolation is not supported")
		case (c == '\n' || c == '\r') && quote != '`':
			return "", p.errorf("newline in string")
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
}

func (p *literalParser) parseEscape(sb *strings.Builder) error {
	if p.eof() {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case '\r': // line continuation
		if p.peek() == '\n' {
			p.pos++
		}
	case '\n':
	case 'x':
		r, err := p.parseHex(2)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	case 'u':
		r, err := p.parseUnicodeEscape()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(p.src[p.pos:], `\u`) {
			save := p.pos
			p.pos += 2
			if r2, err := p.parseUnicodeEscape(); err == nil && utf16.DecodeRune(r, r2) != unicode.ReplacementChar {
				r = utf16.DecodeRune(r, r2)
			} else {
				p.pos = save
			}
		}
		sb.WriteRune(r)
	default:
		// \' \" \\ \/ \` and any other escaped character stand for themselves
		p.pos--
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		sb.WriteRune(r)
		p.pos += size
	}
	return nil
}

func (p *literalParser) parseUnicodeEscape() (rune, error) {
	if p.peek() != '{' {
		return p.parseHex(4)
	}
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 2 {
		return 0, p.errorf("invalid unicode escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos+1:p.pos+end], 16, 32)
	if err != nil || n > unicode.MaxRune {
		return 0, p.errorf("invalid unicode escape")
	}
	p.pos += end + 1
	return rune(n), nil
}

func (p *literalParser) parseHex(digits int) (rune, error) {
	if p.pos+digits > len(p.src) {
		return 0, p.errorf("invalid hex escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid hex escape")
	}
	p.pos += digits
	return rune(n), nil
}

func (p *literalParser) parseNumber() (interface{}, error) {
	start := p.pos
	sign := 1.0
	if c := p.peek(); c == '-' || c == '+' {
		if c == '-' {
			sign = -1
		}
		p.pos++
	}

	if strings.HasPrefix(p.src[p.pos:], "Infinity") {
		p.pos += len("Infinity")
		return sign * math.Inf(1), nil
	}

	if p.peek() == '0' && p.pos+1 < len(p.src) {
		base := 0
		switch p.src[p.pos+1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			p.pos += 2
			digitsStart := p.pos
			for !p.eof() && (isHexDigit(p.peek()) || p.peek() == '_') {
				p.pos++
			}
			n, err := strconv.ParseUint(strings.ReplaceAll(p.src[digitsStart:p.pos], "_", ""), base, 64)
			if err != nil {
				p.pos = start
				return nil, p.errorf("invalid number")
			}
			return sign * float64(n), nil
		}
	}

	digitsStart := p.pos
	for !p.eof() {
		c := p.peek()
		if isDigit(c) || c == '.' || c == '_' {
			p.pos++
			continue
		}
		if c == 'e' || c == 'E' {
			p.pos++
			if s := p.peek(); s == '+' || s == '-' {
				p.pos++
			}
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(p.src[digitsStart:p.pos], "_", ""), 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number")
	}
	return sign * n, nil
}

func (p *literalParser) parseIdentifier() string {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		p.pos += size
	}
	return p.src[start:p.pos]
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
