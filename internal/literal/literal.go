// Package literal parses the Python literal notation the qpb tool has always
// accepted on its command line, e.g. {1: 150, 2: 'x', 3: b'\x00', 4: [1, 2]},
// into a value tree.
//
// Supported: integers (decimal, 0x, 0o, 0b, underscores, unary signs),
// True and False as 1 and 0, str and bytes literals with their usual
// prefixes and escapes, lists and dicts keyed by non-negative integers.
// Parentheses only group. None, floats, tuples and sets are rejected.
package literal

import (
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/qpbtools/qpb/value"
)

// ErrSyntax is wrapped by every error Parse returns.
var ErrSyntax = errors.New("invalid literal")

// maxNesting bounds bracket nesting so hostile input cannot exhaust the stack.
const maxNesting = 1000

// Parse parses src as a single literal. Surrounding whitespace and
// #-comments are ignored.
func Parse(src string) (value.Value, error) {
	p := &parser{src: src}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing input %q", p.rest(10))
	}
	return v, nil
}

// ParseMessage is Parse for input that must be a dict.
func ParseMessage(src string) (*value.Message, error) {
	v, err := Parse(src)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*value.Message)
	if !ok {
		return nil, errors.Wrapf(ErrSyntax, "expected a dict, got %s", v)
	}
	return m, nil
}

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return p.errorAt(p.pos, format, args...)
}

func (p *parser) errorAt(pos int, format string, args ...interface{}) error {
	return errors.Wrapf(ErrSyntax, "at offset %d: "+format, append([]interface{}{pos}, args...)...)
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) rest(n int) string {
	if len(p.src)-p.pos < n {
		return p.src[p.pos:]
	}
	return p.src[p.pos:p.pos+n] + "..."
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '#':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == '\\' && strings.HasPrefix(p.src[p.pos:], "\\\n"):
			p.pos += 2
		default:
			return
		}
	}
}

// consume skips whitespace and then c if it is next.
func (p *parser) consume(c byte) bool {
	p.skipSpace()
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return p.errorf("nesting deeper than %d", maxNesting)
	}
	return nil
}

func (p *parser) parseValue() (value.Value, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}
	start := p.pos
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.parseDict()
	case c == '[':
		return p.parseList()
	case c == '(':
		return p.parseParen()
	case c == '\'' || c == '"':
		return p.parseString("")
	case c == '-' || c == '+':
		p.pos++
		if err := p.enter(); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		p.depth--
		if err != nil {
			return nil, err
		}
		i, ok := v.(value.Integer)
		if !ok {
			return nil, p.errorAt(start, "bad operand for unary %c: %s", c, v)
		}
		if c == '-' {
			return value.BigInt(new(big.Int).Neg(i.Big())), nil
		}
		return i, nil
	case c == '.':
		return nil, p.errorf("floats are not supported")
	case isDigit(c):
		return p.parseNumber()
	case isIdentStart(c):
		word := p.ident()
		if !p.eof() && (p.src[p.pos] == '\'' || p.src[p.pos] == '"') {
			switch prefix := strings.ToLower(word); prefix {
			case "b", "r", "u", "rb", "br":
				return p.parseString(prefix)
			}
		}
		switch word {
		case "True":
			return value.Int(1), nil
		case "False":
			return value.Int(0), nil
		case "None":
			return nil, p.errorAt(start, "None is not supported")
		}
		return nil, p.errorAt(start, "unknown name %q", word)
	default:
		r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
		return nil, p.errorf("unexpected character %q", r)
	}
}

func (p *parser) parseDict() (value.Value, error) {
	p.pos++
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	msg := value.NewMessage()
	for {
		if p.consume('}') {
			return msg, nil
		}
		p.skipSpace()
		keyPos := p.pos
		k, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		key, ok := k.(value.Integer)
		if !ok {
			return nil, p.errorAt(keyPos, "field number must be an integer, got %s", k)
		}
		if key.Sign() < 0 || !key.Big().IsUint64() {
			return nil, p.errorAt(keyPos, "field number %s out of range", key)
		}
		if !p.consume(':') {
			return nil, p.errorf("expected ':' after dict key")
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		msg.Set(value.FieldNumber(key.Big().Uint64()), v)

		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			return msg, nil
		}
		return nil, p.errorf("expected ',' or '}' in dict")
	}
}

func (p *parser) parseList() (value.Value, error) {
	p.pos++
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	list := value.List{}
	for {
		if p.consume(']') {
			return list, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		list = append(list, v)

		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return list, nil
		}
		return nil, p.errorf("expected ',' or ']' in list")
	}
}

// parseParen accepts a parenthesized expression and rejects tuples.
func (p *parser) parseParen() (value.Value, error) {
	start := p.pos
	p.pos++
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	if p.consume(')') {
		return nil, p.errorAt(start, "tuples are not supported")
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.consume(')') {
		return v, nil
	}
	if p.consume(',') {
		return nil, p.errorAt(start, "tuples are not supported")
	}
	return nil, p.errorf("expected ')'")
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() && isIdentPart(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) parseNumber() (value.Value, error) {
	start := p.pos
	base := 10
	if p.src[p.pos] == '0' && p.pos+1 < len(p.src) {
		switch p.src[p.pos+1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
	}
	if base != 10 {
		p.pos += 2
	}
	digitsStart := p.pos
	for !p.eof() && (isIdentPart(p.src[p.pos])) {
		if base == 10 && !isDigit(p.src[p.pos]) && p.src[p.pos] != '_' {
			break
		}
		p.pos++
	}
	digits := p.src[digitsStart:p.pos]

	if !p.eof() {
		switch c := p.src[p.pos]; {
		case c == '.' || (base == 10 && (c == 'e' || c == 'E')):
			return nil, p.errorAt(start, "floats are not supported")
		case c == 'j' || c == 'J':
			return nil, p.errorAt(start, "complex numbers are not supported")
		case isIdentPart(c):
			return nil, p.errorAt(start, "invalid number literal %q", p.src[start:p.pos+1])
		}
	}

	clean := strings.ReplaceAll(digits, "_", "")
	if clean == "" || strings.HasSuffix(digits, "_") || strings.Contains(digits, "__") {
		return nil, p.errorAt(start, "invalid number literal %q", p.src[start:p.pos])
	}
	if base == 10 && len(clean) > 1 && clean[0] == '0' && strings.Trim(clean, "0") != "" {
		return nil, p.errorAt(start, "leading zeros in decimal integer literals are not permitted")
	}
	n, ok := new(big.Int).SetString(clean, base)
	if !ok {
		return nil, p.errorAt(start, "invalid number literal %q", p.src[start:p.pos])
	}
	return value.BigInt(n), nil
}

// parseString reads a quoted literal at p.pos. prefix is the lowercased
// string prefix already consumed.
func (p *parser) parseString(prefix string) (value.Value, error) {
	start := p.pos
	raw := strings.Contains(prefix, "r")
	isBytes := strings.Contains(prefix, "b")

	q := p.src[p.pos]
	term := string(q)
	if strings.HasPrefix(p.src[p.pos:], strings.Repeat(term, 3)) {
		term = strings.Repeat(term, 3)
	}
	p.pos += len(term)

	var buf []byte
	for {
		if p.eof() {
			return nil, p.errorAt(start, "unterminated string literal")
		}
		if strings.HasPrefix(p.src[p.pos:], term) {
			p.pos += len(term)
			break
		}
		c := p.src[p.pos]
		switch {
		case c == '\n' && len(term) == 1:
			return nil, p.errorAt(start, "unterminated string literal")
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return nil, p.errorAt(start, "unterminated string literal")
			}
			if raw {
				buf = append(buf, c, p.src[p.pos+1])
				p.pos += 2
				continue
			}
			var err error
			if buf, err = p.escape(buf, isBytes); err != nil {
				return nil, err
			}
		case isBytes && c >= utf8.RuneSelf:
			return nil, p.errorf("bytes can only contain ASCII literal characters")
		default:
			buf = append(buf, c)
			p.pos++
		}
	}

	if isBytes {
		return value.Bytes(buf), nil
	}
	return value.Text(buf), nil
}

// escape decodes the escape sequence at p.pos and appends it to buf.
func (p *parser) escape(buf []byte, isBytes bool) ([]byte, error) {
	start := p.pos
	p.pos++
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\n':
		return buf, nil
	case '\\', '\'', '"':
		return append(buf, c), nil
	case 'a':
		return append(buf, '\a'), nil
	case 'b':
		return append(buf, '\b'), nil
	case 'f':
		return append(buf, '\f'), nil
	case 'n':
		return append(buf, '\n'), nil
	case 'r':
		return append(buf, '\r'), nil
	case 't':
		return append(buf, '\t'), nil
	case 'v':
		return append(buf, '\v'), nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := rune(c - '0')
		for i := 0; i < 2 && !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '7'; i++ {
			n = n*8 + rune(p.src[p.pos]-'0')
			p.pos++
		}
		return p.appendCode(buf, n, isBytes, start)
	case 'x':
		return p.hexEscape(buf, 2, isBytes, start)
	}
	if !isBytes {
		switch c {
		case 'u':
			return p.hexEscape(buf, 4, false, start)
		case 'U':
			return p.hexEscape(buf, 8, false, start)
		case 'N':
			return nil, p.errorAt(start, `\N{...} escapes are not supported`)
		}
	}
	// Unknown escapes are kept verbatim.
	return append(buf, '\\', c), nil
}

func (p *parser) hexEscape(buf []byte, width int, isBytes bool, start int) ([]byte, error) {
	if len(p.src)-p.pos < width {
		return nil, p.errorAt(start, "truncated escape sequence")
	}
	var n rune
	for _, h := range []byte(p.src[p.pos : p.pos+width]) {
		d, ok := hexDigit(h)
		if !ok {
			return nil, p.errorAt(start, "truncated escape sequence")
		}
		n = n*16 + d
	}
	p.pos += width
	return p.appendCode(buf, n, isBytes, start)
}

func (p *parser) appendCode(buf []byte, n rune, isBytes bool, start int) ([]byte, error) {
	if isBytes {
		if n > 0xff {
			return nil, p.errorAt(start, "escape value %#x does not fit in a byte", n)
		}
		return append(buf, byte(n)), nil
	}
	if n > utf8.MaxRune || (n >= 0xd800 && n <= 0xdfff) {
		return nil, p.errorAt(start, "escape value %#x is not a valid code point", n)
	}
	return utf8.AppendRune(buf, n), nil
}

func hexDigit(c byte) (rune, bool) {
	switch {
	case c >= '0' && c <= '9':
		return rune(c - '0'), true
	case c >= 'a' && c <= 'f':
		return rune(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
