package json

import (
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arnodel/jtok/internal/scanner"
	"github.com/arnodel/jtok/token"
)

// A Decoder reads JSON input and streams it into a JSON stream.
type Decoder struct {
	scanr *scanner.Scanner
}

var _ token.StreamSource = &Decoder{}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(in)}
}

// NewDecoderFromScanner creates a decoder using an existing scanner. This is
// useful for format decoders that need to parse JSON values inline (e.g. JPV
// values on the right-hand side of a path assignment).
func NewDecoderFromScanner(scanr *scanner.Scanner) *Decoder {
	return &Decoder{scanr: scanr}
}

// Produce reads a stream of JSON values and streams them, until it runs
// out of input or encounter invalid JSON, in which case it will return an
// error.
func (d *Decoder) Produce(out chan<- token.Token) error {
	for {
		b, err := d.scanr.SkipSpaceAndPeek()
		if err != nil || b == scanner.EOF {
			return err
		}
		if err := d.ParseValue(out); err != nil {
			return err
		}
	}
}

// ParseValue reads a single JSON value and streams it. It can return a
// non-nil error if the input is invalid JSON.
func (d *Decoder) ParseValue(out chan<- token.Token) error {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == scanner.EOF {
		return io.EOF
	}
	switch b {
	case '"':
		s, err := ParseString(d.scanr)
		if err != nil {
			return err
		}
		out <- s
		return nil
	case '[':
		return d.parseArray(out)
	case '{':
		return d.parseObject(out)
	case 't':
		if err := checkBytes(d.scanr, trueBytes); err != nil {
			return err
		}
		out <- token.TrueValue
		return nil
	case 'f':
		if err := checkBytes(d.scanr, falseBytes); err != nil {
			return err
		}
		out <- token.FalseValue
		return nil
	case 'n':
		if err := checkBytes(d.scanr, nullBytes); err != nil {
			return err
		}
		out <- token.NullValue
		return nil
	default:
		if b == '-' || b >= '0' && b <= '9' {
			n, err := ParseNumber(d.scanr)
			if err != nil {
				return err
			}
			out <- n
			return nil
		}
		return UnexpectedByte(d.scanr, "unexpected")
	}
}

func (d *Decoder) parseArray(out chan<- token.Token) error {
	if err := ExpectByte(d.scanr, '['); err != nil {
		return err
	}
	out <- token.StartArray
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == ']' {
		d.scanr.Read()
		out <- token.EndArray
		return nil
	}
	for {
		if err := d.ParseValue(out); err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case ']':
			d.scanr.Read()
			out <- token.EndArray
			return nil
		case ',':
			d.scanr.Read()
		default:
			return UnexpectedByte(d.scanr, "expected ']' or ',', got")
		}
	}
}

func (d *Decoder) parseObject(out chan<- token.Token) error {
	if err := ExpectByte(d.scanr, '{'); err != nil {
		return err
	}
	out <- token.StartObject
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == '}' {
		d.scanr.Read()
		out <- token.EndObject
		return nil
	}
	for {
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		if b != '"' {
			return UnexpectedByte(d.scanr, "expected a string key, got")
		}
		key, err := ParseString(d.scanr)
		if err != nil {
			return err
		}
		out <- token.KeyValue(key)
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		if b != ':' {
			return UnexpectedByte(d.scanr, "expected ':', got")
		}
		d.scanr.Read()
		if err := d.ParseValue(out); err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case '}':
			d.scanr.Read()
			out <- token.EndObject
			return nil
		case ',':
			d.scanr.Read()
		default:
			return UnexpectedByte(d.scanr, "expected '}' or ',' got")
		}
	}
}

func ExpectByte(scanr *scanner.Scanner, xb byte) error {
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b != xb {
		scanr.Back()
		return UnexpectedByte(scanr, "expected %q, got", xb)
	}
	return nil
}

func UnexpectedByte(scanr *scanner.Scanner, expected string, args ...interface{}) error {
	pos := scanr.CurrentPos()
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b == scanner.EOF {
		return fmt.Errorf("syntax error at L%d,C%d: %s: <EOF>", pos.Line+1, pos.Col+1, fmt.Sprintf(expected, args...))
	}
	return fmt.Errorf("syntax error at L%d,C%d: %s: %q", pos.Line+1, pos.Col+1, fmt.Sprintf(expected, args...), b)
}

// ParseString parses a JSON string (including its surrounding quotes) and
// returns its unescaped content.
func ParseString(scanr *scanner.Scanner) (token.StringValue, error) {
	scanr.StartToken()
	if err := ExpectByte(scanr, '"'); err != nil {
		return "", err
	}
	hasEscape := false
	for {
		b, err := scanr.Read()
		if err != nil {
			return "", err
		}
		switch b {
		case '\\':
			hasEscape = true
			x, err := scanr.Read()
			if err != nil {
				return "", err
			}
			switch x {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
			case 'u':
				for i := 0; i < 4; i++ {
					b, err = scanr.Read()
					if err != nil {
						return "", err
					}
					if !isHexDigit(b) {
						scanr.Back()
						return "", UnexpectedByte(scanr, "expected hex, got")
					}
				}
			default:
				scanr.Back()
				return "", UnexpectedByte(scanr, "invalid escape character")
			}
		case '"':
			raw := scanr.EndToken()
			content := raw[1 : len(raw)-1]
			if !hasEscape {
				return token.StringValue(content), nil
			}
			unescaped, err := unescapeString(content)
			if err != nil {
				return "", err
			}
			return token.StringValue(unescaped), nil
		default:
			if b == scanner.EOF {
				return "", UnexpectedByte(scanr, "unterminated string")
			}
			if scanner.IsCtrl(b) {
				scanr.Back()
				return "", UnexpectedByte(scanr, "invalid control character in string")
			}
		}
	}
}

func isHexDigit(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

func hexDigitValue(b byte) rune {
	switch {
	case b >= '0' && b <= '9':
		return rune(b - '0')
	case b >= 'a' && b <= 'f':
		return rune(b-'a') + 10
	default:
		return rune(b-'A') + 10
	}
}

// unescapeString resolves the backslash escapes (and \uXXXX sequences,
// including surrogate pairs) inside the content of a JSON string literal
// (quotes already stripped).
func unescapeString(raw []byte) (string, error) {
	var buf []byte
	i := 0
	for i < len(raw) {
		b := raw[i]
		if b != '\\' {
			buf = append(buf, b)
			i++
			continue
		}
		i++
		switch raw[i] {
		case '"':
			buf = append(buf, '"')
		case '\\':
			buf = append(buf, '\\')
		case '/':
			buf = append(buf, '/')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'u':
			r, n := readUnicodeEscape(raw, i+1)
			buf = utf8.AppendRune(buf, r)
			i += n
		}
		i++
	}
	return string(buf), nil
}

// readUnicodeEscape decodes a \uXXXX escape (and, if immediately followed by
// a second \uXXXX forming a valid surrogate pair, combines the two into a
// single rune) starting at raw[i]. Returns the rune and the number of bytes
// of raw consumed from i.
func readUnicodeEscape(raw []byte, i int) (rune, int) {
	r1 := decodeHex4(raw[i : i+4])
	if utf16.IsSurrogate(rune(r1)) && i+10 <= len(raw) && raw[i+4] == '\\' && raw[i+5] == 'u' {
		r2 := decodeHex4(raw[i+6 : i+10])
		if combined := utf16.DecodeRune(rune(r1), rune(r2)); combined != utf8.RuneError {
			return combined, 10
		}
	}
	return rune(r1), 4
}

func decodeHex4(b []byte) uint16 {
	var v uint16
	for _, c := range b {
		v <<= 4
		v |= uint16(hexDigitValue(c))
	}
	return v
}

// ParseNumber parses a JSON number from the scanner and returns its exact
// decimal text. Exported for use by other format decoders.
func ParseNumber(scanr *scanner.Scanner) (token.NumberValue, error) {
	scanr.StartToken()
	var n int
	b, err := scanr.Read()

	// Sign part
	if b == '-' {
		b, err = scanr.Read()
	}
	if err != nil {
		return "", err
	}

	// Integer part
	if b == '0' {
		b, err = scanr.Read()
		if err != nil {
			return "", err
		}
	} else if b >= '1' && b <= '9' {
		b, _, err = ReadDigits(scanr)
		if err != nil {
			return "", err
		}
	} else {
		scanr.Back()
		return "", UnexpectedByte(scanr, "expected digit, got")
	}

	// Fraction part
	if b == '.' {
		b, n, err = ReadDigits(scanr)
		if err != nil {
			return "", err
		}
		if n == 0 {
			scanr.Back()
			return "", UnexpectedByte(scanr, "expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = scanr.Peek()
		if err != nil {
			return "", err
		}
		if b == '-' || b == '+' {
			scanr.Read()
		}
		_, n, err = ReadDigits(scanr)
		if err != nil {
			return "", err
		}
		if n == 0 {
			scanr.Back()
			return "", UnexpectedByte(scanr, "expected digit, got")
		}
	}
	scanr.Back()
	return token.NumberValue(scanr.EndToken()), nil
}

func ReadDigits(scanr *scanner.Scanner) (byte, int, error) {
	var n int
	for {
		b, err := scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

func checkBytes(scanr *scanner.Scanner, expected []byte) error {
	for _, xb := range expected {
		if err := ExpectByte(scanr, xb); err != nil {
			return err
		}
	}
	return nil
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)
