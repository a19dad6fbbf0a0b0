package format

import "github.com/arnodel/jtok/token"

// ScalarKind classifies a packed scalar token for colouring purposes. There
// are four kinds because that's how many distinct scalar colours the
// terminal output supports: strings, numbers, booleans and null.
type ScalarKind int

const (
	StringScalar ScalarKind = iota
	NumberScalar
	BoolScalar
	NullScalar
)

// KindOf returns the ScalarKind of a packed scalar value token. The second
// return value is false if tok isn't a scalar value token (e.g. it's a
// structural token or a key).
func KindOf(tok token.Token) (ScalarKind, bool) {
	switch tok.(type) {
	case token.StringValue:
		return StringScalar, true
	case token.NumberValue:
		return NumberScalar, true
	case token.BoolValue:
		return BoolScalar, true
	}
	if tok == token.NullValue {
		return NullScalar, true
	}
	return 0, false
}

// A Colorizer adds ANSI colour codes around rendered scalar and key bytes.
// A nil *Colorizer is valid and prints plain, uncoloured output.
type Colorizer struct {
	KeyColorCode     []byte
	ScalarColorCodes [4][]byte
	ResetCode        []byte
}

// PrintScalar writes rendered (already literal-encoded) bytes for a scalar
// of the given kind, wrapped in the colour code for that kind.
func (c *Colorizer) PrintScalar(p Printer, kind ScalarKind, rendered []byte) {
	if c != nil {
		p.PrintBytes(c.ScalarColorCodes[kind])
	}
	p.PrintBytes(rendered)
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}

// PrintKey writes rendered bytes for an object key, coloured with
// KeyColorCode.
func (c *Colorizer) PrintKey(p Printer, rendered []byte) {
	if c != nil {
		p.PrintBytes(c.KeyColorCode)
	}
	p.PrintBytes(rendered)
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}
