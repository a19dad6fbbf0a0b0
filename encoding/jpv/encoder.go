package jpv

import (
	"fmt"

	"github.com/arnodel/jtok/encoding/json"
	"github.com/arnodel/jtok/internal/format"
	"github.com/arnodel/jtok/internal/scanner"
	"github.com/arnodel/jtok/iterator"
	"github.com/arnodel/jtok/token"
)

// An Encoder writes a stream of JSON values as JPV: one line per leaf value,
// each prefixed with the JSONPath locating it inside its top-level value.
//
// By default, object keys that look like identifiers (e.g. a-z/A-Z/0-9/_,
// not starting with a digit) are rendered in dot notation ($.name); every
// other key is rendered in bracket notation ($["some key"]). Setting
// AlwaysQuoteKeys forces bracket notation for every key.
type Encoder struct {
	format.Printer
	*format.Colorizer
	AlwaysQuoteKeys bool
}

var _ token.StreamSink = &Encoder{}

// Consume formats the JSON stream as JPV text using the instance's Printer.
func (e *Encoder) Consume(stream <-chan token.Token) (err error) {
	defer format.CatchPrinterError(&err)
	it := iterator.New(token.ChannelReadStream(stream))
	for it.Advance() {
		e.writeValue(nil, it.CurrentValue())
		e.Printer.Reset()
	}
	return nil
}

func (e *Encoder) writeValue(path []pathSegment, value iterator.Value) {
	switch v := value.(type) {
	case *iterator.Scalar:
		e.writeScalarLine(path, v.Token())
	case *iterator.Object:
		empty := true
		for v.Advance() {
			empty = false
			key, val := v.CurrentKeyVal()
			e.writeValue(append(path, pathSegment{key: key, isKey: true}), val)
		}
		if empty {
			e.writeMarkerLine(path, emptyObjectBytes)
		}
	case *iterator.Array:
		empty := true
		index := 0
		for v.Advance() {
			empty = false
			e.writeValue(append(path, pathSegment{index: index}), v.CurrentValue())
			index++
		}
		if empty {
			e.writeMarkerLine(path, emptyArrayBytes)
		}
	default:
		panic(fmt.Sprintf("invalid stream item: %#v", value))
	}
}

// writeScalarLine prints a path followed by a real scalar value, coloured
// according to its kind.
func (e *Encoder) writeScalarLine(path []pathSegment, tok token.Token) {
	e.printPath(path)
	kind, _ := format.KindOf(tok)
	e.Colorizer.PrintScalar(e.Printer, kind, json.RenderScalar(tok))
	e.NewLine()
}

// writeMarkerLine prints a path followed by the "{}" / "[]" marker used for
// an empty object / array, which isn't a scalar value and so isn't
// coloured.
func (e *Encoder) writeMarkerLine(path []pathSegment, marker []byte) {
	e.printPath(path)
	e.PrintBytes(marker)
	e.NewLine()
}

func (e *Encoder) printPath(path []pathSegment) {
	e.PrintBytes(dollarBytes)
	for _, seg := range path {
		e.writePathSegment(seg)
	}
	e.PrintBytes(equalsBytes)
}

func (e *Encoder) writePathSegment(seg pathSegment) {
	if !seg.isKey {
		e.PrintBytes(openBracketBytes)
		e.PrintBytes([]byte(fmt.Sprintf("%d", seg.index)))
		e.PrintBytes(closeBracketBytes)
		return
	}
	if !e.AlwaysQuoteKeys && isIdentifier(seg.key) {
		e.PrintBytes(dotBytes)
		e.Colorizer.PrintKey(e.Printer, []byte(seg.key))
		return
	}
	e.PrintBytes(openBracketBytes)
	e.Colorizer.PrintKey(e.Printer, json.RenderString(seg.key))
	e.PrintBytes(closeBracketBytes)
}

func isIdentifier(key string) bool {
	if key == "" {
		return false
	}
	if !scanner.IsAlpha(key[0]) {
		return false
	}
	for i := 1; i < len(key); i++ {
		if !scanner.IsAlnum(key[i]) {
			return false
		}
	}
	return true
}

var (
	dollarBytes        = []byte("$")
	dotBytes           = []byte(".")
	openBracketBytes   = []byte("[")
	closeBracketBytes  = []byte("]")
	equalsBytes        = []byte(" = ")
	emptyObjectBytes   = []byte("{}")
	emptyArrayBytes    = []byte("[]")
)
