package iterator

import (
	"fmt"
	"strconv"

	"github.com/arnodel/jtok/token"
)

// Iterator performs a single lazy pass over a token.ReadStream, yielding
// one Value per call to Advance. It underlies the JSONPath query engine in
// package transform/jsonpath, reached through jtok's '$...' transform
// arguments (SPEC_FULL §7.2), and the builtin transforms in package
// transform that need to look at whole values rather than raw tokens.
//
// It only ever sees the packed primitive forms (KeyValue, StringValue,
// NumberValue, BoolValue, NullValue): a stream using the streamed
// Start*/Chunk/End* forms for its scalars must be materialized first
// (e.g. with assemble.FullAssembler) before it reaches an Iterator.
type Iterator struct {
	stream       token.ReadStream
	currentValue Value
}

func New(stream token.ReadStream) *Iterator {
	return &Iterator{stream: stream}
}

// Advance discards whatever the previous CurrentValue wasn't read and
// moves to the next top-level value on the stream. Returns false once
// the stream is exhausted.
func (i *Iterator) Advance() (ok bool) {
	if i.currentValue != nil {
		i.currentValue.Discard()
	}
	nextItem := i.stream.Next()
	if nextItem == nil {
		i.currentValue = nil
		return false
	}
	i.currentValue = nextStreamedValue(nextItem, i.stream)
	return true
}

func (i *Iterator) CurrentValue() Value {
	return i.currentValue
}

// Value is one JSON value read lazily off a token stream.
type Value interface {
	// Clone returns an independent cursor reading the same value, so it
	// can be consumed more than once. Must be called before the value
	// has started being advanced or copied.
	Clone() Value

	// Discard skips over the whole value without materializing it.
	Discard()

	// Copy writes every token of the value to out, consuming the value.
	Copy(out token.WriteStream)
}

// Scalar wraps one packed null, boolean, string or number token.
type Scalar struct {
	tok token.Token
}

var _ Value = &Scalar{}

func newScalar(tok token.Token) *Scalar { return &Scalar{tok: tok} }

// NewScalar wraps a packed scalar token (StringValue, NumberValue, BoolValue,
// or NullValue) as a Value, for callers building a Value outside of a
// stream (e.g. a JSONPath literal in a filter expression).
func NewScalar(tok token.Token) *Scalar { return newScalar(tok) }

func (s *Scalar) Clone() Value { return s }

func (s *Scalar) Discard() {}

func (s *Scalar) Copy(out token.WriteStream) { out.Put(s.tok) }

// Token returns the scalar's underlying packed token.
func (s *Scalar) Token() token.Token { return s.tok }

// ToGo converts the scalar to its closest native Go representation: nil,
// bool, string, or float64 (numbers are parsed from their decimal text).
func (s *Scalar) ToGo() any {
	switch v := s.tok.(type) {
	case token.StringValue:
		return string(v)
	case token.NumberValue:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case token.BoolValue:
		return bool(v)
	default:
		return nil
	}
}

// Collection is the common surface of Object and Array: a lazily-read
// sequence of element values.
type Collection interface {
	Value
	Advance() bool
	Elided() bool
	CurrentValue() Value
}

type collectionBase struct {
	startItem token.Token
	stream    token.ReadStream

	started bool
	done    bool
	elided  bool

	currentValue Value
}

func (c *collectionBase) clone() collectionBase {
	if c.started {
		panic("cannot clone a collection that has started being read")
	}
	clone := *c
	c.stream, clone.stream = token.CloneReadStream(c.stream)
	return clone
}

// Discard skips every remaining token of the collection without
// materializing its elements.
func (c *collectionBase) Discard() {
	if c.done {
		return
	}
	if c.started {
		c.currentValue.Discard()
	}
	c.done = true
	depth := 0
	for {
		item := c.stream.Next()
		if item == nil {
			return
		}
		switch {
		case token.IsStructuralOpen(item):
			depth++
		case token.IsStructuralClose(item):
			depth--
		}
		if depth < 0 {
			return
		}
	}
}

// Copy writes the collection's startItem and every remaining token to
// out, consuming the collection.
func (c *collectionBase) Copy(out token.WriteStream) {
	if c.started {
		panic("cannot copy a collection that has started being read")
	}
	out.Put(c.startItem)
	c.done = true
	depth := 0
	for {
		item := c.stream.Next()
		if item == nil {
			return
		}
		switch {
		case token.IsStructuralOpen(item):
			depth++
		case token.IsStructuralClose(item):
			depth--
		}
		out.Put(item)
		if depth < 0 {
			return
		}
	}
}

func (c *collectionBase) Elided() bool {
	return c.elided
}

func (c *collectionBase) CurrentValue() Value {
	if c.done {
		panic("collection is done")
	}
	return c.currentValue
}

// Object is a lazily-read JSON object.
type Object struct {
	collectionBase
	currentKey string
}

var _ Collection = &Object{}

func (o *Object) Clone() Value {
	return &Object{collectionBase: o.clone()}
}

// CurrentKeyVal returns the key and value of the entry Advance last
// moved to.
func (o *Object) CurrentKeyVal() (string, Value) {
	if o.done {
		panic("object is done")
	}
	return o.currentKey, o.currentValue
}

func (o *Object) Advance() bool {
	if o.done {
		return false
	}
	if o.started {
		o.currentValue.Discard()
	}
	item := o.stream.Next()
	if item == nil {
		panic("stream ended inside object - expected key")
	}
	switch {
	case item == token.EndObject:
		o.done = true
		return false
	case item == token.Elision:
		o.elided = true
		// After this we expect o.done to be true.
		return o.Advance()
	}
	key, ok := item.(token.KeyValue)
	if !ok {
		panic(fmt.Sprintf("invalid stream %#v, expected an object key", item))
	}
	o.started = true
	o.currentKey = string(key)
	valItem := o.stream.Next()
	if valItem == nil {
		panic("stream ended inside object - expected value")
	}
	o.currentValue = nextStreamedValue(valItem, o.stream)
	return true
}

// Array is a lazily-read JSON array.
type Array struct {
	collectionBase
}

var _ Collection = &Array{}

func (a *Array) Clone() Value {
	return &Array{collectionBase: a.clone()}
}

// CloneArray is Clone with the result already asserted to *Array, for
// callers (e.g. jsonpath's negative-index lookahead) that only ever
// clone an Array and would otherwise have to re-assert it.
func (a *Array) CloneArray() *Array {
	return a.Clone().(*Array)
}

func (a *Array) Advance() bool {
	if a.done {
		return false
	}
	if a.started {
		a.currentValue.Discard()
	}
	item := a.stream.Next()
	if item == nil {
		panic("stream ended inside array")
	}
	switch {
	case item == token.EndArray:
		a.done = true
		return false
	case item == token.Elision:
		a.elided = true
		// After this we expect a.done to be true.
		return a.Advance()
	default:
		a.started = true
		a.currentValue = nextStreamedValue(item, a.stream)
		return true
	}
}

func nextStreamedValue(firstItem token.Token, stream token.ReadStream) Value {
	switch firstItem {
	case token.StartArray:
		return &Array{collectionBase: collectionBase{startItem: firstItem, stream: stream}}
	case token.StartObject:
		return &Object{collectionBase: collectionBase{startItem: firstItem, stream: stream}}
	}
	if token.IsPackedPrimitive(firstItem) {
		if _, ok := firstItem.(token.KeyValue); !ok {
			return newScalar(firstItem)
		}
	}
	panic(fmt.Sprintf("invalid stream token in value position: %#v", firstItem))
}
