package assemble

import (
	"strings"

	"github.com/arnodel/jtok/token"
)

// primitiveKind records which streamed primitive is currently being
// buffered, or was most recently finalized by its EndX token — mirroring
// token.StackKeyTracker's lastPrimitiveKind, but across all three
// streamable primitives (keys, strings, numbers) rather than just the two
// that affect array indexing.
type primitiveKind int

const (
	noPrimitive primitiveKind = iota
	primitiveKey
	primitiveString
	primitiveNumber
)

// frame is one level of FullAssembler's construction stack: the
// container being built at that level, and (for objects) the key the
// next value will be attached under. Grounded on the teacher's
// iterator.collectionBase/iterator.Object "[parent, key]" bookkeeping,
// reworked so the container itself carries the accumulated entries
// instead of being replayed from a ReadStream.
type frame struct {
	container  Value
	pendingKey string
}

// FullAssembler reconstructs JSON values from a token stream that may
// mix streamed and packed forms of any primitive, per spec §4.3. Tokens
// are consumed one at a time; Current reflects the latest completed or
// in-progress root-level value, and Done reports whether that value's
// last token has been seen.
//
// A zero-value FullAssembler is not usable; use NewFullAssembler.
type FullAssembler struct {
	sparse bool

	stack []*frame
	root  Value
	done  bool

	buffering     bool
	bufferKind    primitiveKind
	buf           strings.Builder
	savedDone     bool
	lastPrimitive primitiveKind
}

// NewFullAssembler returns an assembler that materializes every value it
// consumes.
func NewFullAssembler() *FullAssembler {
	return &FullAssembler{done: true}
}

// NewSparseAssembler returns an assembler that tracks Done/Stack exactly
// like NewFullAssembler but never materializes a value: once a value has
// started, Current returns SparseValue. This is the mode packEntry and friends use to
// reuse the "done" detection logic without paying for assembling values
// they will discard (spec §4.3, "Sparse mode").
func NewSparseAssembler() *FullAssembler {
	return &FullAssembler{done: true, sparse: true}
}

// Done reports whether the last fully formed root-level value seen so
// far is complete (no value in progress).
func (a *FullAssembler) Done() bool { return a.done }

// Current returns the latest completed or in-progress root-level value.
// It is nil if no value has started yet.
func (a *FullAssembler) Current() Value { return a.root }

// Stack returns the containers currently under construction, outermost
// first. The slice itself is freshly allocated on each call, but the
// containers in it are the assembler's own and keep changing as further
// tokens are consumed.
func (a *FullAssembler) Stack() []Value {
	out := make([]Value, len(a.stack))
	for i, f := range a.stack {
		out[i] = f.container
	}
	return out
}

// Consume advances the assembler past tok. It panics with a
// *token.MalformedTokenStreamError if tok is inconsistent with the
// push-down grammar (spec §4.3, "Failure semantics" — this is not an
// input validator).
func (a *FullAssembler) Consume(tok token.Token) {
	switch tok {
	case token.StartKey:
		a.startBuffer(primitiveKey)
		return
	case token.StartString:
		a.startBuffer(primitiveString)
		return
	case token.StartNumber:
		a.startBuffer(primitiveNumber)
		return
	case token.EndKey:
		a.endBuffer(primitiveKey)
		return
	case token.EndString:
		a.endBuffer(primitiveString)
		return
	case token.EndNumber:
		a.endBuffer(primitiveNumber)
		return
	case token.StartObject:
		a.pushContainer(&ObjectValue{})
		return
	case token.StartArray:
		a.pushContainer(&ArrayValue{})
		return
	case token.EndObject, token.EndArray:
		a.popContainer(tok)
		return
	case token.TrueValue:
		a.lastPrimitive = noPrimitive
		a.emitFinalized(BoolScalar(true))
		return
	case token.FalseValue:
		a.lastPrimitive = noPrimitive
		a.emitFinalized(BoolScalar(false))
		return
	case token.NullValue:
		a.lastPrimitive = noPrimitive
		a.emitFinalized(NullScalar())
		return
	}

	switch v := tok.(type) {
	case token.StringChunk:
		if a.buffering {
			a.buf.WriteString(string(v))
			return
		}
	case token.NumberChunk:
		if a.buffering {
			a.buf.WriteString(string(v))
			return
		}
	case token.KeyValue:
		if a.lastPrimitive == primitiveKey {
			a.lastPrimitive = noPrimitive
			return
		}
		a.lastPrimitive = noPrimitive
		a.setPendingKey(string(v))
		return
	case token.StringValue:
		if a.lastPrimitive == primitiveString {
			a.lastPrimitive = noPrimitive
			return
		}
		a.lastPrimitive = noPrimitive
		a.emitFinalized(StringScalar(string(v)))
		return
	case token.NumberValue:
		if a.lastPrimitive == primitiveNumber {
			a.lastPrimitive = noPrimitive
			return
		}
		a.lastPrimitive = noPrimitive
		a.emitFinalized(NumberScalar(string(v)))
		return
	}

	panic(&token.MalformedTokenStreamError{Reason: "token not valid in this assembler state", Token: tok})
}

func (a *FullAssembler) startBuffer(kind primitiveKind) {
	a.savedDone = a.done
	a.done = false
	a.buffering = true
	a.bufferKind = kind
	a.buf.Reset()
}

func (a *FullAssembler) endBuffer(kind primitiveKind) {
	if !a.buffering || a.bufferKind != kind {
		panic(&token.MalformedTokenStreamError{Reason: "end of streamed primitive with no matching start"})
	}
	text := a.buf.String()
	a.buffering = false
	a.done = a.savedDone
	a.lastPrimitive = kind

	switch kind {
	case primitiveKey:
		a.setPendingKey(text)
	case primitiveString:
		a.emitFinalized(StringScalar(text))
	case primitiveNumber:
		a.emitFinalized(NumberScalar(text))
	}
}

// emitFinalized attaches v at the current construction point, or roots
// it if there is no enclosing container. Callers are responsible for
// lastPrimitive bookkeeping.
func (a *FullAssembler) emitFinalized(v Value) {
	if a.sparse {
		v = SparseValue
	}
	if len(a.stack) == 0 {
		a.root = v
		a.done = true
		return
	}
	a.attach(v)
}

func (a *FullAssembler) pushContainer(v Value) {
	a.lastPrimitive = noPrimitive
	if a.sparse {
		v = SparseValue
	}
	if len(a.stack) == 0 {
		a.root = v
	} else {
		a.attach(v)
	}
	a.done = false
	a.stack = append(a.stack, &frame{container: v})
}

func (a *FullAssembler) popContainer(closeTok token.Token) {
	a.lastPrimitive = noPrimitive
	n := len(a.stack)
	if n == 0 {
		panic(&token.MalformedTokenStreamError{Reason: "unmatched close", Token: closeTok})
	}
	top := a.stack[n-1]
	if !a.sparse {
		wantArray := closeTok == token.EndArray
		_, isArray := top.container.(*ArrayValue)
		if wantArray != isArray {
			panic(&token.MalformedTokenStreamError{Reason: "mismatched open/close bracket", Token: closeTok})
		}
	}
	a.stack = a.stack[:n-1]
	if len(a.stack) == 0 {
		a.root = top.container
		a.done = true
	}
}

func (a *FullAssembler) setPendingKey(key string) {
	if a.sparse {
		return
	}
	if len(a.stack) == 0 {
		panic(&token.MalformedTokenStreamError{Reason: "key outside an object"})
	}
	top := a.stack[len(a.stack)-1]
	if _, ok := top.container.(*ObjectValue); !ok {
		panic(&token.MalformedTokenStreamError{Reason: "key inside a non-object"})
	}
	top.pendingKey = key
}

func (a *FullAssembler) attach(v Value) {
	if a.sparse {
		return
	}
	top := a.stack[len(a.stack)-1]
	switch c := top.container.(type) {
	case *ArrayValue:
		c.Items = append(c.Items, v)
	case *ObjectValue:
		c.Entries = append(c.Entries, ObjectEntry{Key: top.pendingKey, Value: v})
		top.pendingKey = ""
	default:
		panic(&token.MalformedTokenStreamError{Reason: "value attached to non-container"})
	}
}
