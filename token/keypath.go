package token

import (
	"strconv"
	"strings"
)

// Component is one element of a key path: either an array index or an
// object key. A freshly pushed object frame with no key assigned yet has
// neither (IsIndex and HasKey both false).
type Component struct {
	isIndex bool
	index   int
	hasKey  bool
	key     string
}

// IsIndex reports whether this component is an array index.
func (c Component) IsIndex() bool { return c.isIndex }

// Index returns the array index; only meaningful when IsIndex is true.
func (c Component) Index() int { return c.index }

// HasKey reports whether this component is an object key that has been
// assigned (false right after StartObject, before the first key arrives).
func (c Component) HasKey() bool { return c.hasKey }

// Key returns the object key; only meaningful when HasKey is true.
func (c Component) Key() string { return c.key }

func (c Component) String() string {
	switch {
	case c.isIndex:
		return strconv.Itoa(c.index)
	case c.hasKey:
		return c.key
	default:
		return ""
	}
}

// lastPrimitiveKind records which streamed primitive was just finalized by
// an EndX token, so a matching packed duplicate immediately following it
// can be recognized and skipped for the purposes of the array-index
// increment rule (spec §4.2, the "NOT immediately after" clause).
type lastPrimitiveKind int

const (
	noPrimitive lastPrimitiveKind = iota
	lastEndString
	lastEndNumber
)

// StackKeyTracker maintains the full key path (array indices and object
// keys) addressed by the cursor's current position in a token stream, as
// described by spec §4.2. Grounded on the key/index bookkeeping already
// done ad hoc inside iterator.Object/iterator.Array in the teacher's value
// iterator; this type is the same bookkeeping factored out and made
// available to every filter, not just the value iterator.
type StackKeyTracker struct {
	stack []Component

	bufferingKey bool
	keyBuf       strings.Builder

	lastPrimitive lastPrimitiveKind
}

// Stack returns the current path components, outermost first. The slice
// is owned by the tracker; callers must not mutate it and should copy it
// if they need to retain it past the next Update call.
func (t *StackKeyTracker) Stack() []Component {
	return t.stack
}

// Head returns the component `offset` levels up from the top of the
// stack (offset 0 is the top). The second return value is false if the
// stack is not deep enough.
func (t *StackKeyTracker) Head(offset int) (Component, bool) {
	i := len(t.stack) - 1 - offset
	if i < 0 || i >= len(t.stack) {
		return Component{}, false
	}
	return t.stack[i], true
}

// Depth returns the number of open collections.
func (t *StackKeyTracker) Depth() int {
	return len(t.stack)
}

// PathStrings returns the current key path as a slice of strings
// (indices rendered in decimal), outermost first.
func (t *StackKeyTracker) PathStrings() []string {
	out := make([]string, len(t.stack))
	for i, c := range t.stack {
		out[i] = c.String()
	}
	return out
}

// Path joins the current key path with sep (defaulting to "." when sep is
// empty), per spec §3's "key path" string representation.
func (t *StackKeyTracker) Path(sep string) string {
	if sep == "" {
		sep = "."
	}
	return strings.Join(t.PathStrings(), sep)
}

// Update advances the tracker past tok, per the transition table in
// spec §4.2.
func (t *StackKeyTracker) Update(tok Token) {
	// The array-index increment rule fires on the first token of any new
	// value appearing directly inside an array, except when tok is a
	// packed duplicate immediately following the streamed form of the
	// same primitive (already counted once).
	if t.isNewValueStart(tok) {
		t.incrementIfArrayHead()
	}
	t.advancePrimitiveMarker(tok)

	switch tok {
	case StartObject:
		t.stack = append(t.stack, Component{})
		return
	case StartArray:
		t.stack = append(t.stack, Component{isIndex: true, index: -1})
		return
	case EndObject, EndArray:
		if len(t.stack) > 0 {
			t.stack = t.stack[:len(t.stack)-1]
		}
		return
	case StartKey:
		t.bufferingKey = true
		t.keyBuf.Reset()
		return
	case EndKey:
		t.bufferingKey = false
		t.setHeadKey(t.keyBuf.String())
		return
	}

	switch v := tok.(type) {
	case StringChunk:
		if t.bufferingKey {
			t.keyBuf.WriteString(string(v))
		}
	case KeyValue:
		// Idempotent with the streamed form: if streaming already set the
		// head to this key, this just sets it again to the same value.
		t.setHeadKey(string(v))
	}
}

func (t *StackKeyTracker) setHeadKey(key string) {
	if len(t.stack) == 0 {
		return
	}
	t.stack[len(t.stack)-1] = Component{hasKey: true, key: key}
}

func (t *StackKeyTracker) incrementIfArrayHead() {
	if len(t.stack) == 0 {
		return
	}
	head := &t.stack[len(t.stack)-1]
	if head.isIndex {
		head.index++
	}
}

// isNewValueStart implements spec §4.2's increment trigger set, including
// the streamed+packed de-duplication clause.
func (t *StackKeyTracker) isNewValueStart(tok Token) bool {
	switch tok {
	case StartObject, StartArray, StartString, StartNumber, NullValue, TrueValue, FalseValue:
		return true
	}
	switch tok.(type) {
	case StringValue:
		return t.lastPrimitive != lastEndString
	case NumberValue:
		return t.lastPrimitive != lastEndNumber
	}
	return false
}

func (t *StackKeyTracker) advancePrimitiveMarker(tok Token) {
	switch tok {
	case EndString:
		t.lastPrimitive = lastEndString
		return
	case EndNumber:
		t.lastPrimitive = lastEndNumber
		return
	}
	switch tok.(type) {
	case StringValue, NumberValue:
		// A packed duplicate (or a standalone packed primitive) consumes
		// the marker either way; it must not linger and match some later,
		// unrelated packed primitive.
		t.lastPrimitive = noPrimitive
		return
	}
	t.lastPrimitive = noPrimitive
}
