package token

// DepthTracker maintains the nesting depth implied by a token stream: it
// starts at 0, increments on StartObject/StartArray and decrements on
// EndObject/EndArray. Every other token leaves it unchanged.
//
// Grounded on the inline depth counter in transform.MaxDepthFilter, which
// does the same bookkeeping ad hoc; this type exists so every filter that
// needs to know "am I at the root" doesn't reimplement it.
type DepthTracker struct {
	depth int
}

// Depth returns the current nesting depth.
func (d *DepthTracker) Depth() int {
	return d.depth
}

// Update advances the tracker past tok.
func (d *DepthTracker) Update(tok Token) {
	switch {
	case IsStructuralOpen(tok):
		d.depth++
	case IsStructuralClose(tok):
		d.depth--
	}
}
