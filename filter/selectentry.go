package filter

import "github.com/arnodel/jtok/token"

// SelectEntry keeps, for each top-level object, only the value of its first
// entry whose key path matches any of Matchers, discarding the enclosing object wrapper
// and every other entry (spec §4.7). If the selected value is itself an
// array, its own startArray/endArray are suppressed so each element of
// that array is streamed as a top-level value; otherwise the selected
// value passes through verbatim.
//
// Built atop sparse-mode PackEntry plus a token.DepthTracker that tells
// the outer object's own delimiters apart from the selected value's
// internal structure (spec §4.7). Scoped to the outermost object's
// entries — see DESIGN.md's Open Question on selectEntry nesting scope.
type SelectEntry struct {
	Matchers []KeyMatcher
}

var _ token.StreamTransformer = &SelectEntry{}

func (s *SelectEntry) Transform(in <-chan token.Token, out token.WriteStream) {
	owner := token.NewOwnerID()
	pack := &PackEntry{Matchers: s.Matchers, Sparse: true, Owner: owner}
	packed := token.TransformStream(in, pack)

	var depth token.DepthTracker
	selected := false
	inValue := false
	unwrapArray := false
	valueDepth := 0

	for tok := range packed {
		switch t := tok.(type) {
		case *token.SparseEntryKeyStart:
			if t.Owner != owner {
				out.Put(tok)
			}
			continue
		case *token.SparseEntryKeyEnd:
			if t.Owner != owner {
				out.Put(tok)
			}
			continue
		case *token.SparseEntryValueStart:
			if t.Owner != owner {
				out.Put(tok)
				continue
			}
			if !selected {
				selected = true
				inValue = true
				valueDepth = 0
			}
			continue
		case *token.SparseEntryValueEnd:
			if t.Owner != owner {
				out.Put(tok)
				continue
			}
			inValue = false
			continue
		case *token.PackedEntry:
			out.Put(tok)
			continue
		case token.FinalToken:
			out.Put(tok)
			continue
		}

		depth.Update(tok)

		if depth.Depth() == 0 {
			// Back at the root: the outermost object's own endObject. The
			// next top-level object gets a selection of its own.
			selected = false
			continue
		}
		if !inValue {
			continue
		}

		switch tok {
		case token.StartArray:
			valueDepth++
			if valueDepth == 1 {
				unwrapArray = true
				continue
			}
		case token.EndArray:
			if valueDepth == 1 && unwrapArray {
				unwrapArray = false
				valueDepth--
				continue
			}
			valueDepth--
		}

		out.Put(tok)
	}
}
