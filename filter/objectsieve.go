package filter

import (
	"reflect"

	"github.com/arnodel/jtok/token"
)

// ValueMatcher tests a materialized entry value (as produced by
// assemble.Value.ToGo) against a configured expectation: an exact literal,
// a deep structural subset, or an arbitrary predicate (spec §4.9).
type ValueMatcher struct {
	kind      valueMatcherKind
	literal   any
	subset    any
	predicate func(any) bool
}

type valueMatcherKind int

const (
	vmEqual valueMatcherKind = iota
	vmContains
	vmPredicate
)

// Equal matches values deeply equal to v.
func Equal(v any) ValueMatcher { return ValueMatcher{kind: vmEqual, literal: v} }

// Contains matches values that structurally contain pattern: every key of
// a pattern map must be present with a Contains-matching value, and every
// element of a pattern slice must have a Contains-matching counterpart at
// the same index in a same-length-or-longer value slice. Non-container
// patterns fall back to deep equality.
func Contains(pattern any) ValueMatcher { return ValueMatcher{kind: vmContains, subset: pattern} }

// Predicate matches values accepted by f.
func Predicate(f func(any) bool) ValueMatcher { return ValueMatcher{kind: vmPredicate, predicate: f} }

func (m ValueMatcher) Match(v any) bool {
	switch m.kind {
	case vmEqual:
		return reflect.DeepEqual(v, m.literal)
	case vmContains:
		return isStructuralSubset(m.subset, v)
	case vmPredicate:
		return m.predicate(v)
	default:
		return false
	}
}

func isStructuralSubset(pattern, value any) bool {
	switch p := pattern.(type) {
	case map[string]any:
		v, ok := value.(map[string]any)
		if !ok {
			return false
		}
		for k, pv := range p {
			vv, ok := v[k]
			if !ok || !isStructuralSubset(pv, vv) {
				return false
			}
		}
		return true
	case []any:
		v, ok := value.([]any)
		if !ok || len(v) < len(p) {
			return false
		}
		for i, pv := range p {
			if !isStructuralSubset(pv, v[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(pattern, value)
	}
}

// SieveRule pairs a key matcher with the value matcher an entry at that
// key must satisfy for ObjectSieve to release the enclosing object.
type SieveRule struct {
	Key   KeyMatcher
	Value ValueMatcher
}

type sieveObjState int

const (
	sieveCollecting sieveObjState = iota
	sieveReleased
	sieveDiscardedEarly
)

// ObjectSieve buffers every token of a root-level non-array object until
// one of Rules decides, from a materialized entry value, to release or
// discard the whole object (spec §4.9). Non-objects at root level pass
// through unchanged. An object left undecided at its endObject is
// discarded by default.
//
// Built on a non-sparse PackEntry (whose matchers are Rules' keys) rather
// than re-deriving key/value pairing, mirroring how omitEntry and
// selectEntry reuse PackEntry in other modes.
type ObjectSieve struct {
	Rules []SieveRule
}

var _ token.StreamTransformer = &ObjectSieve{}

func (s *ObjectSieve) Transform(in <-chan token.Token, out token.WriteStream) {
	owner := token.NewOwnerID()
	matchers := make([]KeyMatcher, len(s.Rules))
	for i, r := range s.Rules {
		matchers[i] = r.Key
	}
	pack := &PackEntry{Matchers: matchers, Owner: owner}
	packed := token.TransformStream(in, pack)

	var depth token.DepthTracker
	var buf []token.Token
	inObject := false
	state := sieveCollecting

	// spec §4.9: "if this is the only filter that could possibly match
	// this key (single non-regex key filter), the object is conclusively
	// unmatched" on a miss.
	singleLiteralOnly := len(s.Rules) == 1 && matchers[0].re == nil

	for tok := range packed {
		if pe, ok := tok.(*token.PackedEntry); ok && pe.Owner == owner {
			if inObject && state == sieveCollecting {
				rule := s.Rules[pe.Matcher.Index]
				if rule.Value.Match(pe.Value) {
					state = sieveReleased
					for _, t := range buf {
						out.Put(t)
					}
					buf = buf[:0]
				} else if singleLiteralOnly {
					state = sieveDiscardedEarly
					buf = buf[:0]
				}
			}
			continue
		}

		if !inObject {
			depth.Update(tok)
			if tok == token.StartObject && depth.Depth() == 1 {
				inObject = true
				state = sieveCollecting
				buf = append(buf[:0], tok)
				continue
			}
			out.Put(tok)
			continue
		}

		depth.Update(tok)
		switch state {
		case sieveReleased:
			out.Put(tok)
		case sieveDiscardedEarly:
			// dropped
		default:
			buf = append(buf, tok)
		}
		if depth.Depth() == 0 {
			if state == sieveCollecting {
				buf = buf[:0]
			}
			inObject = false
			state = sieveCollecting
		}
	}
}
