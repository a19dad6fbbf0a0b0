package jsonpath

import (
	"math"

	"github.com/arnodel/jtok/iterator"
	"github.com/arnodel/jtok/token"
)

//
//
//

type SegmentRunner struct {
	selectors           []SelectorRunner
	lookahead           int64
	isDescendantSegment bool
}

func (r SegmentRunner) TransformValue(value iterator.Value, out token.WriteStream) {
	// We allocate decisions here because otherwise we would allocate a new
	// slice for each item in the collection.
	//
	// Hopefully escape analysis will prove that the slice can't escape, and
	// since its capacity is known, it should be allocated on the stack.  I
	// don't know if that will work because transformValue is recursive.
	decisions := make([]Decision, 0, 10)
	r.transformValue(value, decisions, out)
}

func (r SegmentRunner) transformValue(value iterator.Value, decisions []Decision, out token.WriteStream) {
	switch x := value.(type) {
	case *iterator.Object:
		for x.Advance() {
			key, value := x.CurrentKeyVal()
			decisions = r.applyKeySelectors(key, value, decisions, out)
			if r.isDescendantSegment {
				r.transformValue(value, decisions, out)
			}
		}
	case *iterator.Array:
		var index, negIndex int64
		var ahead *iterator.Array

		if r.lookahead > 0 {
			ahead = x.CloneArray()
			for negIndex+r.lookahead >= 0 && ahead.Advance() {
				negIndex--
			}
		} else {
			negIndex = math.MinInt64
		}

		for x.Advance() {
			value := x.CurrentValue()
			decisions = r.applyIndexSelectors(index, negIndex, value, decisions, out)
			index++
			if ahead != nil && !ahead.Advance() {
				negIndex++
			}
			if r.isDescendantSegment {
				r.transformValue(value, decisions, out)
			}
		}
	default:
		x.Discard()
	}
}

func (r *SegmentRunner) applyKeySelectors(key string, value iterator.Value, decisions []Decision, out token.WriteStream) []Decision {
	var selectCounts [3]int
	decisions, selectCounts = countSelectsFromKey(r.selectors, key, decisions[:0])
	perhapsCount := selectCounts[Yes] + selectCounts[DontKnow]
	for i, selector := range r.selectors {
		d := decisions[i]
		switch {
		case !d.IsMade():
			perhapsCount--
			if !selector.SelectsFromValue(value) {
				continue
			}
		case d.IsYes():
			perhapsCount--
		default:
			continue
		}
		// A descendant segment goes on to read the value after copying it.
		if perhapsCount > 0 || r.isDescendantSegment {
			value.Clone().Copy(out)
		} else {
			value.Copy(out)
		}
	}
	return decisions
}

func (r *SegmentRunner) applyIndexSelectors(index int64, negIndex int64, value iterator.Value, decisions []Decision, out token.WriteStream) []Decision {
	var selectCounts [3]int
	decisions, selectCounts = countSelectsFromIndex(r.selectors, index, negIndex, decisions[:0])
	perhapsCount := selectCounts[Yes] + selectCounts[DontKnow]
	for i, selector := range r.selectors {
		d := decisions[i]
		switch {
		case !d.IsMade():
			perhapsCount--
			if !selector.SelectsFromValue(value) {
				continue
			}
		case d.IsYes():
			perhapsCount--
		default:
			continue
		}
		if perhapsCount > 0 || r.isDescendantSegment {
			value.Clone().Copy(out)
		} else {
			value.Copy(out)
		}
	}
	return decisions
}

// baseIndex strips the NoMoreAfter bit so a Decision can index a [3]int
// count array by its DontKnow/Yes/No value alone.
func baseIndex(d Decision) Decision {
	return d & (Yes | No)
}

func countSelectsFromKey(selectors []SelectorRunner, key string, dest []Decision) ([]Decision, [3]int) {
	var counts [3]int
	for _, selector := range selectors {
		decision := selector.SelectsFromKey(key)
		dest = append(dest, decision)
		counts[baseIndex(decision)]++
	}
	return dest, counts
}

func countSelectsFromIndex(selectors []SelectorRunner, index int64, aheadIndex int64, dest []Decision) ([]Decision, [3]int) {
	var counts [3]int
	for _, selector := range selectors {
		decision := selector.SelectsFromIndex(index, aheadIndex)
		dest = append(dest, decision)
		counts[baseIndex(decision)]++
	}
	return dest, counts
}

//
//
//

// QueryRunner runs a compiled JSONPath query against a token stream. It also
// doubles as a LogicalEvaluator for existence-testing a nested relative
// query used as a filter condition (e.g. $[?@.a.b]).
type QueryRunner struct {
	isRootNodeQuery bool
	segments        []SegmentRunner
}

var _ token.StreamTransformer = QueryRunner{}
var _ LogicalEvaluator = QueryRunner{}

func (r QueryRunner) Transform(in <-chan token.Token, out token.WriteStream) {
	for _, segment := range r.segments {
		segmentTransformer := iterator.AsStreamTransformer(segment)
		in = token.TransformStream(in, segmentTransformer)
	}
	for tok := range in {
		out.Put(tok)
	}
}

// EvaluateTruth reports whether the query selects at least one node.
func (r QueryRunner) EvaluateTruth(value iterator.Value) bool {
	out := token.NewAccumulatorStream()
	in := make(chan token.Token)
	go func() {
		defer close(in)
		value.Clone().Copy(token.ChannelWriteStream(in))
	}()
	r.Transform(in, out)
	return len(out.GetTokens()) > 0
}
