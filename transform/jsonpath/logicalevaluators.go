package jsonpath

import (
	"slices"

	"github.com/arnodel/jtok/iterator"
)

type LogicalEvaluator interface {

	// EvaluateTruth returns true if the value fulfils the condition.
	// It should keep value untouched.
	EvaluateTruth(value iterator.Value) bool
}

var _ LogicalEvaluator = LogicalOrEvaluator{}
var _ LogicalEvaluator = LogicalAndEvaluator{}
var _ LogicalEvaluator = LogicalNotEvaluator{}
var _ LogicalEvaluator = ComparisonEvaluator{}
var _ LogicalEvaluator = QueryRunner{}

type LogicalOrEvaluator struct {
	Arguments []LogicalEvaluator
}

func (e LogicalOrEvaluator) EvaluateTruth(value iterator.Value) bool {
	for _, arg := range e.Arguments {
		if arg.EvaluateTruth(value) {
			return true
		}
	}
	return false
}

type LogicalAndEvaluator struct {
	Arguments []LogicalEvaluator
}

func (e LogicalAndEvaluator) EvaluateTruth(value iterator.Value) bool {
	for _, arg := range e.Arguments {
		if !arg.EvaluateTruth(value) {
			return false
		}
	}
	return true
}

type LogicalNotEvaluator struct {
	Argument LogicalEvaluator
}

func (e LogicalNotEvaluator) EvaluateTruth(value iterator.Value) bool {
	return !e.Argument.EvaluateTruth(value)
}

type ComparisonEvaluator struct {
	left  ComparableEvaluator
	flags ComparisonFlags
	right ComparableEvaluator
}

type ComparisonFlags uint8

const (
	CheckEquals ComparisonFlags = 1 << iota
	CheckLessThan
	NegateResult
)

func (e ComparisonEvaluator) EvaluateTruth(value iterator.Value) bool {
	value1 := value.Clone()
	value2 := value.Clone()
	leftValue := e.left.Evaluate(value1)
	rightValue := e.right.Evaluate(value2)
	result := false
	if e.flags&CheckEquals != 0 {
		result = checkEquals(leftValue, rightValue)
	}
	if !result && e.flags&CheckLessThan != 0 {
		result = checkLessThan(leftValue, rightValue)
	}
	return result != (e.flags&NegateResult != 0)
}

// This does advance the arguments
func checkEquals(left iterator.Value, right iterator.Value) bool {
	if left == nil {
		return right == nil
	}
	if right == nil {
		return false
	}
	switch x := left.(type) {
	case *iterator.Scalar:
		y, ok := right.(*iterator.Scalar)
		if !ok {
			return false
		}
		return checkScalarEquals(x, y)
	case *iterator.Object:
		y, ok := right.(*iterator.Object)
		if !ok {
			return false
		}
		return checkObjectEquals(x, y)
	case *iterator.Array:
		y, ok := right.(*iterator.Array)
		if !ok {
			return false
		}
		return checkArrayEquals(x, y)
	default:
		panic("invalid value")
	}
}

// This doesn't advance the arguments
func safeCheckEquals(left iterator.Value, right iterator.Value) bool {
	// We could have a quick path for when left and right are scalars
	return checkEquals(left.Clone(), right.Clone())
}

func checkScalarEquals(left *iterator.Scalar, right *iterator.Scalar) bool {
	return left.Token() == right.Token()
}

func checkObjectEquals(left *iterator.Object, right *iterator.Object) bool {
	// Currently optimised for the case when the number of keys is small or the
	// keys are in a very similar order, because it makes the implementation
	// simple.  It's also probably good enough for many cases, but can be very
	// slow if both objects have many keys and they are in very different orders.

	type kvPair struct {
		key string
		val iterator.Value
	}

	var pending []kvPair // Stores key-values in right which haven't been matched yet

iterateLeft:
	for left.Advance() {
		key, val := left.CurrentKeyVal()
		for i, p := range pending {
			if p.key != key {
				continue
			}
			if !safeCheckEquals(p.val, val) {
				return false
			}
			// We have matched the pending item with the current item from left.
			pending = slices.Delete(pending, i, i+1)
			continue iterateLeft
		}
		// Not found in pending, so consume right until we find it
		for right.Advance() {
			keyRight, valRight := right.CurrentKeyVal()

			// If the key is not the one we want, store the key-value in pending
			// items
			if keyRight != key {
				pending = append(pending, kvPair{keyRight, valRight.Clone()})
				continue
			}
			if !safeCheckEquals(valRight, val) {
				return false
			}
			// We have matched!
			continue iterateLeft
		}
		// At this point, we have consumed the whole of right and not found a
		// matching key.
		return false
	}
	// The objects are equal if right has no more items
	return len(pending) == 0 && !right.Advance()
}

func checkArrayEquals(left *iterator.Array, right *iterator.Array) bool {
	for left.Advance() {
		if !right.Advance() {
			return false
		}
		if !checkEquals(left.CurrentValue(), right.CurrentValue()) {
			return false
		}
	}
	// The arrays are equal if right has no more items.
	return !right.Advance()
}

func checkLessThan(left iterator.Value, right iterator.Value) bool {
	if left == nil || right == nil {
		return false
	}
	x, ok := left.(*iterator.Scalar)
	if !ok {
		return false
	}
	y, ok := right.(*iterator.Scalar)
	if !ok {
		return false
	}
	switch xx := x.ToGo().(type) {
	case float64:
		yy, ok := y.ToGo().(float64)
		return ok && xx < yy
	case string:
		yy, ok := y.ToGo().(string)
		return ok && xx < yy
	default:
		return false
	}
}
