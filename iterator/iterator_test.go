package iterator

import (
	"testing"

	"github.com/arnodel/jtok/token"
)

func TestIteratorAdvanceTopLevelValues(t *testing.T) {
	it := makeIterator(t, 1, "two", true, nil)

	assertTrue(t, it.Advance(), "expected a first value")
	scalar, ok := it.CurrentValue().(*Scalar)
	assertTrue(t, ok, "expected a scalar")
	assertEqual(t, scalar.ToGo(), float64(1))

	assertTrue(t, it.Advance(), "expected a second value")
	scalar, ok = it.CurrentValue().(*Scalar)
	assertTrue(t, ok, "expected a scalar")
	assertEqual(t, scalar.ToGo(), "two")

	assertTrue(t, it.Advance(), "expected a third value")
	scalar, ok = it.CurrentValue().(*Scalar)
	assertTrue(t, ok, "expected a scalar")
	assertEqual(t, scalar.ToGo(), true)

	assertTrue(t, it.Advance(), "expected a fourth value")
	scalar, ok = it.CurrentValue().(*Scalar)
	assertTrue(t, ok, "expected a scalar")
	assertNil(t, scalar.ToGo(), "expected nil")

	assertFalse(t, it.Advance(), "expected the stream to be exhausted")
}

func TestIteratorAdvanceDiscardsUnreadValue(t *testing.T) {
	it := makeIterator(t, []any{1, 2, 3}, "next")

	assertTrue(t, it.Advance(), "expected a first value")
	_, ok := it.CurrentValue().(*Array)
	assertTrue(t, ok, "expected an array")
	// Note: we never read a single element of the array.

	assertTrue(t, it.Advance(), "expected a second value")
	scalar, ok := it.CurrentValue().(*Scalar)
	assertTrue(t, ok, "expected a scalar")
	assertEqual(t, scalar.ToGo(), "next")
}

func TestIteratorEmptyStream(t *testing.T) {
	it := New(token.NewSliceReadStream(nil))
	assertFalse(t, it.Advance(), "expected an empty stream to yield no value")
	assertNil(t, it.CurrentValue(), "current value of an exhausted iterator")
}

func TestIteratorNestedCollections(t *testing.T) {
	it := makeIterator(t, map[string]any{"items": []any{1, 2}})

	assertTrue(t, it.Advance(), "expected a value")
	obj, ok := it.CurrentValue().(*Object)
	assertTrue(t, ok, "expected an object")

	assertTrue(t, obj.Advance(), "expected an entry")
	key, val := obj.CurrentKeyVal()
	assertEqual(t, key, "items")
	arr, ok := val.(*Array)
	assertTrue(t, ok, "expected an array value")

	var got []float64
	for arr.Advance() {
		scalar := arr.CurrentValue().(*Scalar)
		got = append(got, scalar.ToGo().(float64))
	}
	assertEqual(t, len(got), 2)
	assertEqual(t, got[0], float64(1))
	assertEqual(t, got[1], float64(2))

	assertFalse(t, obj.Advance(), "expected no more entries")
}
