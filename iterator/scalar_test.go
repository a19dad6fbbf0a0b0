package iterator

import (
	"testing"

	"github.com/arnodel/jtok/token"
)

func TestScalarToGo(t *testing.T) {
	testCases := []struct {
		name string
		tok  token.Token
		want any
	}{
		{"string", token.StringValue("hello"), "hello"},
		{"integer", token.NumberValue("42"), float64(42)},
		{"float", token.NumberValue("3.5"), float64(3.5)},
		{"negative", token.NumberValue("-2"), float64(-2)},
		{"true", token.TrueValue, true},
		{"false", token.FalseValue, false},
		{"null", token.NullValue, nil},
	}
	for _, c := range testCases {
		t.Run(c.name, func(t *testing.T) {
			s := NewScalar(c.tok)
			assertEqual(t, s.ToGo(), c.want)
		})
	}
}

func TestScalarToken(t *testing.T) {
	tok := token.StringValue("x")
	s := NewScalar(tok)
	assertEqual(t, s.Token(), token.Token(tok))
}

func TestScalarCloneReturnsSelf(t *testing.T) {
	s := makeScalar(t, 1)
	clone := s.Clone()
	assertEqual(t, clone, Value(s))
}

func TestScalarDiscardIsNoop(t *testing.T) {
	s := makeScalar(t, "x")
	s.Discard()
	assertEqual(t, s.ToGo(), "x")
}

func TestScalarCopyWritesUnderlyingToken(t *testing.T) {
	s := NewScalar(token.NumberValue("7"))
	out := token.NewAccumulatorStream()
	s.Copy(out)
	got := out.GetTokens()
	assertEqual(t, len(got), 1)
	assertEqual(t, got[0], token.Token(token.NumberValue("7")))
}
