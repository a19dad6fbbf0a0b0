package iterator

import (
	"testing"

	"github.com/arnodel/jtok/token"
)

// doublingTransformer is a ValueTransformer that, for scalar numbers, emits
// the value twice; any other value it copies through unchanged. It exists
// only to exercise AsStreamTransformer's plumbing.
type doublingTransformer struct{}

func (doublingTransformer) TransformValue(value Value, out token.WriteStream) {
	scalar, ok := value.(*Scalar)
	if !ok {
		value.Copy(out)
		return
	}
	if _, isNumber := scalar.tok.(token.NumberValue); isNumber {
		out.Put(scalar.tok)
		out.Put(scalar.tok)
		return
	}
	scalar.Copy(out)
}

func collectTransform(t *testing.T, transformer ValueTransformer, in []token.Token) []token.Token {
	t.Helper()
	inCh := make(chan token.Token, len(in))
	for _, tok := range in {
		inCh <- tok
	}
	close(inCh)
	out := token.NewAccumulatorStream()
	AsStreamTransformer(transformer).Transform(inCh, out)
	return out.GetTokens()
}

func TestAsStreamTransformerPassesThroughScalars(t *testing.T) {
	got := collectTransform(t, doublingTransformer{}, []token.Token{token.StringValue("x")})
	assertEqual(t, len(got), 1)
	assertEqual(t, got[0], token.Token(token.StringValue("x")))
}

func TestAsStreamTransformerAppliesToEachTopLevelValue(t *testing.T) {
	in := []token.Token{token.NumberValue("1"), token.StringValue("a"), token.NumberValue("2")}
	got := collectTransform(t, doublingTransformer{}, in)
	want := []token.Token{
		token.NumberValue("1"), token.NumberValue("1"),
		token.StringValue("a"),
		token.NumberValue("2"), token.NumberValue("2"),
	}
	assertEqual(t, len(got), len(want))
	for i := range want {
		assertEqual(t, got[i], want[i])
	}
}

func TestAsStreamTransformerPassesThroughCollections(t *testing.T) {
	in := []token.Token{
		token.StartArray, token.NumberValue("1"), token.NumberValue("2"), token.EndArray,
	}
	got := collectTransform(t, doublingTransformer{}, in)
	assertEqual(t, len(got), len(in))
	for i := range in {
		assertEqual(t, got[i], in[i])
	}
}

func TestAsStreamTransformerEmptyInput(t *testing.T) {
	got := collectTransform(t, doublingTransformer{}, nil)
	assertEqual(t, len(got), 0)
}
