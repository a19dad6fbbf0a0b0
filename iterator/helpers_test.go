package iterator

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/arnodel/jtok/token"
)

// makeTokenStream builds a token.ReadStream out of Go values. Supported
// shapes: string, int, int64, float64, bool, nil, []any (array),
// map[string]any (object, key order is randomized by Go so tests should
// only use single-key maps or check membership rather than order).
func makeTokenStream(t *testing.T, values ...any) token.ReadStream {
	t.Helper()
	var tokens []token.Token
	for _, v := range values {
		tokens = append(tokens, valueToTokens(t, v)...)
	}
	return token.NewSliceReadStream(tokens)
}

func valueToTokens(t *testing.T, v any) []token.Token {
	t.Helper()
	switch val := v.(type) {
	case string:
		return []token.Token{token.StringValue(val)}
	case int:
		return []token.Token{token.NumberValue(strconv.Itoa(val))}
	case int64:
		return []token.Token{token.NumberValue(strconv.FormatInt(val, 10))}
	case float64:
		return []token.Token{token.NumberValue(strconv.FormatFloat(val, 'g', -1, 64))}
	case bool:
		if val {
			return []token.Token{token.TrueValue}
		}
		return []token.Token{token.FalseValue}
	case nil:
		return []token.Token{token.NullValue}
	case []any:
		toks := []token.Token{token.StartArray}
		for _, item := range val {
			toks = append(toks, valueToTokens(t, item)...)
		}
		return append(toks, token.EndArray)
	case map[string]any:
		toks := []token.Token{token.StartObject}
		for k, v := range val {
			toks = append(toks, token.KeyValue(k))
			toks = append(toks, valueToTokens(t, v)...)
		}
		return append(toks, token.EndObject)
	default:
		t.Fatalf("unsupported value type: %T", v)
		return nil
	}
}

func makeIterator(t *testing.T, values ...any) *Iterator {
	t.Helper()
	return New(makeTokenStream(t, values...))
}

func makeScalar(t *testing.T, v any) *Scalar {
	t.Helper()
	it := makeIterator(t, v)
	if !it.Advance() {
		t.Fatal("expected iterator to have a value")
	}
	scalar, ok := it.CurrentValue().(*Scalar)
	if !ok {
		t.Fatalf("expected scalar value, got %T", it.CurrentValue())
	}
	return scalar
}

func makeTestArray(t *testing.T, items ...any) *Array {
	t.Helper()
	it := makeIterator(t, items)
	if !it.Advance() {
		t.Fatal("expected iterator to have a value")
	}
	arr, ok := it.CurrentValue().(*Array)
	if !ok {
		t.Fatalf("expected array value, got %T", it.CurrentValue())
	}
	return arr
}

func makeTestObject(t *testing.T, pairs map[string]any) *Object {
	t.Helper()
	it := makeIterator(t, pairs)
	if !it.Advance() {
		t.Fatal("expected iterator to have a value")
	}
	obj, ok := it.CurrentValue().(*Object)
	if !ok {
		t.Fatalf("expected object value, got %T", it.CurrentValue())
	}
	return obj
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v", tok)
	}
	return strings.Join(parts, ", ")
}

func assertPanics(t *testing.T, expectedMsg string, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("%v", r)
			if !strings.Contains(msg, expectedMsg) {
				t.Errorf("panic message %q does not contain %q", msg, expectedMsg)
			}
		} else {
			t.Errorf("expected panic with message containing %q, but no panic occurred", expectedMsg)
		}
	}()
	f()
}

func assertEqual(t *testing.T, got, want any) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func assertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

func assertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Error(msg)
	}
}

func assertNil(t *testing.T, v any, msg string) {
	t.Helper()
	if v != nil {
		t.Errorf("%s: got %v, want nil", msg, v)
	}
}

func assertNotNil(t *testing.T, v any, msg string) {
	t.Helper()
	if v == nil {
		t.Errorf("%s: got nil, want non-nil", msg)
	}
}
