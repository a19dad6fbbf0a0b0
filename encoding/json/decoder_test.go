package json

import (
	"io"
	"strings"
	"testing"

	"github.com/arnodel/jtok/token"
)

func decodeAll(t *testing.T, input string) []token.Token {
	t.Helper()
	d := NewDecoder(strings.NewReader(input))
	out := make(chan token.Token, 100)
	go func() {
		defer close(out)
		if err := d.Produce(out); err != nil && err != io.EOF {
			t.Errorf("unexpected error: %s", err)
		}
	}()
	var tokens []token.Token
	for tok := range out {
		tokens = append(tokens, tok)
	}
	return tokens
}

func assertTokens(t *testing.T, got []token.Token, want ...token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDecoderSimpleValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{"true", "true", []token.Token{token.TrueValue}},
		{"false", "false", []token.Token{token.FalseValue}},
		{"null", "null", []token.Token{token.NullValue}},
		{"integer", "42", []token.Token{token.NumberValue("42")}},
		{"negative integer", "-123", []token.Token{token.NumberValue("-123")}},
		{"float", "3.14", []token.Token{token.NumberValue("3.14")}},
		{"exponent", "1.5e10", []token.Token{token.NumberValue("1.5e10")}},
		{"string", `"hello"`, []token.Token{token.StringValue("hello")}},
		{"empty string", `""`, []token.Token{token.StringValue("")}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeAll(t, tc.input)
			assertTokens(t, got, tc.expected...)
		})
	}
}

func TestDecoderStringEscapes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"escaped quote", `"a\"b"`, `a"b`},
		{"escaped backslash", `"a\\b"`, `a\b`},
		{"escaped slash", `"a\/b"`, `a/b`},
		{"newline", `"a\nb"`, "a\nb"},
		{"tab", `"a\tb"`, "a\tb"},
		{"unicode escape", `"é"`, "é"},
		{"surrogate pair", `"😀"`, "😀"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeAll(t, tc.input)
			assertTokens(t, got, token.StringValue(tc.expected))
		})
	}
}

func TestDecoderArrays(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{
			name:     "empty array",
			input:    "[]",
			expected: []token.Token{token.StartArray, token.EndArray},
		},
		{
			name:  "single element",
			input: "[42]",
			expected: []token.Token{
				token.StartArray, token.NumberValue("42"), token.EndArray,
			},
		},
		{
			name:  "multiple elements",
			input: "[1, 2, 3]",
			expected: []token.Token{
				token.StartArray,
				token.NumberValue("1"), token.NumberValue("2"), token.NumberValue("3"),
				token.EndArray,
			},
		},
		{
			name:  "mixed elements",
			input: `[1, "hello", true, null]`,
			expected: []token.Token{
				token.StartArray,
				token.NumberValue("1"), token.StringValue("hello"), token.TrueValue, token.NullValue,
				token.EndArray,
			},
		},
		{
			name:  "nested arrays",
			input: "[[1, 2], [3, 4]]",
			expected: []token.Token{
				token.StartArray,
				token.StartArray, token.NumberValue("1"), token.NumberValue("2"), token.EndArray,
				token.StartArray, token.NumberValue("3"), token.NumberValue("4"), token.EndArray,
				token.EndArray,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeAll(t, tc.input)
			assertTokens(t, got, tc.expected...)
		})
	}
}

func TestDecoderObjects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{
			name:     "empty object",
			input:    "{}",
			expected: []token.Token{token.StartObject, token.EndObject},
		},
		{
			name:  "single entry",
			input: `{"a": 1}`,
			expected: []token.Token{
				token.StartObject, token.KeyValue("a"), token.NumberValue("1"), token.EndObject,
			},
		},
		{
			name:  "multiple entries",
			input: `{"a": 1, "b": 2}`,
			expected: []token.Token{
				token.StartObject,
				token.KeyValue("a"), token.NumberValue("1"),
				token.KeyValue("b"), token.NumberValue("2"),
				token.EndObject,
			},
		},
		{
			name:  "nested object",
			input: `{"a": {"b": 1}}`,
			expected: []token.Token{
				token.StartObject,
				token.KeyValue("a"),
				token.StartObject, token.KeyValue("b"), token.NumberValue("1"), token.EndObject,
				token.EndObject,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := decodeAll(t, tc.input)
			assertTokens(t, got, tc.expected...)
		})
	}
}

func TestDecoderMultipleTopLevelValues(t *testing.T) {
	got := decodeAll(t, `1 2 "three"`)
	assertTokens(t, got, token.NumberValue("1"), token.NumberValue("2"), token.StringValue("three"))
}

func TestDecoderJSONLines(t *testing.T) {
	got := decodeAll(t, "{\"a\":1}\n{\"a\":2}\n")
	assertTokens(t, got,
		token.StartObject, token.KeyValue("a"), token.NumberValue("1"), token.EndObject,
		token.StartObject, token.KeyValue("a"), token.NumberValue("2"), token.EndObject,
	)
}

func TestDecoderWhitespaceHandling(t *testing.T) {
	got := decodeAll(t, "  [ 1 ,  2 ]  ")
	assertTokens(t, got, token.StartArray, token.NumberValue("1"), token.NumberValue("2"), token.EndArray)
}

func TestDecoderInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated array", "[1, 2"},
		{"unterminated object", `{"a": 1`},
		{"missing colon", `{"a" 1}`},
		{"trailing comma array", "[1, 2,]"},
		{"bad literal", "tru"},
		{"unterminated string", `"hello`},
		{"control char in string", "\"a\tb\""},
		{"lone minus", "-"},
		{"bad escape", `"\x"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDecoder(strings.NewReader(tc.input))
			out := make(chan token.Token, 100)
			errCh := make(chan error, 1)
			go func() {
				defer close(out)
				errCh <- d.Produce(out)
			}()
			for range out {
			}
			if err := <-errCh; err == nil {
				t.Fatalf("expected an error for input %q", tc.input)
			}
		})
	}
}

func TestDecoderEmptyInput(t *testing.T) {
	got := decodeAll(t, "")
	if len(got) != 0 {
		t.Fatalf("expected no tokens, got %v", got)
	}
}
