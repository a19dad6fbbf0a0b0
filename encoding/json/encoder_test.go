package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arnodel/jtok/internal/format"
	"github.com/arnodel/jtok/token"
)

func TestEncoderSimpleValues(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []token.Token
		expected string
	}{
		{"true", []token.Token{token.TrueValue}, "true"},
		{"false", []token.Token{token.FalseValue}, "false"},
		{"null", []token.Token{token.NullValue}, "null"},
		{"integer", []token.Token{token.NumberValue("42")}, "42"},
		{"negative integer", []token.Token{token.NumberValue("-123")}, "-123"},
		{"float", []token.Token{token.NumberValue("3.14")}, "3.14"},
		{"string", []token.Token{token.StringValue("hello")}, `"hello"`},
		{"empty string", []token.Token{token.StringValue("")}, `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := strings.TrimSpace(encodeTokens(t, tt.tokens))
			if output != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, output)
			}
		})
	}
}

func TestEncoderArrays(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []token.Token
		expected string
	}{
		{
			name:     "empty array",
			tokens:   []token.Token{token.StartArray, token.EndArray},
			expected: "[]",
		},
		{
			name:     "array with one element",
			tokens:   []token.Token{token.StartArray, token.NumberValue("42"), token.EndArray},
			expected: "[\n  42\n]",
		},
		{
			name: "array with multiple elements",
			tokens: []token.Token{
				token.StartArray,
				token.NumberValue("1"), token.NumberValue("2"), token.NumberValue("3"),
				token.EndArray,
			},
			expected: "[\n  1,\n  2,\n  3\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := strings.TrimSpace(encodeTokens(t, tt.tokens))
			if output != tt.expected {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.expected, output)
			}
		})
	}
}

func TestEncoderObjects(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []token.Token
		expected string
	}{
		{
			name:     "empty object",
			tokens:   []token.Token{token.StartObject, token.EndObject},
			expected: "{}",
		},
		{
			name: "object with one pair",
			tokens: []token.Token{
				token.StartObject, token.KeyValue("name"), token.StringValue("Alice"), token.EndObject,
			},
			expected: "{\n  \"name\": \"Alice\"\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := strings.TrimSpace(encodeTokens(t, tt.tokens))
			if output != tt.expected {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.expected, output)
			}
		})
	}
}

func TestEncoderCompactArrays(t *testing.T) {
	encoder := &Encoder{
		Printer:           &format.DefaultPrinter{Writer: &bytes.Buffer{}, IndentSize: 2},
		CompactWidthLimit: 20,
	}

	tokens := []token.Token{
		token.StartArray,
		token.NumberValue("1"), token.NumberValue("2"), token.NumberValue("3"),
		token.EndArray,
	}

	output := encodeWithEncoder(t, encoder, tokens)
	if !strings.Contains(output, ", ") {
		t.Errorf("expected compact format with ', ', got: %s", output)
	}
	if strings.Contains(output, "\n  1") {
		t.Errorf("expected a single compact line, got: %s", output)
	}
}

func TestEncoderCompactObjects(t *testing.T) {
	encoder := &Encoder{
		Printer:               &format.DefaultPrinter{Writer: &bytes.Buffer{}, IndentSize: 2},
		CompactObjectMaxItems: 3,
		CompactWidthLimit:     30,
	}

	tokens := []token.Token{
		token.StartObject,
		token.KeyValue("a"), token.NumberValue("1"),
		token.KeyValue("b"), token.NumberValue("2"),
		token.EndObject,
	}

	output := strings.TrimSpace(encodeWithEncoder(t, encoder, tokens))
	if strings.Contains(output, "\n") {
		t.Errorf("expected single line output for compact object, got: %s", output)
	}
}

func TestEncoderNestedStructures(t *testing.T) {
	tokens := []token.Token{
		token.StartArray,
		token.StartArray, token.NumberValue("1"), token.NumberValue("2"), token.EndArray,
		token.StartArray, token.NumberValue("3"), token.NumberValue("4"), token.EndArray,
		token.EndArray,
	}

	output := encodeTokens(t, tokens)

	if !strings.Contains(output, "[\n  [\n    1") {
		t.Errorf("expected proper nesting, got:\n%s", output)
	}
}

func TestEncoderMultipleValues(t *testing.T) {
	tokens := []token.Token{token.NumberValue("1"), token.StringValue("hello"), token.TrueValue}

	output := encodeTokens(t, tokens)
	lines := strings.Split(strings.TrimSpace(output), "\n")

	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d: %v", len(lines), lines)
	}
}

func TestEncoderSingleLine(t *testing.T) {
	var buf bytes.Buffer
	encoder := &Encoder{
		Printer: &format.DefaultPrinter{Writer: &buf, IndentSize: -1}, // Negative indent = single line
	}

	tokens := []token.Token{
		token.StartArray,
		token.NumberValue("1"), token.NumberValue("2"), token.NumberValue("3"),
		token.EndArray,
	}

	output := strings.TrimSpace(encodeWithEncoder(t, encoder, tokens))
	if strings.Contains(output, "\n") {
		t.Errorf("expected single line, got:\n%s", output)
	}
}

func TestEncoderElision(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []token.Token
		expected string
	}{
		{
			name: "array with elision",
			tokens: []token.Token{
				token.StartArray, token.NumberValue("1"), token.Elision, token.EndArray,
			},
			expected: "...",
		},
		{
			name: "object with elision",
			tokens: []token.Token{
				token.StartObject, token.KeyValue("key"), token.StringValue("value"), token.Elision, token.EndObject,
			},
			expected: "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := encodeTokens(t, tt.tokens)
			if !strings.Contains(output, tt.expected) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestEncoderComplexDocument(t *testing.T) {
	tokens := []token.Token{
		token.StartObject,
		token.KeyValue("name"), token.StringValue("John"),
		token.KeyValue("age"), token.NumberValue("30"),
		token.KeyValue("active"), token.TrueValue,
		token.KeyValue("tags"), token.StartArray, token.StringValue("admin"), token.StringValue("user"), token.EndArray,
		token.EndObject,
	}

	output := encodeTokens(t, tokens)

	requiredParts := []string{"{", "}", "\"name\"", "\"John\"", "\"age\"", "30", "true", "[", "]", "\"admin\"", "\"user\""}
	for _, part := range requiredParts {
		if !strings.Contains(output, part) {
			t.Errorf("expected output to contain %q, got:\n%s", part, output)
		}
	}
}

// Helper functions

func encodeTokens(t *testing.T, tokens []token.Token) string {
	t.Helper()
	var buf bytes.Buffer
	encoder := &Encoder{
		Printer: &format.DefaultPrinter{Writer: &buf, IndentSize: 2},
	}
	return encodeWithEncoder(t, encoder, tokens)
}

func encodeWithEncoder(t *testing.T, encoder *Encoder, tokens []token.Token) string {
	t.Helper()

	printer, ok := encoder.Printer.(*format.DefaultPrinter)
	if !ok {
		t.Fatal("expected DefaultPrinter")
	}
	buf, ok := printer.Writer.(*bytes.Buffer)
	if !ok {
		t.Fatal("expected bytes.Buffer")
	}
	buf.Reset()

	tokenChan := make(chan token.Token, len(tokens))
	for _, tok := range tokens {
		tokenChan <- tok
	}
	close(tokenChan)

	if err := encoder.Consume(tokenChan); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	return buf.String()
}
