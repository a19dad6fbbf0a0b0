package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/arnodel/jtok/encoding/json"
	"github.com/arnodel/jtok/internal/scanner"
	"github.com/arnodel/jtok/token"
)

// A Decoder reads CSV input and streams it into a JSON stream.
type Decoder struct {
	reader                *csv.Reader
	HasHeader             bool // When true, treat the first record as a header
	RecordsProduceObjects bool // When false, produce an array for each record, else an object
	fieldNames            []string
}

var _ token.StreamSource = &Decoder{}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{reader: csv.NewReader(in)}
}

// Produce reads a stream of CSV records, until it runs out of input or
// encounters invalid CSV, in which case it will return an error
func (d *Decoder) Produce(out chan<- token.Token) error {
	recordCount := 0
	for {
		record, err := d.reader.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if recordCount > 0 || !d.HasHeader {
			d.produceRecord(record, out)
		} else {
			// Try and get field names from the first record.
			d.SetFieldNames(record)
		}
		recordCount++
	}
}

// SetFieldNames sets the field names for records. Should be called before Produce.
func (d *Decoder) SetFieldNames(record []string) {
	d.fieldNames = append(d.fieldNames, record...)
}

func (d *Decoder) produceRecord(record []string, out chan<- token.Token) {
	if d.RecordsProduceObjects {
		out <- token.StartObject
		for i, field := range record {
			out <- token.KeyValue(d.getFieldName(i))
			out <- fieldToValue(field)
		}
		out <- token.EndObject
	} else {
		out <- token.StartArray
		for _, field := range record {
			out <- fieldToValue(field)
		}
		out <- token.EndArray
	}
}

func (d *Decoder) getFieldName(i int) string {
	if i >= len(d.fieldNames) {
		for j := len(d.fieldNames); j <= i; j++ {
			d.fieldNames = append(d.fieldNames, fmt.Sprintf("field_%d", j+1))
		}
	}
	return d.fieldNames[i]
}

func fieldToValue(field string) token.Token {
	switch field {
	case "":
		return token.NullValue
	case "true":
		return token.TrueValue
	case "false":
		return token.FalseValue
	}
	if looksLikeNumber(field) {
		scanr := scanner.NewScanner(strings.NewReader(field))
		n, err := json.ParseNumber(scanr)
		if err == nil {
			// The number must span the whole field.
			if b, rerr := scanr.Read(); rerr == nil && b == scanner.EOF {
				return n
			}
		}
	}
	return token.StringValue(field)
}

// looksLikeNumber is a cheap pre-filter so fields that obviously aren't
// numbers (e.g. "abc") don't pay for a failed scanner round-trip.
func looksLikeNumber(field string) bool {
	for _, b := range []byte(field) {
		if !(scanner.IsDigit(b) || b == '.' || b == 'e' || b == 'E' || b == '+' || b == '-') {
			return false
		}
	}
	return true
}
