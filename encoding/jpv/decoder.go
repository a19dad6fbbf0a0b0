package jpv

import (
	"errors"
	"io"

	"github.com/arnodel/jtok/encoding/json"
	"github.com/arnodel/jtok/internal/scanner"
	"github.com/arnodel/jtok/token"
)

// Decoder reads input in JPV format and streams it into a JSON stream.
//
// JPV is a format that can represent values where each line specifies a leaf
// value and its path.  Lines are separated by '\n' and are of the form
//
//	<path> = <value>
//
// where <path> is a JSONPath and <value> is a JSON value.  E.g.
//
//	{"name": "Dan", "parent_ids": [132, 7650]}
//
// is represented as
//
//	$.name = "Dan"
//	$.parent_ids[0] = 132
//	$.parent_ids[1] = 7650
//
// The potential value in this format is that it can be piped through grep and
// other unix utilities to be filtered / transformed, then turned back into JSON.
type Decoder struct {
	scanr    *scanner.Scanner
	lastPath []pathSegment
}

// A pathSegment is one element of a JPV path: either an object key or an
// array index. Arrays don't carry their indices as stream tokens, but the
// Decoder compares indices between consecutive lines to tell where one
// array element ends and the next begins.
type pathSegment struct {
	key   string
	index int
	isKey bool
}

var _ token.StreamSource = &Decoder{}

// NewDecoder sets up a new Decoder instance to read from the given
// input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(in)}
}

// Produce reads a stream of JPV values and streams them, until it runs out of
// input or encounters invalid JPV, in which case it will return an error.
func (d *Decoder) Produce(out chan<- token.Token) error {
	defer func() {
		unwindPath(d.lastPath, false, out)
	}()
	for {
		b, err := d.scanr.SkipSpaceAndPeek()
		if err != nil || b == scanner.EOF {
			return err
		}
		if err := d.parseLine(out); err != nil {
			return err
		}
	}
}

func (d *Decoder) parseLine(out chan<- token.Token) error {
	if err := json.ExpectByte(d.scanr, '$'); err != nil {
		return err
	}
	linePath, err := parsePath(d.scanr)
	if err != nil {
		return err
	}
	b, err := checkEOF(d.scanr.SkipSpaceAndRead())
	if err != nil {
		return err
	}
	if b != '=' {
		d.scanr.Back()
		return json.UnexpectedByte(d.scanr, "expected '=', got")
	}
	if err := d.updatePath(linePath, out); err != nil {
		return err
	}
	jsonDecoder := json.NewDecoderFromScanner(d.scanr)
	return jsonDecoder.ParseValue(out)
}

func (d *Decoder) updatePath(newPath []pathSegment, out chan<- token.Token) error {
	if len(d.lastPath) == 0 {
		followPath(newPath, false, out)
		d.lastPath = newPath
		return nil
	}
	divergenceIndex := -1
	for i, seg := range d.lastPath {
		if i >= len(newPath) {
			return errors.New("inconsistent path: cannot be a prefix of the previous path")
		}
		newSeg := newPath[i]
		if seg != newSeg {
			if seg.isKey != newSeg.isKey {
				return errors.New("inconsistent path: key types differ")
			}
			divergenceIndex = i
			break
		}
	}
	if divergenceIndex == -1 {
		return errors.New("inconsistent path: cannot extend previous path")
	}

	// Close objects and arrays that we are no longer in.
	unwindPath(d.lastPath[divergenceIndex:], true, out)

	// Open the objects and arrays the new path is in.
	followPath(newPath[divergenceIndex:], true, out)
	d.lastPath = newPath
	return nil
}

func unwindPath(path []pathSegment, inCollection bool, out chan<- token.Token) {
	for i := len(path) - 1; i >= 0; i-- {
		if i > 0 || !inCollection {
			if path[i].isKey {
				out <- token.EndObject
			} else {
				out <- token.EndArray
			}
		}
	}
}

func followPath(path []pathSegment, inCollection bool, out chan<- token.Token) {
	for _, seg := range path {
		if seg.isKey {
			if !inCollection {
				out <- token.StartObject
			}
			out <- token.KeyValue(seg.key)
		} else if !inCollection {
			out <- token.StartArray
		}
		inCollection = false
	}
}

// checkEOF checks if there's an error or if the byte is scanner.EOF.
// If err is not nil, it returns (b, err).
// If b is scanner.EOF, it returns (0, io.EOF).
// Otherwise it returns (b, nil).
func checkEOF(b byte, err error) (byte, error) {
	if err != nil {
		return b, err
	}
	if b == scanner.EOF {
		return 0, io.EOF
	}
	return b, nil
}

func parsePath(scanr *scanner.Scanner) ([]pathSegment, error) {
	var path []pathSegment
	for {
		b, err := checkEOF(scanr.Read())
		if err != nil {
			// That's ok because paths are followed by a value.
			return nil, err
		}
		switch {
		case b == '[':
			b, err = checkEOF(scanr.Peek())
			if err != nil {
				return nil, err
			}
			if b == '"' {
				s, err := json.ParseString(scanr)
				if err != nil {
					return nil, err
				}
				path = append(path, pathSegment{key: string(s), isKey: true})
				b, err = checkEOF(scanr.Read())
				if err != nil {
					return nil, err
				}
			} else {
				var n int
				scanr.StartToken()
				b, n, err = json.ReadDigits(scanr)
				if err != nil {
					return nil, err
				}
				if n == 0 {
					scanr.Back()
					return nil, json.UnexpectedByte(scanr, "expected digit, got")
				}
				digits := scanr.EndToken()
				index := 0
				for _, c := range digits[:n] {
					index = index*10 + int(c-'0')
				}
				path = append(path, pathSegment{index: index, isKey: false})
			}
			if b != ']' {
				return nil, errors.New("syntax error: expected ']'")
			}
		case b == '.':
			scanr.StartToken()
			b, err = checkEOF(scanr.Read())
			if err != nil {
				return nil, err
			}
			if !scanner.IsAlpha(b) {
				scanr.Back()
				return nil, json.UnexpectedByte(scanr, "expected a-z/A-Z/_, got")
			}
			for {
				b, err = checkEOF(scanr.Read())
				if err != nil {
					return nil, err
				}
				if !scanner.IsAlnum(b) {
					scanr.Back()
					keyBytes := scanr.EndToken()
					path = append(path, pathSegment{key: string(keyBytes), isKey: true})
					break
				}
			}
		default:
			scanr.Back()
			return path, nil
		}
	}
}
