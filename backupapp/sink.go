package backupapp

import (
	"fmt"
	"os"

	"github.com/arnodel/jtok/encoding/json"
	"github.com/arnodel/jtok/internal/format"
	"github.com/arnodel/jtok/token"
)

// A FileSink consumes a token stream, encodes it as JSON and writes it to
// Path. If encoding or writing fails partway through, the partial output is
// renamed with a "-partial" suffix before the error is returned, so a failed
// backup run never leaves a file that looks like a complete one at Path
// (spec.md §6.2's sink collaborator, §7's "user-visible behavior").
type FileSink struct {
	Path       string
	IndentSize int
}

var _ token.StreamSink = &FileSink{}

// NewFileSink returns a FileSink writing two-space-indented JSON to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path, IndentSize: 2}
}

func (s *FileSink) Consume(stream <-chan token.Token) (err error) {
	f, err := os.Create(s.Path)
	if err != nil {
		return &ExternalIOError{Op: "create " + s.Path, Err: err}
	}

	// Defers run in LIFO order, so the recover defer (registered second,
	// below) runs before this one and will already have turned a
	// malformed-stream panic into a regular err by the time this runs.
	defer func() {
		closeErr := f.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			if renameErr := os.Rename(s.Path, s.Path+"-partial"); renameErr != nil {
				err = &ExternalIOError{Op: "rename partial output", Err: renameErr}
				return
			}
			err = &ExternalIOError{Op: "write " + s.Path, Err: err}
		}
	}()

	// Turns a malformed-stream panic (the iterator package panics with a
	// plain string, not a *format.PrinterError, on an unbalanced
	// object/array) into a regular error so the defer above always sees
	// a non-nil err and renames the partial output.
	defer func() {
		if r := recover(); r != nil {
			err = &ExternalIOError{Op: "encode " + s.Path, Err: fmt.Errorf("%v", r)}
		}
	}()

	encoder := &json.Encoder{
		Printer: &format.DefaultPrinter{Writer: f, IndentSize: s.IndentSize},
	}
	return encoder.Consume(stream)
}
