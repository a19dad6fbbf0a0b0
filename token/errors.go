package token

import "fmt"

// MalformedTokenStreamError reports a token that violates the push-down
// grammar described in spec §3 (an unexpected close, an orphan chunk, and
// so on). It is a programmer error in the sense of spec §4.3's "Failure
// semantics" — this library is not an input validator — but callers that
// want to recover rather than panic can check for it with errors.As.
//
// Grounded on the constructor-function error style of
// encoding/json/decoder.go's UnexpectedByte.
type MalformedTokenStreamError struct {
	Reason string
	Token  Token
}

func (e *MalformedTokenStreamError) Error() string {
	if e.Token == nil {
		return fmt.Sprintf("malformed token stream: %s", e.Reason)
	}
	return fmt.Sprintf("malformed token stream: %s: %s", e.Reason, e.Token)
}

// BackpressureDeadlockError reports that an InjectEntry value stream could
// not be drained because its producer filled its buffer before entering
// flowing mode (spec §4.8).
type BackpressureDeadlockError struct {
	Key string
}

func (e *BackpressureDeadlockError) Error() string {
	return fmt.Sprintf("backpressure deadlock: value token stream for key %q high water mark reached", e.Key)
}

// FactoryError wraps an error raised by a ValueTokenStreamFactory or by
// the stream it returned (spec §4.8, §7).
type FactoryError struct {
	Key string
	Err error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("value token stream factory for key %q: %s", e.Key, e.Err)
}

func (e *FactoryError) Unwrap() error { return e.Err }

// UnreadableInnerStreamError reports that a ValueTokenStreamFactory
// returned a stream with no readable side (spec §4.8).
type UnreadableInnerStreamError struct {
	Key string
}

func (e *UnreadableInnerStreamError) Error() string {
	return fmt.Sprintf("value token stream for key %q is not readable", e.Key)
}
