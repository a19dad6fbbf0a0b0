package token

import "context"

// TokenSource produces a possibly unbounded number of tokens for
// PushMany to forward downstream. Next returns (tok, true, nil) for each
// available token, (nil, false, nil) once exhausted, and a non-nil error
// if production fails.
//
// This is the Go shape of spec §4.4's "chunks may be an array, a
// synchronous iterator, an asynchronous iterator, or a zero-argument
// producer of either" — a single interface covers all of those, since a
// slice is trivially wrapped as one (see SliceTokenSource) and an
// asynchronous producer is simply one backed by a channel or goroutine.
type TokenSource interface {
	Next() (tok Token, ok bool, err error)
}

// SliceTokenSource adapts a fixed slice of tokens to TokenSource.
type SliceTokenSource struct {
	toks []Token
	pos  int
}

// NewSliceTokenSource returns a TokenSource that yields toks in order.
func NewSliceTokenSource(toks []Token) *SliceTokenSource {
	return &SliceTokenSource{toks: toks}
}

func (s *SliceTokenSource) Next() (Token, bool, error) {
	if s.pos >= len(s.toks) {
		return nil, false, nil
	}
	tok := s.toks[s.pos]
	s.pos++
	return tok, true, nil
}

// PushMany is the Go mapping of spec §4.4's InflationStream.push_many: it
// drives src to exhaustion, pushing every token it produces to out.
//
// Spec §4.4 describes push_many suspending when the downstream buffer
// signals full, resuming on the next "flow" event, so a single input
// chunk's processing never blocks the whole pipeline. In the source
// runtime that requires dedicated continuation-saving machinery because
// stream writes are non-blocking callbacks. Every transformer in this
// repository is instead already a goroutine sending on an ordinary Go
// channel (token.TransformStream), and a channel send already blocks the
// sending goroutine — not the whole process — until the receiver is
// ready. PushMany is therefore just the iteration loop: the blocking
// inherent in out.Put (when out is backed by a channel) *is* the
// backpressure suspension point. See DESIGN.md's Open Question on this.
//
// PushMany returns ctx.Err() if ctx is cancelled before src is exhausted,
// and src's error otherwise.
func PushMany(ctx context.Context, out WriteStream, src TokenSource) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		tok, ok, err := src.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		out.Put(tok)
	}
}

// PushManyChan pushes every token received on in to out, stopping when in
// is closed or ctx is cancelled. It is PushMany's shape for the
// asynchronous-producer case (spec §4.4), where the producer is itself a
// goroutine sending on a channel rather than a pull-based TokenSource.
func PushManyChan(ctx context.Context, out WriteStream, in <-chan Token) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tok, ok := <-in:
			if !ok {
				return nil
			}
			out.Put(tok)
		}
	}
}
