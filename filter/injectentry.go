package filter

import (
	"sync"

	"github.com/arnodel/jtok/token"
)

// ValueTokenStream is the Go shape of spec §4.8's per-object "value token
// stream": a duplex collaborator that first observes the matched object's
// own tokens (so it can compute a value depending on the object's other
// entries), then, once Close is called, produces the tokens of the value
// to inject.
//
// Grounded on token.TransformStream's goroutine+channel pattern: a real
// implementation runs its production in its own goroutine and exposes it
// as the channel Tokens returns, the same way every other transformer in
// this package is a goroutine sending on a channel.
type ValueTokenStream interface {
	token.WriteStream

	// Close signals that no more pass-through tokens are coming (the
	// matched object's endObject was reached) and that the stream should
	// begin, or continue, producing its value tokens.
	Close()

	// Tokens returns the channel carrying the injected value's tokens,
	// closed once the value is complete. Reading it before Close is
	// undefined; implementations should block rather than panic.
	Tokens() <-chan token.Token

	// Err returns a non-nil error if production failed, checked once
	// Tokens() has closed.
	Err() error
}

// ValueTokenStreamFactory is invoked once per matching object to build
// the stream of tokens to inject for that object (spec §4.8).
type ValueTokenStreamFactory func() (ValueTokenStream, error)

// staticValueStream adapts a fixed token slice to ValueTokenStream,
// ignoring the pass-through tokens it's given. Most injected values don't
// need to react to the surrounding object's other entries.
type staticValueStream struct {
	toks []token.Token
	ch   chan token.Token
	once sync.Once
}

// NewStaticValueStream returns a ValueTokenStream that, once closed,
// yields toks in order and then signals EOF.
func NewStaticValueStream(toks []token.Token) ValueTokenStream {
	return &staticValueStream{toks: toks, ch: make(chan token.Token)}
}

func (s *staticValueStream) Put(token.Token) {}

func (s *staticValueStream) Close() {
	s.once.Do(func() {
		go func() {
			defer close(s.ch)
			for _, t := range s.toks {
				s.ch <- t
			}
		}()
	})
}

func (s *staticValueStream) Tokens() <-chan token.Token { return s.ch }
func (s *staticValueStream) Err() error                 { return nil }

// InjectEntry inserts a new key/value entry into every object matched by
// InjectionPoint, the value supplied by a fresh ValueTokenStream obtained
// from Factory per matched object (spec §4.8).
//
// Scoped to non-overlapping matches: once an object is matched, nested
// objects inside it are not independently matched even if InjectionPoint
// would otherwise accept their path (an injected value's own structure is
// never itself a second injection point).
type InjectEntry struct {
	// InjectionPoint selects which objects receive the injected entry, by
	// the joined key path of the object itself. Nil means "every
	// root-level object".
	InjectionPoint *KeyMatcher

	Key     string
	Factory ValueTokenStreamFactory

	// AutoOmitInjectionKey removes any pre-existing entry named Key
	// before injecting, via an internal omitEntry chained ahead.
	AutoOmitInjectionKey bool

	// StreamKeys / PackKeys select which key-token form(s) are emitted
	// for the injected key. If both are false, StreamKeys is forced true.
	StreamKeys bool
	PackKeys   bool
}

// NewInjectEntry returns an InjectEntry with spec §4.8's defaults:
// AutoOmitInjectionKey, StreamKeys and PackKeys all true, every root
// object matched.
func NewInjectEntry(key string, factory ValueTokenStreamFactory) *InjectEntry {
	return &InjectEntry{
		Key:                  key,
		Factory:              factory,
		AutoOmitInjectionKey: true,
		StreamKeys:           true,
		PackKeys:             true,
	}
}

var _ token.StreamTransformer = &InjectEntry{}

func (ie *InjectEntry) Transform(in <-chan token.Token, out token.WriteStream) {
	src := in
	if ie.AutoOmitInjectionKey {
		omit := &OmitEntry{Matchers: []KeyMatcher{Literal(ie.Key)}}
		src = token.TransformStream(in, omit)
	}

	streamKeys, packKeys := ie.StreamKeys, ie.PackKeys
	if !streamKeys && !packKeys {
		streamKeys = true
	}

	var keyTracker token.StackKeyTracker
	var active ValueTokenStream
	activeDepth := -1

	for tok := range src {
		if tok == token.StartObject {
			path := keyTracker.Path(".")
			stackBefore := keyTracker.Stack()
			isRootLevel := len(stackBefore) == 0 || (len(stackBefore) == 1 && stackBefore[0].IsIndex())
			keyTracker.Update(tok)
			out.Put(tok)

			if active == nil && ie.matchesInjectionPoint(path, isRootLevel) {
				stream, err := ie.Factory()
				if err != nil {
					panic(&token.FactoryError{Key: ie.Key, Err: err})
				}
				if stream == nil {
					panic(&token.UnreadableInnerStreamError{Key: ie.Key})
				}
				active = stream
				activeDepth = keyTracker.Depth()
				active.Put(tok)
			} else if active != nil {
				active.Put(tok)
			}
			continue
		}

		if tok == token.EndObject && active != nil && keyTracker.Depth() == activeDepth {
			keyTracker.Update(tok)
			active.Put(tok)
			active.Close()

			ie.injectKey(out, streamKeys, packKeys)
			for vtok := range active.Tokens() {
				out.Put(vtok)
			}
			if err := active.Err(); err != nil {
				panic(&token.FactoryError{Key: ie.Key, Err: err})
			}
			out.Put(tok)

			active = nil
			activeDepth = -1
			continue
		}

		keyTracker.Update(tok)
		out.Put(tok)
		if active != nil {
			active.Put(tok)
		}
	}
}

// matchesInjectionPoint implements spec §4.8's "if omitted, every root
// object is matched": a bare root-level object, or an object that is a
// direct element of a root-level array (the common "array of objects"
// document shape E1 exercises).
func (ie *InjectEntry) matchesInjectionPoint(path string, isRootLevel bool) bool {
	if ie.InjectionPoint != nil {
		return ie.InjectionPoint.Match(path)
	}
	return isRootLevel
}

func (ie *InjectEntry) injectKey(out token.WriteStream, streamKeys, packKeys bool) {
	if streamKeys {
		out.Put(token.StartKey)
		out.Put(token.StringChunk(ie.Key))
		out.Put(token.EndKey)
	}
	if packKeys {
		out.Put(token.KeyValue(ie.Key))
	}
}
