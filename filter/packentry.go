package filter

import (
	"github.com/arnodel/jtok/assemble"
	"github.com/arnodel/jtok/token"
)

type packState int

const (
	pkIdle packState = iota
	pkPackingKey
	pkFinalizingKey
	pkPackingValue
	pkFinalizingValue
)

// dupKind records which streamed primitive PackEntry is waiting to see an
// optional trailing packed duplicate of (spec §3 invariant 2).
type dupKind int

const (
	dupNone dupKind = iota
	dupString
	dupNumber
)

// PackEntry scans a token stream for object entries whose key path
// matches any of Matchers, first-match-wins, and emits a synthetic token
// immediately after each matched entry's value completes (spec §4.5).
//
// In its default (non-sparse) mode it emits a single *token.PackedEntry
// carrying the fully assembled value. In Sparse mode it instead brackets
// the matched entry's key and value tokens with
// SparseEntryKeyStart/End and SparseEntryValueStart/End, without ever
// materializing the value — the mode omitEntry, selectEntry, and
// objectSieve are built on.
//
// Grounded on the teacher's iterator.Object.Advance key/value pairing
// loop, turned into an explicit state machine per spec §4.5's diagram.
type PackEntry struct {
	Matchers []KeyMatcher

	// Sparse selects bracket-token mode instead of emitting a single
	// materialized PackedEntry.
	Sparse bool

	// DiscardComponentTokens drops the matched entry's own key and value
	// tokens from the output instead of passing them through.
	DiscardComponentTokens bool

	// Owner is attached to every synthetic token this instance emits, so
	// multiple PackEntry instances in one pipeline can tell their own
	// output apart from each other's.
	Owner token.OwnerID

	keyTracker token.StackKeyTracker
	state      packState
	keyBuf     []token.Token

	matchIndex          int
	matchKey            string
	pendingSparseKeyEnd bool

	valueAssembler *assemble.FullAssembler
	awaitingDup    dupKind
}

var _ token.StreamTransformer = &PackEntry{}

func (p *PackEntry) Transform(in <-chan token.Token, out token.WriteStream) {
	for tok := range in {
		p.consume(tok, out)
	}
}

func (p *PackEntry) matcherRecord() token.Matcher {
	return token.Matcher{Index: p.matchIndex, Pattern: p.Matchers[p.matchIndex].Pattern()}
}

func (p *PackEntry) consume(tok token.Token, out token.WriteStream) {
	switch p.state {
	case pkIdle:
		p.keyTracker.Update(tok)
		if tok == token.StartKey {
			p.state = pkPackingKey
			p.keyBuf = append(p.keyBuf[:0], tok)
			return
		}
		if _, ok := tok.(token.KeyValue); ok {
			p.keyBuf = append(p.keyBuf[:0], tok)
			p.finalizeKey(out, false)
			return
		}
		out.Put(tok)
		return

	case pkPackingKey:
		p.keyTracker.Update(tok)
		p.keyBuf = append(p.keyBuf, tok)
		if tok == token.EndKey {
			p.finalizeKey(out, true)
		}
		return

	case pkFinalizingKey:
		if _, ok := tok.(token.KeyValue); ok {
			p.keyTracker.Update(tok)
			if !p.DiscardComponentTokens {
				out.Put(tok)
			}
			p.closeSparseKeyBracket(out)
			p.enterPackingValue(out)
			return
		}
		p.closeSparseKeyBracket(out)
		p.enterPackingValue(out)
		p.consume(tok, out)
		return

	case pkPackingValue:
		p.consumeValueToken(tok, out)
		return

	case pkFinalizingValue:
		p.consumeFinalizingValue(tok, out)
		return
	}
}

// finalizeKey runs once a key is fully known: immediately for a bare
// packed KeyValue (viaEndKey false), or once EndKey closes a streamed key
// (viaEndKey true, in which case a trailing packed duplicate may still
// follow per spec §3 invariant 2).
func (p *PackEntry) finalizeKey(out token.WriteStream, viaEndKey bool) {
	path := p.keyTracker.Path(".")
	idx, matched := FirstMatch(path, p.Matchers)
	if !matched {
		for _, t := range p.keyBuf {
			out.Put(t)
		}
		p.keyBuf = p.keyBuf[:0]
		p.state = pkIdle
		return
	}

	head, _ := p.keyTracker.Head(0)
	p.matchIndex = idx
	p.matchKey = head.Key()

	if p.Sparse {
		out.Put(&token.SparseEntryKeyStart{
			Key: p.matchKey, Stack: p.keyTracker.PathStrings(),
			Matcher: p.matcherRecord(), Owner: p.Owner,
		})
	}
	if !p.DiscardComponentTokens {
		for _, t := range p.keyBuf {
			out.Put(t)
		}
	}
	p.keyBuf = p.keyBuf[:0]

	if viaEndKey {
		p.state = pkFinalizingKey
		p.pendingSparseKeyEnd = p.Sparse
		return
	}
	if p.Sparse {
		out.Put(&token.SparseEntryKeyEnd{
			Key: p.matchKey, Stack: p.keyTracker.PathStrings(),
			Matcher: p.matcherRecord(), Owner: p.Owner,
		})
	}
	p.enterPackingValue(out)
}

func (p *PackEntry) closeSparseKeyBracket(out token.WriteStream) {
	if !p.pendingSparseKeyEnd {
		return
	}
	out.Put(&token.SparseEntryKeyEnd{
		Key: p.matchKey, Stack: p.keyTracker.PathStrings(),
		Matcher: p.matcherRecord(), Owner: p.Owner,
	})
	p.pendingSparseKeyEnd = false
}

func (p *PackEntry) enterPackingValue(out token.WriteStream) {
	p.state = pkPackingValue
	if p.Sparse {
		p.valueAssembler = assemble.NewSparseAssembler()
		out.Put(&token.SparseEntryValueStart{
			Key: p.matchKey, Stack: p.keyTracker.PathStrings(),
			Matcher: p.matcherRecord(), Owner: p.Owner,
		})
	} else {
		p.valueAssembler = assemble.NewFullAssembler()
	}
}

func (p *PackEntry) consumeValueToken(tok token.Token, out token.WriteStream) {
	p.keyTracker.Update(tok)
	p.valueAssembler.Consume(tok)
	if !p.DiscardComponentTokens {
		out.Put(tok)
	}
	if !p.valueAssembler.Done() {
		return
	}
	switch tok {
	case token.EndString:
		p.awaitingDup = dupString
		p.state = pkFinalizingValue
		return
	case token.EndNumber:
		p.awaitingDup = dupNumber
		p.state = pkFinalizingValue
		return
	}
	p.finishValue(out)
}

func (p *PackEntry) consumeFinalizingValue(tok token.Token, out token.WriteStream) {
	switch p.awaitingDup {
	case dupString:
		if _, ok := tok.(token.StringValue); ok {
			p.absorbValueDuplicate(tok, out)
			return
		}
	case dupNumber:
		if _, ok := tok.(token.NumberValue); ok {
			p.absorbValueDuplicate(tok, out)
			return
		}
	}
	p.finishValue(out)
	p.consume(tok, out)
}

func (p *PackEntry) absorbValueDuplicate(tok token.Token, out token.WriteStream) {
	p.keyTracker.Update(tok)
	p.valueAssembler.Consume(tok)
	if !p.DiscardComponentTokens {
		out.Put(tok)
	}
	p.finishValue(out)
}

func (p *PackEntry) finishValue(out token.WriteStream) {
	if p.Sparse {
		out.Put(&token.SparseEntryValueEnd{
			Key: p.matchKey, Stack: p.keyTracker.PathStrings(),
			Matcher: p.matcherRecord(), Owner: p.Owner,
		})
	} else {
		out.Put(&token.PackedEntry{
			Key: p.matchKey, Stack: p.keyTracker.PathStrings(),
			Matcher: p.matcherRecord(), Value: p.valueAssembler.Current().ToGo(),
			Owner: p.Owner,
		})
	}
	p.state = pkIdle
	p.valueAssembler = nil
	p.awaitingDup = dupNone
}
