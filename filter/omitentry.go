package filter

import "github.com/arnodel/jtok/token"

// OmitEntry drops every entry whose key path matches any of Matchers
// (spec §4.6). It runs packEntry in sparse+discard mode under a private
// owner, then strips the four sparse bracket tokens that owner leaves
// behind.
type OmitEntry struct {
	Matchers []KeyMatcher
}

var _ token.StreamTransformer = &OmitEntry{}

func (o *OmitEntry) Transform(in <-chan token.Token, out token.WriteStream) {
	owner := token.NewOwnerID()
	pack := &PackEntry{
		Matchers:               o.Matchers,
		Sparse:                 true,
		DiscardComponentTokens: true,
		Owner:                  owner,
	}
	packed := token.TransformStream(in, pack)
	for tok := range packed {
		if ownedSparseBracket(tok, owner) {
			continue
		}
		out.Put(tok)
	}
}

// ownedSparseBracket reports whether tok is one of the four sparse
// bracket tokens and was emitted by the PackEntry instance identified by
// owner.
func ownedSparseBracket(tok token.Token, owner token.OwnerID) bool {
	switch t := tok.(type) {
	case *token.SparseEntryKeyStart:
		return t.Owner == owner
	case *token.SparseEntryKeyEnd:
		return t.Owner == owner
	case *token.SparseEntryValueStart:
		return t.Owner == owner
	case *token.SparseEntryValueEnd:
		return t.Owner == owner
	}
	return false
}
