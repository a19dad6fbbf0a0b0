package iterator

import "github.com/arnodel/jtok/token"

// A ValueTransformer can transform a StreamedValue into a json stream.
// Use the AsStreamTransformer function to turn it into a
// StreamTransformer which can then be applied.
type ValueTransformer interface {
	TransformValue(value Value, out token.WriteStream)
}

// AsStreamTransformer turns a ValueTransformer into a StreamTransformer,
// so it can be applied to a json stream.
func AsStreamTransformer(transformer ValueTransformer) token.StreamTransformer {
	return &valueTransformerAdapter{valueTransformer: transformer}
}

type valueTransformerAdapter struct {
	valueTransformer ValueTransformer
}

func (f *valueTransformerAdapter) Transform(in <-chan token.Token, out token.WriteStream) {
	it := New(token.ChannelReadStream(in))
	for it.Advance() {
		f.valueTransformer.TransformValue(it.CurrentValue(), out)
	}
}
