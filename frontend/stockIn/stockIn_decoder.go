package stockin

// Sink receives decoded text from a Decoder.
type Sink interface {
	Insert(value string) Insertion
}

// Decoder binds the two callbacks a scanning capability invokes per frame.
type Decoder struct {
	sink Sink
}

func NewDecoder(sink Sink) Decoder {
	return Decoder{sink: sink}
}

// OnDecodeSuccess forwards the decoded text unchanged and reports what it
// did to the session.
func (d Decoder) OnDecodeSuccess(text string) Insertion {
	return d.sink.Insert(text)
}

// OnDecodeFailure is called for every frame without a readable code.
// Nothing was found; that is not an error.
func (d Decoder) OnDecodeFailure(error) {}
