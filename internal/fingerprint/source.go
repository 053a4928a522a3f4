package fingerprint

// Packet is one unit of encoded data for a single elementary stream.
// Payload is only valid until the next call to Next or Close on the
// Source that produced it.
type Packet struct {
	StreamIndex int
	Payload     []byte
}

// Source delivers the packets of a container in emission order without
// decoding them.
//
// Open reports the number of elementary streams; it fails with an error
// wrapping ErrOpen, ErrEmptyContainer or ErrStreamDiscovery. Next returns
// ErrEndOfStream once the container is exhausted and an error wrapping
// ErrRead when the demuxer fails part way. Close must be idempotent and
// safe on a source that was never opened.
type Source interface {
	Open(path string) (int, error)
	Next() (Packet, error)
	SeekStart() error
	Close() error
}
