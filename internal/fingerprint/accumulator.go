package fingerprint

import (
	"fmt"
	"hash"
)

// Accumulators holds one rolling hash per elementary stream. It knows
// nothing about containers; callers route payloads by stream index.
type Accumulators struct {
	hashes []hash.Hash
	sealed bool
}

// NewAccumulators allocates count fresh hash states using alg.
func NewAccumulators(count int, alg Algorithm) (*Accumulators, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStreamCount, count)
	}
	hashes := make([]hash.Hash, count)
	for i := range hashes {
		hashes[i] = alg.newHash()
	}
	return &Accumulators{hashes: hashes}, nil
}

// Len returns the number of streams tracked.
func (a *Accumulators) Len() int {
	return len(a.hashes)
}

// Update appends payload to the hash of stream index.
func (a *Accumulators) Update(index int, payload []byte) error {
	if a.sealed {
		return ErrSealed
	}
	if index < 0 || index >= len(a.hashes) {
		return fmt.Errorf("%w: packet for stream %d, container has %d", ErrIndexOutOfRange, index, len(a.hashes))
	}
	// hash.Hash.Write never returns an error.
	_, _ = a.hashes[index].Write(payload)
	return nil
}

// Finalize seals every stream and returns the digests in stream index
// order. The set cannot be used afterwards.
func (a *Accumulators) Finalize() ([]Digest, error) {
	if a.sealed {
		return nil, ErrSealed
	}
	a.sealed = true
	digests := make([]Digest, len(a.hashes))
	for i, h := range a.hashes {
		digests[i] = Digest(h.Sum(nil))
	}
	a.hashes = nil
	return digests, nil
}
