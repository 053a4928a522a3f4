package fingerprint

import (
	"encoding/hex"
	"fmt"
)

// Digest is a sealed stream hash or a combined fingerprint.
type Digest []byte

// Hex returns the lowercase hexadecimal rendering of d.
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

func (d Digest) String() string {
	return d.Hex()
}

// ParseDigest decodes a hexadecimal digest.
func ParseDigest(value string) (Digest, error) {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("parse digest: %w", err)
	}
	return Digest(raw), nil
}

// Combine XOR-folds equal-length digests into one fingerprint of the same
// length. The result does not depend on the order of digests.
func Combine(digests []Digest) (Digest, error) {
	if len(digests) == 0 {
		return nil, ErrNoStreams
	}
	size := len(digests[0])
	out := make(Digest, size)
	for i, d := range digests {
		if len(d) != size {
			return nil, fmt.Errorf("%w: digest %d has %d bytes, want %d", ErrDigestLengthMismatch, i, len(d), size)
		}
		for j := range d {
			out[j] ^= d[j]
		}
	}
	return out, nil
}
