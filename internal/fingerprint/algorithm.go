package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"hash"
	"strings"

	"lukechampine.com/blake3"
)

// Algorithm selects the hash applied to every stream of a scan.
// Fingerprints are only comparable when produced with the same algorithm.
type Algorithm string

const (
	// SHA256 is the reference algorithm.
	SHA256 Algorithm = "sha256"
	// BLAKE3 produces 256-bit BLAKE3 digests.
	BLAKE3 Algorithm = "blake3"
)

// DigestSize is the length of every stream digest and fingerprint in bytes.
const DigestSize = 32

// ParseAlgorithm maps a configuration value to an Algorithm. An empty value
// selects SHA256.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sha256", "sha-256":
		return SHA256, nil
	case "blake3":
		return BLAKE3, nil
	default:
		return "", fmt.Errorf("unsupported hash algorithm %q", value)
	}
}

func (a Algorithm) String() string {
	if a == "" {
		return string(SHA256)
	}
	return string(a)
}

func (a Algorithm) newHash() hash.Hash {
	switch a {
	case BLAKE3:
		return blake3.New(DigestSize, nil)
	default:
		return sha256.New()
	}
}
