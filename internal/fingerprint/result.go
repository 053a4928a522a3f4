package fingerprint

// Version identifies the fingerprint scheme. It changes whenever the same
// packets would produce a different fingerprint.
const Version = 1

// Result is the outcome of one completed scan.
type Result struct {
	Path          string
	Algorithm     Algorithm
	Digest        Digest
	StreamDigests []Digest
	BytesHashed   int64
	Packets       int64
}

// Hex returns the combined fingerprint as lowercase hex.
func (r Result) Hex() string {
	return r.Digest.Hex()
}

// StreamHex returns the per-stream digests as lowercase hex, in stream
// index order.
func (r Result) StreamHex() []string {
	out := make([]string, len(r.StreamDigests))
	for i, d := range r.StreamDigests {
		out[i] = d.Hex()
	}
	return out
}

func (r Result) clone() Result {
	out := r
	out.Digest = append(Digest(nil), r.Digest...)
	out.StreamDigests = make([]Digest, len(r.StreamDigests))
	for i, d := range r.StreamDigests {
		out.StreamDigests[i] = append(Digest(nil), d...)
	}
	return out
}
