// Package fingerprint computes content fingerprints for media containers.
//
// This package has no prick-specific dependencies and could be extracted
// as a standalone library. Container parsing is delegated to a Source;
// the package only routes packets, hashes them and combines the results.
//
// A fingerprint is built in three steps:
//   - every elementary stream gets its own streaming hash, fed with the
//     payload bytes of that stream's packets in delivery order
//   - the per-stream digests are sealed in stream index order
//   - the digests are XOR-folded into one value of the same length
//
// Because only packet payloads are hashed, tags, chapters and other
// container metadata do not influence the result. The combined value is
// resistant to accidental collisions only; it is not a binding proof of
// uniqueness against an adversary.
//
// Primary entry points:
//   - Engine: drives one scan session over a Source
//   - Combine: folds stream digests into a fingerprint
//   - Throttle: decides when progress notifications are due
package fingerprint
