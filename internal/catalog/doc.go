// Package catalog persists computed media fingerprints in SQLite.
//
// Each row records one file path together with the fingerprint, the
// per-stream digests, the algorithm that produced them and the file size
// and modification time observed at scan time. The scanner uses size and
// modification time to skip unchanged files, the verifier compares fresh
// digests against stored ones, and Duplicates groups paths that share a
// fingerprint.
//
// Fingerprints made with different algorithms are never compared; the
// algorithm is part of every duplicate key.
package catalog
