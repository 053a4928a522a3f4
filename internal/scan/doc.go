// Package scan fingerprints media libraries into the catalog and verifies
// files against what the catalog recorded.
//
// A Scanner walks the requested roots, fingerprints every matching file with
// a fresh fingerprint.Engine per file, and stores the outcome. Runs hold an
// exclusive lock next to the catalog so two scans never interleave writes,
// tag every log line with a scan ID, and bound parallelism with a weighted
// semaphore. A failure on one file is reported in the Summary and the run
// moves on to the next file.
//
// The Scanner never picks a demuxer itself; callers supply a SourceFactory.
package scan
