// Package demux adapts container demultiplexers to fingerprint.Source.
//
// FFmpeg handles every container libavformat recognizes through cgo
// bindings; IVF files are read with a pure-Go frame reader. Neither source
// decodes payloads. Call Init once per process before opening FFmpeg
// sources; NewFFmpeg does so implicitly.
//
// Building with the nolibav tag drops the cgo dependency. The ffmpeg
// backend then fails with ErrBackendUnavailable and only IVF files can be
// fingerprinted.
package demux
