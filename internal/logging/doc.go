// Package logging assembles structured slog loggers and formatting helpers used
// across prick.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so scan code can tag log lines with
// the scan ID and the file being fingerprinted. The package also provides a
// no-op logger for tests and library callers that do not want output.
package logging
