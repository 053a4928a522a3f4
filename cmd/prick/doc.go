// Package main hosts the prick CLI entrypoint and command graph.
//
// The Cobra-based command tree fingerprints individual files, scans media
// libraries into the SQLite catalog, and reports duplicates and integrity
// drift from it. It centralizes configuration resolution, logger setup and
// demuxer selection so subcommands can focus on presentation.
//
// Keep this package lean: new behaviour belongs in the internal packages
// first and is surfaced here through dedicated commands or flags.
package main
