package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"prick/internal/catalog"
	"prick/internal/logging"
)

// VerifyStatus classifies one verification outcome.
type VerifyStatus string

const (
	VerifyMatch    VerifyStatus = "match"
	VerifyMismatch VerifyStatus = "mismatch"
	// VerifyUnknown means the catalog has no entry for the path.
	VerifyUnknown VerifyStatus = "unknown"
	// VerifyMissing means the catalog has an entry but the file is gone.
	VerifyMissing VerifyStatus = "missing"
	VerifyError   VerifyStatus = "error"
)

// Verification is the outcome of re-fingerprinting one file.
type Verification struct {
	Path              string       `json:"path"`
	Status            VerifyStatus `json:"status"`
	Expected          string       `json:"expected,omitempty"`
	Actual            string       `json:"actual,omitempty"`
	MismatchedStreams []int        `json:"mismatched_streams,omitempty"`
	Err               error        `json:"-"`
}

// Failed reports whether the outcome should fail a verify run.
func (v Verification) Failed() bool {
	switch v.Status {
	case VerifyMismatch, VerifyMissing, VerifyError:
		return true
	default:
		return false
	}
}

// Verify recomputes fingerprints for paths and compares them with the
// catalog. An empty paths list verifies every catalog entry; directories
// are expanded the same way Run expands them. Each file is hashed with the
// algorithm its entry was recorded with.
func (s *Scanner) Verify(ctx context.Context, paths []string) ([]Verification, error) {
	if s.store == nil {
		return nil, errors.New("scan: catalog store is required")
	}
	if len(paths) == 0 {
		entries, err := s.store.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			paths = append(paths, entry.Path)
		}
	} else {
		expanded, err := s.expandDirectories(paths)
		if err != nil {
			return nil, err
		}
		paths = expanded
	}

	results := make([]Verification, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		v := s.verifyOne(ctx, path)
		logger := logging.WithContext(logging.WithPath(ctx, path), s.logger)
		if v.Failed() {
			logging.WarnWithContext(logger, "verification failed", "verify_"+string(v.Status), "",
				logging.String("expected", v.Expected),
				logging.String("actual", v.Actual),
			)
		} else {
			logger.Debug("verified", logging.String("status", string(v.Status)))
		}
		results = append(results, v)
	}
	return results, nil
}

// expandDirectories replaces directory paths with the media files Collect
// finds beneath them. Other paths, including missing ones, pass through.
func (s *Scanner) expandDirectories(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			out = append(out, path)
			continue
		}
		files, err := s.Collect([]string{path})
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func (s *Scanner) verifyOne(ctx context.Context, path string) Verification {
	v := Verification{Path: path}

	entry, err := s.store.Get(ctx, path)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		v.Status = VerifyUnknown
		return v
	case err != nil:
		v.Status, v.Err = VerifyError, err
		return v
	}
	v.Expected = entry.Fingerprint

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		v.Status = VerifyMissing
		return v
	case err != nil:
		v.Status, v.Err = VerifyError, fmt.Errorf("stat %s: %w", path, err)
		return v
	}

	res, err := s.compute(logging.WithPath(ctx, path), path, entry.Algorithm, info.Size(), nil)
	if err != nil {
		v.Status, v.Err = VerifyError, err
		return v
	}
	v.Actual = res.Hex()
	v.MismatchedStreams = diffStreams(entry.StreamDigests, res.StreamHex())
	if strings.EqualFold(v.Actual, v.Expected) && len(v.MismatchedStreams) == 0 {
		v.Status = VerifyMatch
	} else {
		v.Status = VerifyMismatch
	}
	return v
}

// diffStreams returns the stream indexes whose digests differ, including
// indexes present on only one side.
func diffStreams(want, got []string) []int {
	n := max(len(want), len(got))
	var out []int
	for i := 0; i < n; i++ {
		if i >= len(want) || i >= len(got) || !strings.EqualFold(want[i], got[i]) {
			out = append(out, i)
		}
	}
	return out
}
