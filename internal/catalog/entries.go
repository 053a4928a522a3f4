package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"prick/internal/fingerprint"
)

// ErrNotFound is returned when no catalog entry exists for a path.
var ErrNotFound = errors.New("catalog entry not found")

// Entry is one fingerprinted file.
type Entry struct {
	Path          string                `json:"path"`
	Size          int64                 `json:"size"`
	ModTime       time.Time             `json:"mod_time"`
	Algorithm     fingerprint.Algorithm `json:"algorithm"`
	Fingerprint   string                `json:"fingerprint"`
	StreamDigests []string              `json:"stream_digests"`
	StreamCount   int                   `json:"stream_count"`
	BytesHashed   int64                 `json:"bytes_hashed"`
	ScanID        string                `json:"scan_id,omitempty"`
	ScannedAt     time.Time             `json:"scanned_at"`
}

// EntryFromResult builds an entry from a finalized engine result and the
// file attributes observed before hashing.
func EntryFromResult(res fingerprint.Result, size int64, modTime time.Time, scanID string) Entry {
	return Entry{
		Path:          res.Path,
		Size:          size,
		ModTime:       modTime,
		Algorithm:     res.Algorithm,
		Fingerprint:   res.Hex(),
		StreamDigests: res.StreamHex(),
		StreamCount:   len(res.StreamDigests),
		BytesHashed:   res.BytesHashed,
		ScanID:        scanID,
		ScannedAt:     time.Now().UTC(),
	}
}

// Unchanged reports whether the entry still describes a file with the given
// size and modification time hashed with alg.
func (e Entry) Unchanged(size int64, modTime time.Time, alg fingerprint.Algorithm) bool {
	return e.Size == size && e.ModTime.Equal(modTime) && e.Algorithm == alg
}

const entryColumns = "path, size, mod_time_ns, algorithm, fingerprint, stream_digests_json, stream_count, bytes_hashed, scan_id, scanned_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry      Entry
		modTimeNS  int64
		algorithm  string
		digestsRaw string
		scannedRaw string
	)
	if err := scanner.Scan(
		&entry.Path,
		&entry.Size,
		&modTimeNS,
		&algorithm,
		&entry.Fingerprint,
		&digestsRaw,
		&entry.StreamCount,
		&entry.BytesHashed,
		&entry.ScanID,
		&scannedRaw,
	); err != nil {
		return Entry{}, err
	}
	entry.ModTime = time.Unix(0, modTimeNS)
	entry.Algorithm = fingerprint.Algorithm(algorithm)
	if err := json.Unmarshal([]byte(digestsRaw), &entry.StreamDigests); err != nil {
		return Entry{}, fmt.Errorf("decode stream digests for %s: %w", entry.Path, err)
	}
	if t, err := time.Parse(time.RFC3339Nano, scannedRaw); err == nil {
		entry.ScannedAt = t
	}
	return entry, nil
}

// Put inserts or replaces the entry for e.Path.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.Path == "" {
		return errors.New("catalog entry path is empty")
	}
	digests := e.StreamDigests
	if digests == nil {
		digests = []string{}
	}
	encoded, err := json.Marshal(digests)
	if err != nil {
		return fmt.Errorf("encode stream digests: %w", err)
	}
	scannedAt := e.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}

	_, err = s.execWithRetry(ctx, `INSERT INTO fingerprints (`+entryColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            size = excluded.size,
            mod_time_ns = excluded.mod_time_ns,
            algorithm = excluded.algorithm,
            fingerprint = excluded.fingerprint,
            stream_digests_json = excluded.stream_digests_json,
            stream_count = excluded.stream_count,
            bytes_hashed = excluded.bytes_hashed,
            scan_id = excluded.scan_id,
            scanned_at = excluded.scanned_at`,
		e.Path,
		e.Size,
		e.ModTime.UnixNano(),
		string(e.Algorithm),
		e.Fingerprint,
		string(encoded),
		e.StreamCount,
		e.BytesHashed,
		e.ScanID,
		scannedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", e.Path, err)
	}
	return nil
}

// Get returns the entry stored for path or ErrNotFound.
func (s *Store) Get(ctx context.Context, path string) (Entry, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM fingerprints WHERE path = ?", path)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get %s: %w", path, err)
	}
	return entry, nil
}

// List returns every entry ordered by path.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	return s.query(ctx, "SELECT "+entryColumns+" FROM fingerprints ORDER BY path")
}

// ListByFingerprint returns entries sharing a fingerprint under alg.
func (s *Store) ListByFingerprint(ctx context.Context, alg fingerprint.Algorithm, hex string) ([]Entry, error) {
	return s.query(ctx,
		"SELECT "+entryColumns+" FROM fingerprints WHERE algorithm = ? AND fingerprint = ? ORDER BY path",
		string(alg), hex)
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry for path. Removing an absent path is not an error.
func (s *Store) Remove(ctx context.Context, path string) error {
	if _, err := s.execWithRetry(ctx, "DELETE FROM fingerprints WHERE path = ?", path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// Prune removes entries whose path no longer exists according to exists and
// returns the removed paths.
func (s *Store) Prune(ctx context.Context, exists func(string) bool) ([]string, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, entry := range entries {
		if err := ensureContext(ctx).Err(); err != nil {
			return removed, err
		}
		if exists(entry.Path) {
			continue
		}
		if err := s.Remove(ctx, entry.Path); err != nil {
			return removed, err
		}
		removed = append(removed, entry.Path)
	}
	return removed, nil
}
