package catalog

import (
	"context"
	"fmt"
	"strings"

	"prick/internal/fingerprint"
)

// DuplicateGroup lists the paths that share one fingerprint.
type DuplicateGroup struct {
	Algorithm   fingerprint.Algorithm `json:"algorithm"`
	Fingerprint string                `json:"fingerprint"`
	Paths       []string              `json:"paths"`
}

// Duplicates returns every fingerprint recorded for more than one path,
// ordered by algorithm and fingerprint. Paths within a group are sorted.
func (s *Store) Duplicates(ctx context.Context) ([]DuplicateGroup, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
        SELECT f.algorithm, f.fingerprint, f.path
        FROM fingerprints f
        JOIN (
            SELECT algorithm, fingerprint
            FROM fingerprints
            GROUP BY algorithm, fingerprint
            HAVING COUNT(*) > 1
        ) d ON d.algorithm = f.algorithm AND d.fingerprint = f.fingerprint
        ORDER BY f.algorithm, f.fingerprint, f.path`)
	if err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	defer rows.Close()

	var groups []DuplicateGroup
	for rows.Next() {
		var alg, hex, path string
		if err := rows.Scan(&alg, &hex, &path); err != nil {
			return nil, fmt.Errorf("scan duplicate row: %w", err)
		}
		n := len(groups)
		if n == 0 || string(groups[n-1].Algorithm) != alg || !strings.EqualFold(groups[n-1].Fingerprint, hex) {
			groups = append(groups, DuplicateGroup{Algorithm: fingerprint.Algorithm(alg), Fingerprint: hex})
			n++
		}
		groups[n-1].Paths = append(groups[n-1].Paths, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duplicates: %w", err)
	}
	return groups, nil
}

// Stats summarizes catalog contents.
type Stats struct {
	Entries         int   `json:"entries"`
	TotalSize       int64 `json:"total_size"`
	TotalHashed     int64 `json:"total_hashed"`
	DuplicateGroups int   `json:"duplicate_groups"`
	DuplicateFiles  int   `json:"duplicate_files"`
}

// Stats returns aggregate counts over the catalog.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(size), 0), COALESCE(SUM(bytes_hashed), 0) FROM fingerprints",
	).Scan(&stats.Entries, &stats.TotalSize, &stats.TotalHashed); err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(*), COALESCE(SUM(n), 0) FROM (
            SELECT COUNT(*) AS n FROM fingerprints
            GROUP BY algorithm, fingerprint HAVING COUNT(*) > 1
        )`,
	).Scan(&stats.DuplicateGroups, &stats.DuplicateFiles); err != nil {
		return Stats{}, fmt.Errorf("query duplicate stats: %w", err)
	}
	return stats, nil
}
