package testsupport

import (
	"context"
	"testing"
	"time"

	"prick/internal/catalog"
	"prick/internal/config"
	"prick/internal/fingerprint"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutEntry stores a minimal entry for path with the given fingerprint hex.
func PutEntry(t testing.TB, store *catalog.Store, path, hex string) catalog.Entry {
	t.Helper()

	entry := catalog.Entry{
		Path:          path,
		Size:          int64(len(path)),
		ModTime:       time.Unix(1_700_000_000, 0),
		Algorithm:     fingerprint.SHA256,
		Fingerprint:   hex,
		StreamDigests: []string{hex},
		StreamCount:   1,
		BytesHashed:   int64(len(path)),
		ScanID:        "test",
	}
	if err := store.Put(context.Background(), entry); err != nil {
		t.Fatalf("store.Put: %v", err)
	}
	return entry
}
