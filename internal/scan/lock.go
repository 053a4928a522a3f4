package scan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrCatalogLocked is returned when another process holds the catalog lock.
var ErrCatalogLocked = errors.New("catalog is locked by another scan")

func acquireLock(path string) (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCatalogLocked, path)
	}
	return lock, nil
}
