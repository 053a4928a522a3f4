package preflight

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"prick/internal/catalog"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCatalog opens an existing catalog and reads its summary counts. A
// missing catalog passes, since the first scan creates it.
func CheckCatalog(ctx context.Context, path string) Result {
	const name = "Catalog"

	// Opening creates the file and schema; a status check must not.
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not created yet)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}

	store, err := catalog.Open(path)
	if err != nil {
		if errors.Is(err, catalog.ErrSchemaMismatch) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: open: %v)", path, err)}
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries, %d duplicate groups)",
		path, stats.Entries, stats.DuplicateGroups)}
}

// CheckCatalogLock reports whether a scan currently holds the catalog lock.
// A held lock is not a failure; it only means writes will wait.
func CheckCatalogLock(path string) Result {
	const name = "Catalog lock"

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if !ok {
		return Result{Name: name, Passed: true, Detail: "held by a running scan"}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: "free"}
}
