package preflight

import (
	"context"
	"path/filepath"

	"prick/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every applicable check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Catalog directory", filepath.Dir(cfg.Paths.CatalogPath)),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results,
		CheckCatalog(ctx, cfg.Paths.CatalogPath),
		CheckCatalogLock(cfg.CatalogLockPath()),
	)
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
