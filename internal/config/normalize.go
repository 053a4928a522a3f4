package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	c.Scan.Backend = strings.ToLower(strings.TrimSpace(c.Scan.Backend))
	if c.Scan.Backend == "" {
		c.Scan.Backend = defaultBackend
	}
	c.Scan.Algorithm = strings.ToLower(strings.TrimSpace(c.Scan.Algorithm))
	if c.Scan.Algorithm == "" || c.Scan.Algorithm == "sha-256" {
		c.Scan.Algorithm = defaultAlgorithm
	}
	if c.Scan.ProgressIntervalBytes == 0 {
		c.Scan.ProgressIntervalBytes = defaultProgressInterval
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = defaultWorkers
	}

	seen := make(map[string]struct{}, len(c.Scan.Extensions))
	exts := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Scan.Extensions = exts
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("PRICK_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
