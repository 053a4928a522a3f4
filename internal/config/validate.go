package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.CatalogPath == "" {
		return errors.New("paths.catalog_path must be set")
	}
	return nil
}

func (c *Config) validateScan() error {
	switch c.Scan.Backend {
	case "auto", "ffmpeg", "ivf":
	default:
		return fmt.Errorf("scan.backend: unsupported value %q (want auto, ffmpeg or ivf)", c.Scan.Backend)
	}
	switch c.Scan.Algorithm {
	case "sha256", "blake3":
	default:
		return fmt.Errorf("scan.algorithm: unsupported value %q (want sha256 or blake3)", c.Scan.Algorithm)
	}
	if c.Scan.ProgressIntervalBytes <= 0 {
		return errors.New("scan.progress_interval_bytes must be positive")
	}
	if c.Scan.Workers <= 0 {
		return errors.New("scan.workers must be positive")
	}
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
