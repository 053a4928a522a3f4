package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"prick/internal/catalog"
	"prick/internal/config"
	"prick/internal/demux"
	"prick/internal/logging"
	"prick/internal/scan"
)

// sourceFactory resolves the configured demuxer. Tests replace it with an
// in-memory library.
var sourceFactory = func(backend string) (scan.SourceFactory, error) {
	b, err := demux.ParseBackend(backend)
	if err != nil {
		return nil, err
	}
	return scan.SourceFactory(demux.Factory(b)), nil
}

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// withStore opens the catalog for the duration of fn.
func (c *commandContext) withStore(fn func(*catalog.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// newScanner builds a scanner over the configured demuxer. store may be nil.
func (c *commandContext) newScanner(store *catalog.Store) (*scan.Scanner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	open, err := sourceFactory(cfg.Scan.Backend)
	if err != nil {
		return nil, err
	}
	return scan.New(cfg, store, logger, open)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
