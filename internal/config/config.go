package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	CatalogPath string `toml:"catalog_path"`
	LogDir      string `toml:"log_dir"`
}

// Scan contains fingerprinting and library scan settings.
type Scan struct {
	// Backend selects the demuxer: "auto", "ffmpeg" or "ivf".
	Backend string `toml:"backend"`
	// Algorithm selects the per-stream hash: "sha256" or "blake3".
	Algorithm string `toml:"algorithm"`
	// ProgressIntervalBytes is the minimum number of payload bytes between
	// two progress notifications.
	ProgressIntervalBytes int64 `toml:"progress_interval_bytes"`
	// Workers bounds how many files are fingerprinted at once.
	Workers int `toml:"workers"`
	// Extensions lists the file suffixes picked up when walking directories.
	Extensions []string `toml:"extensions"`
	// SkipUnchanged reuses catalog entries whose size and modification
	// time still match.
	SkipUnchanged  bool `toml:"skip_unchanged"`
	FollowSymlinks bool `toml:"follow_symlinks"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for prick.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Scan    Scan    `toml:"scan"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/prick/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("prick.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the catalog and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.CatalogPath)}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CatalogLockPath returns the lock file guarding catalog writers.
func (c *Config) CatalogLockPath() string {
	return c.Paths.CatalogPath + ".lock"
}

// MatchesExtension reports whether path carries one of the configured
// extensions. Comparison is case-insensitive.
func (c *Config) MatchesExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	for _, candidate := range c.Scan.Extensions {
		if candidate == ext {
			return true
		}
	}
	return false
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	enc := toml.NewEncoder(&b)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return b.String(), nil
}
