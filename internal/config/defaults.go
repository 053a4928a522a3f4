package config

const (
	defaultCatalogPath      = "~/.local/share/prick/catalog.db"
	defaultLogDir           = "~/.local/share/prick/logs"
	defaultBackend          = "auto"
	defaultAlgorithm        = "sha256"
	defaultProgressInterval = 1_000_000
	defaultWorkers          = 2
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

var defaultExtensions = []string{
	".mkv", ".mka", ".mks", ".webm",
	".mp4", ".m4v", ".m4a", ".mov",
	".avi", ".ts", ".m2ts", ".mts", ".mpg", ".mpeg", ".vob",
	".flac", ".mp3", ".ogg", ".opus", ".wav", ".wv",
	".ivf",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CatalogPath: defaultCatalogPath,
			LogDir:      defaultLogDir,
		},
		Scan: Scan{
			Backend:               defaultBackend,
			Algorithm:             defaultAlgorithm,
			ProgressIntervalBytes: defaultProgressInterval,
			Workers:               defaultWorkers,
			Extensions:            append([]string(nil), defaultExtensions...),
			SkipUnchanged:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
