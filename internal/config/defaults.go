package config

const (
	defaultDataDir        = "~/.local/share/qurandb/data"
	defaultDBDir          = "~/.local/share/qurandb/databases"
	defaultLogDir         = "~/.local/share/qurandb/logs"
	defaultBaseURL        = "https://cdn.jsdelivr.net/gh/fawazahmed0/quran-api@1"
	defaultRequestTimeout = 30
	defaultStartPage      = 1
	defaultEndPage        = 604
	defaultBatchSize      = 50
	defaultMaxConcurrent  = 8
	defaultWriteWorkers   = 4
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultPragmas() []string {
	return []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = OFF",
		"PRAGMA journal_mode = MEMORY",
		"PRAGMA cache_size = 10000",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			DBDir:   defaultDBDir,
			LogDir:  defaultLogDir,
		},
		API: API{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Download: Download{
			StartPage:     defaultStartPage,
			EndPage:       defaultEndPage,
			BatchSize:     defaultBatchSize,
			MaxConcurrent: defaultMaxConcurrent,
			WriteWorkers:  defaultWriteWorkers,
		},
		SQLite: SQLite{
			Pragmas: defaultPragmas(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
