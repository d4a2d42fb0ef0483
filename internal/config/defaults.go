package config

const (
	defaultCachePath    = "~/.cache/writ/corpus.bin"
	defaultLedgerPath   = "~/.local/share/writ/ledger.db"
	defaultLogDir       = "~/.local/share/writ/logs"
	defaultMinScore     = 0.9
	defaultShallowLimit = 0.99
	defaultMaxPasses    = 10
	defaultMaxFileBytes = 1 << 20
	defaultKeepRuns     = 50
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CachePath:  defaultCachePath,
			LedgerPath: defaultLedgerPath,
			LogDir:     defaultLogDir,
		},
		Matching: Matching{
			MinScore:     defaultMinScore,
			ShallowLimit: defaultShallowLimit,
			MaxPasses:    defaultMaxPasses,
		},
		Scan: Scan{
			MaxFileBytes: defaultMaxFileBytes,
			KeepRuns:     defaultKeepRuns,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
