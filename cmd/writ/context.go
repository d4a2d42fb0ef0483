package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"writ/internal/config"
	"writ/internal/corpus"
	"writ/internal/ledger"
	"writ/internal/logging"
)

// commandContext shares lazily-initialized state across subcommands: the
// resolved configuration, the loaded corpus store, and the logger. Each is
// built at most once per invocation.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	storeOnce sync.Once
	store     *corpus.Store
	storeErr  error

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
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureStore loads the binary corpus cache when one exists at the
// configured path and falls back to the embedded corpus otherwise.
func (c *commandContext) ensureStore() (*corpus.Store, error) {
	c.storeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.storeErr = err
			return
		}
		if _, statErr := os.Stat(cfg.Paths.CachePath); statErr == nil {
			c.store, c.storeErr = corpus.ReadFile(cfg.Paths.CachePath)
			return
		}
		c.store, c.storeErr = corpus.Embedded()
	})
	return c.store, c.storeErr
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

// openLedger connects to the scan-history database; callers own the close.
func (c *commandContext) openLedger() (*ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return ledger.Open(cfg.Paths.LedgerPath)
}
