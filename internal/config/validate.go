package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateMatching() error {
	if c.Matching.MinScore < 0 || c.Matching.MinScore > 1 {
		return errors.New("matching.min_score must be between 0 and 1")
	}
	if c.Matching.ShallowLimit < 0 || c.Matching.ShallowLimit > 1 {
		return errors.New("matching.shallow_limit must be between 0 and 1")
	}
	if c.Matching.MaxPasses < 1 {
		return errors.New("matching.max_passes must be at least 1")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Concurrency < 0 {
		return errors.New("scan.concurrency must not be negative")
	}
	if c.Scan.MaxFileBytes < 1 {
		return errors.New("scan.max_file_bytes must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
