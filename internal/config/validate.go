package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateSQLite(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.DBDir == "" {
		return errors.New("paths.db_dir must be set")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must be set")
	}
	parsed, err := url.Parse(c.API.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("api.base_url is not a valid URL: %q", c.API.BaseURL)
	}
	if c.API.RequestTimeout <= 0 {
		return errors.New("api.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateDownload() error {
	if c.Download.StartPage < 1 {
		return errors.New("download.start_page must be at least 1")
	}
	if c.Download.EndPage < c.Download.StartPage {
		return errors.New("download.end_page must not be less than download.start_page")
	}
	if c.Download.BatchSize < 1 {
		return errors.New("download.batch_size must be at least 1")
	}
	if c.Download.MaxConcurrent < 1 {
		return errors.New("download.max_concurrent must be at least 1")
	}
	if c.Download.WriteWorkers < 1 {
		return errors.New("download.write_workers must be at least 1")
	}
	return nil
}

func (c *Config) validateSQLite() error {
	for _, pragma := range c.SQLite.Pragmas {
		if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(pragma)), "PRAGMA ") {
			return fmt.Errorf("sqlite.pragmas entry %q is not a PRAGMA statement", pragma)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
