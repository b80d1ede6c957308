package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateWikiArt(); err != nil {
		return err
	}
	if err := c.validateEmbedding(); err != nil {
		return err
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v, got %q", logLevels, c.Logging.Level)
	}
	return nil
}

func (c *Config) validateStore() error {
	if c.Store.Path == "" {
		return errors.New("store.path must be set")
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be at least 1")
	}
	if c.Pipeline.QueueCapacity < 1 {
		return errors.New("pipeline.queue_capacity must be at least 1")
	}
	if c.Pipeline.BatchSize < 1 {
		return errors.New("pipeline.batch_size must be at least 1")
	}
	return nil
}

func (c *Config) validateWikiArt() error {
	if err := validateURL("wikiart.base_url", c.WikiArt.BaseURL); err != nil {
		return err
	}
	if err := validateURL("wikiart.wikipedia_url", c.WikiArt.WikipediaURL); err != nil {
		return err
	}
	if c.WikiArt.PageDelayMillis < 0 {
		return errors.New("wikiart.page_delay_ms must be non-negative")
	}
	if c.WikiArt.MaxPages < 0 {
		return errors.New("wikiart.max_pages must be non-negative")
	}
	if c.WikiArt.TimeoutSeconds < 1 || c.WikiArt.WikipediaTimeoutSeconds < 1 {
		return errors.New("wikiart timeouts must be at least 1 second")
	}
	return nil
}

func (c *Config) validateEmbedding() error {
	if err := validateURL("embedding.host", c.Embedding.Host); err != nil {
		return err
	}
	if c.Embedding.Model == "" {
		return errors.New("embedding.model must be set")
	}
	return nil
}

func validateURL(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", name)
	}
	u, err := url.Parse(value)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", name, value)
	}
	return nil
}
