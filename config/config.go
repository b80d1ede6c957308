// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Store configures the BadgerDB catalog store.
type Store struct {
	Path string `toml:"path"`
}

// Pipeline configures the concurrent ETL runner.
type Pipeline struct {
	Workers       int `toml:"workers"`
	QueueCapacity int `toml:"queue_capacity"`
	BatchSize     int `toml:"batch_size"`
}

// WikiArt configures the WikiArt and Wikipedia HTTP clients.
type WikiArt struct {
	BaseURL                 string `toml:"base_url"`
	WikipediaURL            string `toml:"wikipedia_url"`
	PageDelayMillis         int    `toml:"page_delay_ms"`
	MaxPages                int    `toml:"max_pages"`
	TimeoutSeconds          int    `toml:"timeout_seconds"`
	WikipediaTimeoutSeconds int    `toml:"wikipedia_timeout_seconds"`
}

// Embedding configures the OpenAI-compatible embedding endpoint.
type Embedding struct {
	Host  string `toml:"host"`
	Model string `toml:"model"`
	Token string `toml:"token"`
}

// Metrics configures the Prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `toml:"addr"`
}

// Logging configures the process logger.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values for artguide.
type Config struct {
	Store     Store     `toml:"store"`
	Pipeline  Pipeline  `toml:"pipeline"`
	WikiArt   WikiArt   `toml:"wikiart"`
	Embedding Embedding `toml:"embedding"`
	Metrics   Metrics   `toml:"metrics"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads, normalizes and validates the configuration at path. An empty
// path means DefaultConfigPath. When the file does not exist the defaults are
// returned and exists is false.
func Load(path string) (cfg *Config, exists bool, err error) {
	c := Default()

	if path == "" {
		path = defaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, false, fmt.Errorf("read config: %w", err)
	default:
		exists = true
		if err := toml.Unmarshal(data, &c); err != nil {
			return nil, false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.normalize(); err != nil {
		return nil, false, err
	}
	if err := c.Validate(); err != nil {
		return nil, false, err
	}
	return &c, exists, nil
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

// PageDelay returns the pause between WikiArt page requests.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.WikiArt.PageDelayMillis) * time.Millisecond
}

// Timeouts returns the WikiArt and Wikipedia request timeouts.
func (c *Config) Timeouts() (wikiart, wikipedia time.Duration) {
	return time.Duration(c.WikiArt.TimeoutSeconds) * time.Second,
		time.Duration(c.WikiArt.WikipediaTimeoutSeconds) * time.Second
}

func (c *Config) normalize() error {
	var err error
	if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	c.WikiArt.BaseURL = strings.TrimRight(strings.TrimSpace(c.WikiArt.BaseURL), "/")
	c.WikiArt.WikipediaURL = strings.TrimSpace(c.WikiArt.WikipediaURL)
	c.Embedding.Host = strings.TrimSpace(c.Embedding.Host)
	c.Embedding.Model = strings.TrimSpace(c.Embedding.Model)
	if c.Embedding.Token == "" {
		c.Embedding.Token = os.Getenv("ARTGUIDE_EMBEDDING_TOKEN")
	}
	c.Metrics.Addr = strings.TrimSpace(c.Metrics.Addr)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
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
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
