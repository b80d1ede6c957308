package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/artguide/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, 5, cfg.Pipeline.Workers)
	assert.Equal(t, 10, cfg.Pipeline.QueueCapacity)
	assert.Equal(t, 100, cfg.Pipeline.BatchSize)
	assert.Equal(t, "https://www.wikiart.org/en/api/2", cfg.WikiArt.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, filepath.IsAbs(cfg.Store.Path))
}

func TestLoadDefaultPathExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(home, ".local", "share", "artguide", "catalog"), cfg.Store.Path)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[store]
path = "`+filepath.ToSlash(filepath.Join(dir, "db"))+`"

[pipeline]
workers = 8
batch_size = 25

[wikiart]
base_url = "http://localhost:8080/api/"
page_delay_ms = 0
timeout_seconds = 2

[logging]
level = "DEBUG"
`)

	cfg, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, filepath.Join(dir, "db"), cfg.Store.Path)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, 25, cfg.Pipeline.BatchSize)
	assert.Equal(t, 10, cfg.Pipeline.QueueCapacity, "unset keys keep their defaults")
	assert.Equal(t, "http://localhost:8080/api", cfg.WikiArt.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.PageDelay())
	assert.Equal(t, "debug", cfg.Logging.Level)

	wikiart, wikipedia := cfg.Timeouts()
	assert.Equal(t, 2*time.Second, wikiart)
	assert.Equal(t, 5*time.Second, wikipedia)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"workers", "[pipeline]\nworkers = 0\n", "pipeline.workers"},
		{"queue capacity", "[pipeline]\nqueue_capacity = -1\n", "pipeline.queue_capacity"},
		{"batch size", "[pipeline]\nbatch_size = 0\n", "pipeline.batch_size"},
		{"base url", "[wikiart]\nbase_url = \"not a url\"\n", "wikiart.base_url"},
		{"page delay", "[wikiart]\npage_delay_ms = -5\n", "wikiart.page_delay_ms"},
		{"embedding model", "[embedding]\nmodel = \"\"\n", "embedding.model"},
		{"log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := config.Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, _, err := config.Load(writeConfig(t, "[pipeline\nworkers = 5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadReadsEmbeddingTokenFromEnv(t *testing.T) {
	t.Setenv("ARTGUIDE_EMBEDDING_TOKEN", "secret")

	cfg, _, err := config.Load(writeConfig(t, "[embedding]\nmodel = \"nomic-embed-text\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Embedding.Token)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
}

func TestCreateSampleMatchesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	require.NoError(t, config.CreateSample(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var sample config.Config
	require.NoError(t, toml.Unmarshal(data, &sample))
	assert.Equal(t, config.Default(), sample)

	cfg, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, cfg.Validate())
}
