package config

const (
	defaultConfigPath              = "~/.config/artguide/config.toml"
	defaultStorePath               = "~/.local/share/artguide/catalog"
	defaultWorkers                 = 5
	defaultQueueCapacity           = 10
	defaultBatchSize               = 100
	defaultWikiArtBaseURL          = "https://www.wikiart.org/en/api/2"
	defaultWikipediaURL            = "https://en.wikipedia.org/w/api.php"
	defaultPageDelayMillis         = 500
	defaultTimeoutSeconds          = 30
	defaultWikipediaTimeoutSeconds = 5
	defaultEmbeddingHost           = "http://localhost:11434/v1"
	defaultEmbeddingModel          = "embeddinggemma"
	defaultLogLevel                = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Store: Store{
			Path: defaultStorePath,
		},
		Pipeline: Pipeline{
			Workers:       defaultWorkers,
			QueueCapacity: defaultQueueCapacity,
			BatchSize:     defaultBatchSize,
		},
		WikiArt: WikiArt{
			BaseURL:                 defaultWikiArtBaseURL,
			WikipediaURL:            defaultWikipediaURL,
			PageDelayMillis:         defaultPageDelayMillis,
			TimeoutSeconds:          defaultTimeoutSeconds,
			WikipediaTimeoutSeconds: defaultWikipediaTimeoutSeconds,
		},
		Embedding: Embedding{
			Host:  defaultEmbeddingHost,
			Model: defaultEmbeddingModel,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
