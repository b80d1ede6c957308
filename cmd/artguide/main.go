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

package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "artguide",
		Usage: "Build and search a catalog of paintings from WikiArt",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the TOML configuration file (default ~/.config/artguide/config.toml)",
				EnvVars: []string{"ARTGUIDE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"ARTGUIDE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				EnvVars: []string{"ARTGUIDE_DB"},
			},
			&cli.StringFlag{
				Name:    "metrics-addr",
				Usage:   "Serve Prometheus metrics on this address while a pipeline runs",
				EnvVars: []string{"ARTGUIDE_METRICS_ADDR"},
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				EnvVars: []string{"ARTGUIDE_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				EnvVars: []string{"ARTGUIDE_EMBEDDING_MODEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Ingest WikiArt's most viewed paintings into the catalog",
				Action: ingestCommand,
				Flags: append(pipelineFlags(),
					&cli.IntFlag{
						Name:  "max-pages",
						Usage: "Stop after this many listing pages (0 = configured value)",
					},
				),
			},
			{
				Name:   "enrich",
				Usage:  "Add museum and description details to stored paintings",
				Action: enrichCommand,
				Flags: append(pipelineFlags(),
					&cli.BoolFlag{
						Name:  "restart",
						Usage: "Ignore the saved checkpoint and start from the first painting",
					},
					&cli.IntFlag{
						Name:  "max-batches",
						Usage: "Stop after this many batches (0 = no limit)",
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Find paintings similar to a text query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "max-hits",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Minimum similarity score (-1 to 1)",
						Value: 0.2,
					},
				},
			},
			{
				Name:   "init-config",
				Usage:  "Write a sample configuration file",
				Action: initConfigCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
			},
		},
	}
}

// pipelineFlags returns the flags shared by the pipeline commands. Zero
// values fall back to the configuration file.
func pipelineFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of paintings per batch",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Concurrent enrichment lookups per batch",
		},
		&cli.IntFlag{
			Name:  "queue-capacity",
			Usage: "Batches buffered between pipeline stages",
		},
		&cli.IntFlag{
			Name:  "report-interval",
			Usage: "Report progress every N paintings",
			Value: 100,
		},
	}
}

func setupLogger(c *cli.Context) error {
	return installLogger(c.App.ErrWriter, c.String("log-level"))
}

func installLogger(w io.Writer, levelStr string) error {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
