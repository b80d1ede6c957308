package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/artguide"
	"github.com/poiesic/artguide/ai"
	"github.com/poiesic/artguide/config"
	"github.com/poiesic/artguide/etl"
	"github.com/poiesic/artguide/metrics"
	"github.com/poiesic/artguide/pipeline"
	"github.com/poiesic/artguide/search"
	"github.com/poiesic/artguide/storage"
	"github.com/poiesic/artguide/wikiart"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
)

// loadConfig reads the configuration file and applies global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, exists, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if !exists {
		slog.Debug("no configuration file, using defaults")
	}

	if c.IsSet("db") {
		cfg.Store.Path = c.String("db")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = strings.ToLower(c.String("log-level"))
	} else if err := installLogger(c.App.ErrWriter, cfg.Logging.Level); err != nil {
		return nil, err
	}
	for flag, target := range map[string]*int{
		"batch-size":     &cfg.Pipeline.BatchSize,
		"workers":        &cfg.Pipeline.Workers,
		"queue-capacity": &cfg.Pipeline.QueueCapacity,
		"max-pages":      &cfg.WikiArt.MaxPages,
	} {
		if v := c.Int(flag); v > 0 {
			*target = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openCatalog(cfg *config.Config) (*artguide.Catalog, error) {
	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(cfg.Embedding.Host),
		ai.WithEmbeddingModel(cfg.Embedding.Model),
		ai.WithToken(cfg.Embedding.Token),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	catalog, err := artguide.OpenCatalog(cfg.Store.Path, artguide.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return catalog, nil
}

func newWikiArtClient(cfg *config.Config) (*wikiart.Client, error) {
	timeout, wikipediaTimeout := cfg.Timeouts()
	return wikiart.NewClient(
		wikiart.WithBaseURL(cfg.WikiArt.BaseURL),
		wikiart.WithWikipediaURL(cfg.WikiArt.WikipediaURL),
		wikiart.WithTimeout(timeout, wikipediaTimeout),
	)
}

func ingestCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	client, err := newWikiArtClient(cfg)
	if err != nil {
		return err
	}
	ingest, err := catalog.NewCatalogETL(client,
		etl.WithBatchSize(cfg.Pipeline.BatchSize),
		etl.WithPageDelay(cfg.PageDelay()),
		etl.WithMaxPages(cfg.WikiArt.MaxPages),
	)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Database: %s\n", cfg.Store.Path)
	fmt.Fprintf(c.App.ErrWriter, "WikiArt: %s\n", cfg.WikiArt.BaseURL)
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n\n", cfg.Embedding.Model)

	progress := etl.NewProgressTracker(c.App.ErrWriter, 0, c.Int("report-interval"))
	return runPipeline(c, cfg, "catalog", ingest, progress)
}

func enrichCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	client, err := newWikiArtClient(cfg)
	if err != nil {
		return err
	}
	enrich, err := catalog.NewEnrichmentETL(client,
		etl.WithBatchSize(cfg.Pipeline.BatchSize),
		etl.WithMaxBatches(c.Int("max-batches")),
		etl.WithRestart(c.Bool("restart")),
	)
	if err != nil {
		return err
	}

	stored, err := catalog.Paintings().Count(c.Context)
	if err != nil {
		return fmt.Errorf("failed to count paintings: %w", err)
	}
	fmt.Fprintf(c.App.ErrWriter, "Database: %s (%d paintings)\n\n", cfg.Store.Path, stored)

	total, err := enrichTotal(c.Context, catalog.Checkpoints(), stored, c.Bool("restart"), c.Int("max-batches"))
	if err != nil {
		return err
	}
	progress := etl.NewProgressTracker(c.App.ErrWriter, total, c.Int("report-interval"))
	return runPipeline(c, cfg, "enrichment", enrich, progress)
}

// enrichTotal is the progress total for an enrichment run: every stored
// painting for a full pass, 0 (unknown) when the run resumes from a
// checkpoint or stops after a fixed number of batches.
func enrichTotal(ctx context.Context, checkpoints storage.CheckpointRepository, stored int, restart bool, maxBatches int) (int, error) {
	if maxBatches > 0 {
		return 0, nil
	}
	if restart {
		return stored, nil
	}
	checkpoint, err := checkpoints.LoadCheckpoint(ctx, etl.EnrichmentProcessor)
	if err != nil {
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint != nil && checkpoint.LastID != 0 {
		return 0, nil
	}
	return stored, nil
}

// runPipeline runs e to completion and prints its report. SIGINT and SIGTERM
// cancel the context handed to the collaborators; the pipeline still drains.
func runPipeline(c *cli.Context, cfg *config.Config, name string, e pipeline.ETL, progress *etl.ProgressTracker) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	observers := pipeline.Observers{progress}
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, metrics.New(reg).Observer(name))

		shutdown, err := serveMetrics(cfg.Metrics.Addr, reg)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	p, err := pipeline.New(e,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithQueueCapacity(cfg.Pipeline.QueueCapacity),
		pipeline.WithObserver(observers),
		pipeline.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	progress.Start()
	report, err := p.Run(ctx)
	printReport(c.App.Writer, name, report)
	if err != nil {
		return fmt.Errorf("%s pipeline failed: %w", name, err)
	}
	return nil
}

// serveMetrics starts the Prometheus endpoint and returns a function that stops it.
func serveMetrics(addr string, g prometheus.Gatherer) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on metrics address: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "err", err)
		}
	}()
	slog.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func printReport(w io.Writer, name string, r *pipeline.Report) {
	if r == nil {
		return
	}
	fmt.Fprintf(w, "\n%s run %s finished in %s\n", name, r.RunID, r.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "  extracted: %d batches, %d paintings\n", r.BatchesExtracted, r.RecordsExtracted)
	fmt.Fprintf(w, "  loaded:    %d batches, %d paintings\n", r.BatchesLoaded, r.RecordsLoaded)
	if r.BatchesDropped > 0 {
		fmt.Fprintf(w, "  dropped:   %d batches, %d paintings\n", r.BatchesDropped, r.RecordsDropped)
	}
	fmt.Fprintf(w, "  enrichment failures: %d\n", r.EnrichmentFailures)
	faults := []struct {
		stage string
		err   error
	}{{"extract", r.ExtractErr}, {"transform", r.TransformErr}, {"load", r.LoadErr}}
	for _, f := range faults {
		if f.err != nil {
			fmt.Fprintf(w, "  %s error: %v\n", f.stage, f.err)
		}
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return errors.New("search query is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	searcher, err := catalog.NewSearcher(search.WithMinSimilarity(float32(c.Float64("min-similarity"))))
	if err != nil {
		return err
	}
	results, err := searcher.FindSimilar(c.Context, query, c.Int("max-hits"))
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Found %d hits\n", len(results))
	for i, hit := range results {
		title, _ := hit.Record.Field(wikiart.FieldTitle)
		artist, _ := hit.Record.Field(wikiart.FieldArtist)
		fmt.Fprintf(c.App.Writer, "%d: '%s' by %s [%0.3f]", i+1, title, artist, hit.Score)
		if url, ok := hit.Record.Field(wikiart.FieldURL); ok {
			fmt.Fprintf(c.App.Writer, " %s", url)
		}
		fmt.Fprintln(c.App.Writer)
	}
	return nil
}

func initConfigCommand(c *cli.Context) error {
	path := c.String("config")
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote sample configuration to %s\n", path)
	return nil
}
