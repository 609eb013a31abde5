package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tripforge/go-harvest-hotels/checkpoint"
	"github.com/tripforge/go-harvest-hotels/config"
	"github.com/tripforge/go-harvest-hotels/export"
	"github.com/tripforge/go-harvest-hotels/fetch"
	"github.com/tripforge/go-harvest-hotels/harvest"
	"github.com/tripforge/go-harvest-hotels/models"
)

func main() {
	_ = godotenv.Load()

	defaultCfg := config.DefaultConfig()
	concurrencyDefault := defaultCfg.Concurrency
	if value, ok, err := config.EnvInt("HARVESTER_CONCURRENCY"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid HARVESTER_CONCURRENCY: %v\n", err)
		os.Exit(1)
	} else if ok {
		concurrencyDefault = value
	}
	placesDefault := defaultCfg.PlacesFile
	if value, ok := config.EnvString("HARVESTER_PLACES"); ok {
		placesDefault = value
	}
	metricsDefault := defaultCfg.MetricsAddr
	if value, ok := config.EnvString("HARVESTER_METRICS_ADDR"); ok {
		metricsDefault = value
	}

	baseURL := flag.String("base-url", defaultCfg.BaseURL, "Root URL of the listing service")
	placesFile := flag.String("places", placesDefault, "Path to the ordered place list (JSON)")
	resultsFile := flag.String("results", defaultCfg.ResultsFile, "Harvested results output path")
	failedFile := flag.String("failed", defaultCfg.FailedFile, "Failure ledger output path")
	start := flag.Int("start", 0, "Start index in the place list")
	end := flag.Int("end", 0, "End index in the place list (exclusive, 0 = all)")
	engine := flag.String("engine", defaultCfg.Engine, "Fetch engine: auto, browser, tls, or http")
	concurrency := flag.Int("concurrency", concurrencyDefault, "Max simultaneous fetch sequences")
	batchSize := flag.Int("batch-size", defaultCfg.BatchSize, "Places per batch")
	saveEvery := flag.Int("save-every", defaultCfg.SaveEvery, "Checkpoint after this many completed places")
	maxRetries := flag.Int("max-retries", defaultCfg.MaxRetries, "Max fetch attempts per URL")
	noResume := flag.Bool("no-resume", false, "Start fresh, ignoring existing checkpoints")
	enrich := flag.Bool("enrich-amenities", false, "Visit detail pages for sparse amenity lists (slower)")
	exportCSV := flag.String("export-csv", "", "Also export harvested results to a flat CSV file")
	metricsAddr := flag.String("metrics-addr", metricsDefault, "Prometheus metrics listen address (e.g. :9090)")
	verbose := flag.Bool("v", false, "Enable verbose logging")

	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := defaultCfg
	cfg.BaseURL = *baseURL
	cfg.PlacesFile = *placesFile
	cfg.ResultsFile = *resultsFile
	cfg.FailedFile = *failedFile
	cfg.Start = *start
	cfg.End = *end
	cfg.Engine = *engine
	cfg.Concurrency = *concurrency
	cfg.BatchSize = *batchSize
	cfg.SaveEvery = *saveEvery
	cfg.MaxRetries = *maxRetries
	cfg.Resume = !*noResume
	cfg.EnrichAmenities = *enrich
	cfg.MetricsAddr = *metricsAddr
	cfg.Verbose = *verbose

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := fetch.NewMetrics()
	pacer := fetch.NewPacer()

	client, err := fetch.Select(cfg, pacer, metrics)
	if err != nil {
		slog.Error("initialising fetch engine", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting harvest",
		slog.String("base_url", cfg.BaseURL),
		slog.String("engine", client.Name()),
		slog.Int("concurrency", cfg.Concurrency),
		slog.Int("batch_size", cfg.BatchSize),
		slog.Bool("resume", cfg.Resume),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received, finishing current batch and checkpointing")
	}()

	var metricsServer *http.Server
	if cfg.MetricsAddr != "" {
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	store := checkpoint.NewStore(cfg.ResultsFile, cfg.FailedFile)
	orchestrator := harvest.New(cfg, client, store, metrics)

	startTime := time.Now()
	result, err := orchestrator.Run(ctx)
	if err != nil {
		slog.Error("harvest failed", slog.Any("error", err))
		os.Exit(1)
	}

	if *exportCSV != "" {
		if err := export.WriteState(*exportCSV, store.Load()); err != nil {
			slog.Error("csv export failed", slog.Any("error", err))
		} else {
			slog.Info("csv export written", slog.String("path", *exportCSV))
		}
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	printSummary(result, time.Since(startTime), cfg.ResultsFile, cfg.FailedFile)
}

func printSummary(result *models.RunResult, duration time.Duration, resultsFile, failedFile string) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Harvest complete")
	fmt.Printf("  Engine:          %s\n", result.Engine)
	fmt.Printf("  Places:          %d (%d resumed)\n", result.PlacesHarvested, result.Resumed)
	fmt.Printf("  Records:         %d\n", result.RecordsTotal)
	fmt.Printf("  Failures:        %d\n", result.FailureCount)
	fmt.Printf("  Batches:         %d\n", result.BatchCount)
	fmt.Printf("  Duration:        %v\n", duration)
	fmt.Printf("  Results file:    %s\n", resultsFile)
	fmt.Printf("  Failure ledger:  %s\n", failedFile)
	fmt.Println(separator)
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
