package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/eliasndungu/apify-real-estate-scraper/config"
	"github.com/eliasndungu/apify-real-estate-scraper/models"
	"github.com/eliasndungu/apify-real-estate-scraper/scraper"
	"github.com/eliasndungu/apify-real-estate-scraper/scraper/sites"
	"github.com/eliasndungu/apify-real-estate-scraper/services"
	"github.com/eliasndungu/apify-real-estate-scraper/storage"
	"github.com/eliasndungu/apify-real-estate-scraper/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Run failed: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== Real Estate Scraping System starting ===")

	input, err := config.LoadInput(cfg.InputPath)
	if err != nil {
		return err
	}
	logger.Info("Input: sources %v | type: %s | property: %s | location: %q | max: %d | currency: %s",
		input.Sources, input.ListingType, input.PropertyType, input.Location, input.MaxListings, input.Currency)
	logger.Info("Config: fetch: %s | concurrency: %d | rate: %dms | retries: %d",
		cfg.FetchMode, cfg.MaxConcurrency, cfg.RateLimitMs, cfg.MaxRetries)

	jsonWriter, err := storage.NewJSONWriter(cfg.OutputDir)
	if err != nil {
		return err
	}

	fetcher, closeFetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	orchestrator := scraper.NewOrchestrator(sites.Registry(), fetcher, services.NewNormalizer(logger), logger, scraper.Options{
		MaxConcurrency: cfg.MaxConcurrency,
		RateLimitMs:    cfg.RateLimitMs,
	})

	if cfg.RedisURL != "" {
		cache, err := storage.NewCache(ctx, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			logger.Warn("Redis cache disabled: %v", err)
		} else {
			defer cache.Close()
			orchestrator.WithCache(cache)
			logger.Info("Redis cache enabled (ttl %s)", cfg.CacheTTL)
		}
	}

	insightSvc := services.NewInsightService(logger)

	result, runErr := orchestrator.Run(ctx, input)
	if runErr != nil {
		writeSummary(jsonWriter, insightSvc.Summarize(nil, nil, input, runErr), logger)
		return runErr
	}

	logger.Info("Scraped %d normalized listings", len(result.Listings))

	writers := []storage.ListingWriter{jsonWriter}

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
	} else {
		writers = append(writers, csvWriter)
	}

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(ctx, cfg.DSN(), logger)
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
		} else {
			writers = append(writers, pgWriter)
		}
	}

	for _, w := range writers {
		defer w.Close()
		if err := w.Write(result.Listings); err != nil {
			logger.Error("%T write failed: %v", w, err)
		}
	}

	if pgWriter != nil {
		stored, err := pgWriter.FetchAll()
		if err != nil {
			logger.Error("Failed to read back listings from PostgreSQL: %v", err)
		} else {
			logger.Info("PostgreSQL listings table now holds %d listings", len(stored))
		}
	}

	summary := insightSvc.Summarize(result.Listings, result.Sources, input, nil)
	writeSummary(jsonWriter, summary, logger)

	report := insightSvc.Generate(result.Listings, input.Currency)
	insightSvc.Print(report)

	fmt.Printf("  Done. Run %s | Dataset → %s | CSV → %s\n\n",
		summary.RunID, filepath.Join(cfg.OutputDir, storage.DatasetFile), cfg.CSVOutputPath)
	return nil
}

func writeSummary(w storage.SummaryWriter, summary *models.RunSummary, logger *utils.Logger) {
	if err := w.WriteSummary(summary); err != nil {
		logger.Error("Summary write failed: %v", err)
	}
}

// newFetcher builds the fetch engine selected by FETCH_MODE.
func newFetcher(cfg *config.Config, logger *utils.Logger) (scraper.Fetcher, func() error, error) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	switch cfg.FetchMode {
	case config.FetchBrowser:
		b, err := scraper.NewBrowserFetcher(cfg.ChromeBin, cfg.RequestTimeout(), retry, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	default:
		return scraper.NewHTTPFetcher(cfg.RequestTimeout(), retry), func() error { return nil }, nil
	}
}
