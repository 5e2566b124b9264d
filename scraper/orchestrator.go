package scraper

import (
	"context"
	"errors"
	"fmt"

	"github.com/eliasndungu/apify-real-estate-scraper/config"
	"github.com/eliasndungu/apify-real-estate-scraper/models"
	"github.com/eliasndungu/apify-real-estate-scraper/services"
	"github.com/eliasndungu/apify-real-estate-scraper/utils"
)

// ErrRunFailed wraps unexpected failures while aggregating sources.
var ErrRunFailed = errors.New("orchestrator: run failed")

// Cache stores crawl results per source and query key.
type Cache interface {
	Get(ctx context.Context, source, key string) ([]*models.NormalizedListing, bool)
	Set(ctx context.Context, source, key string, listings []*models.NormalizedListing) error
}

// Result is the aggregate of one orchestrated run.
type Result struct {
	Listings []*models.NormalizedListing
	Sources  []models.SourceSummary
}

// Orchestrator splits the listing quota across sources and crawls them in
// order.
type Orchestrator struct {
	sites      map[string]*Site
	fetcher    Fetcher
	normalizer *services.Normalizer
	cache      Cache
	logger     *utils.Logger
	opts       Options
}

func NewOrchestrator(sites map[string]*Site, fetcher Fetcher, normalizer *services.Normalizer, logger *utils.Logger, opts Options) *Orchestrator {
	return &Orchestrator{
		sites:      sites,
		fetcher:    fetcher,
		normalizer: normalizer,
		logger:     logger,
		opts:       opts,
	}
}

// WithCache enables serving and storing source results through c.
func (o *Orchestrator) WithCache(c Cache) *Orchestrator {
	o.cache = c
	return o
}

// PerSourceQuota splits maxListings evenly across n sources, rounding up.
func PerSourceQuota(maxListings, n int) int {
	if n <= 0 || maxListings <= 0 {
		return 0
	}
	return (maxListings + n - 1) / n
}

// Run crawls every recognised source in input order and concatenates their
// listings. Unknown sources are skipped with a warning. A panic during the
// run is returned as ErrRunFailed.
func (o *Orchestrator) Run(ctx context.Context, in *config.Input) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error("[orchestrator] Run aborted: %v", p)
			res, err = nil, fmt.Errorf("%w: %v", ErrRunFailed, p)
		}
	}()

	perSource := PerSourceQuota(in.MaxListings, len(in.Sources))
	query := SearchQuery{
		ListingType:  in.ListingType,
		PropertyType: in.PropertyType,
		Location:     in.Location,
	}
	opts := o.opts
	opts.Currency = in.Currency

	o.logger.Info("[orchestrator] %d sources, %d listings each", len(in.Sources), perSource)

	res = &Result{
		Listings: []*models.NormalizedListing{},
		Sources:  make([]models.SourceSummary, 0, len(in.Sources)),
	}
	for _, name := range in.Sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}

		site, ok := o.sites[name]
		if !ok {
			o.logger.Warn("[orchestrator] Unknown source %q, skipping", name)
			res.Sources = append(res.Sources, models.SourceSummary{Name: name, Skipped: true})
			continue
		}

		listings, cached := o.runSource(ctx, site, query, perSource, opts)
		res.Listings = append(res.Listings, listings...)
		res.Sources = append(res.Sources, models.SourceSummary{
			Name:     name,
			Listings: len(listings),
			Cached:   cached,
		})
		o.logger.Info("[orchestrator] %s contributed %d listings", name, len(listings))
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return res, nil
}

func (o *Orchestrator) runSource(ctx context.Context, site *Site, query SearchQuery, quota int, opts Options) ([]*models.NormalizedListing, bool) {
	// Prices are cached already converted, so the currency is part of the key.
	key := opts.Currency + ":" + site.SearchURL(query)

	if o.cache != nil {
		if listings, ok := o.cache.Get(ctx, site.Name, key); ok {
			if len(listings) > quota {
				listings = listings[:quota]
			}
			o.logger.Info("[orchestrator] %s served from cache", site.Name)
			return listings, true
		}
	}

	listings := NewCrawler(site, o.fetcher, o.normalizer, o.logger, opts).Run(ctx, query, quota)

	if o.cache != nil && len(listings) > 0 {
		if err := o.cache.Set(ctx, site.Name, key, listings); err != nil {
			o.logger.Warn("[orchestrator] Cache write for %s failed: %v", site.Name, err)
		}
	}
	return listings, false
}
