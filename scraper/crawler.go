package scraper

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
	"github.com/eliasndungu/apify-real-estate-scraper/services"
	"github.com/eliasndungu/apify-real-estate-scraper/utils"
)

var listingIDRegexp = regexp.MustCompile(`\d{4,}`)

// Label is the role of a queued request.
type Label int

const (
	LabelList Label = iota
	LabelDetail
)

func (l Label) String() string {
	if l == LabelDetail {
		return "DETAIL"
	}
	return "LIST"
}

// Request is one queued fetch. Seq orders DETAIL requests by discovery.
type Request struct {
	URL   string
	Label Label
	Seq   int
}

// SearchQuery holds the filters a site turns into its search URL.
type SearchQuery struct {
	ListingType  string
	PropertyType string
	Location     string
}

// FieldSet lists, per raw field, the extractors tried in priority order.
type FieldSet struct {
	Title        []Extractor
	Description  []Extractor
	Price        []Extractor
	Location     []Extractor
	ListingType  []Extractor
	PropertyType []Extractor
	Bedrooms     []Extractor
	Bathrooms    []Extractor
	Size         []Extractor
	Contact      []Extractor
	PostedAt     []Extractor
	Images       []ListExtractor
}

// Site describes one listings website to the crawl engine. Detail links
// outside BaseURL's host are ignored.
type Site struct {
	Name              string
	BaseURL           string
	SearchURL         func(q SearchQuery) string
	LinkSelectors     []string
	NextPageSelectors []string
	Fields            FieldSet
}

// Options are the runtime settings shared by every crawl.
type Options struct {
	MaxConcurrency int
	RateLimitMs    int
	Currency       string
}

// Crawler runs the LIST/DETAIL state machine for one site.
type Crawler struct {
	site       *Site
	fetcher    Fetcher
	normalizer *services.Normalizer
	logger     *utils.Logger
	opts       Options
}

func NewCrawler(site *Site, fetcher Fetcher, normalizer *services.Normalizer, logger *utils.Logger, opts Options) *Crawler {
	return &Crawler{
		site:       site,
		fetcher:    fetcher,
		normalizer: normalizer,
		logger:     logger,
		opts:       opts,
	}
}

// crawl holds the state of one Run.
type crawl struct {
	*Crawler
	ctx     context.Context
	query   SearchQuery
	host    string
	pool    *utils.WorkerPool
	visited *utils.URLSet
	quota   *Quota

	mu      sync.Mutex
	seq     int
	results []collected
}

type collected struct {
	seq     int
	listing *models.NormalizedListing
}

// Run crawls the site from its search URL until maxListings listings have
// been collected or no pages remain. Failed requests are logged and dropped.
func (c *Crawler) Run(ctx context.Context, query SearchQuery, maxListings int) []*models.NormalizedListing {
	if maxListings <= 0 {
		return nil
	}
	r := &crawl{
		Crawler: c,
		ctx:     ctx,
		query:   query,
		host:    siteHost(c.site.BaseURL),
		pool:    utils.NewWorkerPool(c.opts.MaxConcurrency, c.opts.RateLimitMs),
		visited: utils.NewURLSet(),
		quota:   NewQuota(maxListings),
	}

	seed := c.site.SearchURL(query)
	c.logger.Info("[crawler:%s] Starting at %s (quota %d, %d workers)", c.site.Name, seed, maxListings, r.pool.Width())

	r.visited.Add(seed)
	r.enqueue(Request{URL: seed, Label: LabelList})
	r.pool.Wait()

	c.logger.Info("[crawler:%s] Done: %d/%d listings from %d URLs", c.site.Name, r.quota.Collected(), r.quota.Max(), r.visited.Size())
	return r.listings()
}

// listings returns the collected listings in discovery order.
func (r *crawl) listings() []*models.NormalizedListing {
	r.mu.Lock()
	defer r.mu.Unlock()

	sort.Slice(r.results, func(i, j int) bool { return r.results[i].seq < r.results[j].seq })

	var out []*models.NormalizedListing
	for _, res := range r.results {
		out = append(out, res.listing)
	}
	return out
}

func (r *crawl) nextSeq() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

func (r *crawl) onSite(link string) bool {
	if r.host == "" {
		return true
	}
	return siteHost(link) == r.host
}

func siteHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func (r *crawl) enqueue(req Request) {
	r.pool.Submit(r.ctx, func() {
		defer func() {
			if p := recover(); p != nil {
				r.logger.Error("[crawler:%s] %s %s panicked: %v", r.site.Name, req.Label, req.URL, p)
				if req.Label == LabelDetail {
					r.quota.Release()
				}
			}
		}()

		switch req.Label {
		case LabelList:
			r.handleList(req.URL)
		case LabelDetail:
			r.handleDetail(req)
		}
	})
}

func (r *crawl) handleList(pageURL string) {
	doc, err := r.fetcher.Fetch(r.ctx, pageURL)
	if err != nil {
		r.logger.Warn("[crawler:%s] LIST %s failed: %v", r.site.Name, pageURL, err)
		return
	}
	page := NewPage(doc, pageURL)

	var fresh []string
	for _, link := range page.Links(r.site.LinkSelectors) {
		if r.onSite(link) && !r.visited.Contains(link) {
			fresh = append(fresh, link)
		}
	}

	granted := r.quota.Reserve(len(fresh))
	enqueued := 0
	// Slots granted but never handed to a DETAIL request go back to the quota.
	defer func() {
		for ; enqueued < granted; granted-- {
			r.quota.Release()
		}
	}()

	for _, link := range fresh {
		if enqueued == granted {
			break
		}
		if !r.visited.Add(link) {
			continue
		}
		r.enqueue(Request{URL: link, Label: LabelDetail, Seq: r.nextSeq()})
		enqueued++
	}
	for ; enqueued < granted; granted-- {
		r.quota.Release()
	}

	r.logger.Info("[crawler:%s] LIST %s: %d links, %d enqueued", r.site.Name, pageURL, len(fresh), enqueued)

	if r.quota.Remaining() <= 0 {
		return
	}
	for _, next := range page.Links(r.site.NextPageSelectors) {
		if r.visited.Add(next) {
			r.enqueue(Request{URL: next, Label: LabelList})
			return
		}
	}
}

func (r *crawl) handleDetail(req Request) {
	pageURL := req.URL
	if r.quota.Reached() {
		r.quota.Release()
		return
	}

	doc, err := r.fetcher.Fetch(r.ctx, pageURL)
	if err != nil {
		r.quota.Release()
		r.logger.Warn("[crawler:%s] DETAIL %s failed: %v", r.site.Name, pageURL, err)
		return
	}

	raw := r.extract(NewPage(doc, pageURL))
	listing := r.normalizer.Normalize(raw, r.site.Name, r.opts.Currency)

	if !r.quota.Commit() {
		return
	}
	r.mu.Lock()
	r.results = append(r.results, collected{seq: req.Seq, listing: listing})
	r.mu.Unlock()

	r.logger.Debug("[crawler:%s] DETAIL %s collected", r.site.Name, pageURL)
}

// extract reads the site's fields into a RawListing. Listing and property
// type fall back to the search filters when the page does not state them.
func (r *crawl) extract(p *Page) models.RawListing {
	f := r.site.Fields
	pageURL := p.URL.String()

	raw := models.RawListing{
		"url": pageURL,
		"id":  ListingID(pageURL),
	}
	set := func(key string, chain []Extractor, fallback string) {
		if v := FirstNonEmpty(p, chain); v != "" {
			raw[key] = v
		} else if fallback != "" {
			raw[key] = fallback
		}
	}

	set("title", f.Title, "")
	set("description", f.Description, "")
	set("price", f.Price, "")
	set("location", f.Location, "")
	set("listingType", f.ListingType, r.query.ListingType)
	set("propertyType", f.PropertyType, r.query.PropertyType)
	set("bedrooms", f.Bedrooms, "")
	set("bathrooms", f.Bathrooms, "")
	set("size", f.Size, "")
	set("contact", f.Contact, "")
	set("postedAt", f.PostedAt, "")

	if images := FirstNonEmptyList(p, f.Images); len(images) > 0 {
		raw["images"] = images
	}
	return raw
}

// ListingID returns the last run of four or more digits in a listing URL,
// or the URL itself when there is none.
func ListingID(listingURL string) string {
	ids := listingIDRegexp.FindAllString(listingURL, -1)
	if len(ids) == 0 {
		return listingURL
	}
	return ids[len(ids)-1]
}
