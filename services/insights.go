package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
	"github.com/eliasndungu/apify-real-estate-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the report over listings. Price statistics only consider
// listings priced in currency.
func (s *InsightService) Generate(listings []*models.NormalizedListing, currency string) *models.InsightReport {
	report := &models.InsightReport{
		Currency:           SupportedCurrency(currency),
		ListingsBySource:   make(map[string]int),
		ListingsByType:     make(map[models.ListingType]int),
		ListingsByProperty: make(map[models.PropertyType]int),
		ListingsByCity:     make(map[string]int),
		ListingsByRegion:   make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	var total float64
	for _, l := range listings {
		report.ListingsBySource[l.Source]++
		report.ListingsByType[l.ListingType]++
		report.ListingsByProperty[l.PropertyType]++
		if l.Location.City != nil {
			city := *l.Location.City
			report.ListingsByCity[city]++

			region := models.Str(l.Location.Region)
			if region == "" {
				region = RegionOf(city)
			}
			if region != "" {
				report.ListingsByRegion[region]++
			}
		}
		if len(l.Contact.Phone) > 0 || l.Contact.Email != nil {
			report.ListingsWithContact++
		}

		if l.Price.Amount == nil || *l.Price.Amount <= 0 || l.Price.Currency != report.Currency {
			continue
		}
		price := *l.Price.Amount
		if report.PricedListings == 0 || price < report.MinPrice {
			report.MinPrice = price
		}
		if report.PricedListings == 0 || price > report.MaxPrice {
			report.MaxPrice = price
			report.MostExpensive = l
		}
		report.PricedListings++
		total += price
	}

	if report.PricedListings > 0 {
		report.AveragePrice = round2(total / float64(report.PricedListings))
	}

	s.logger.Debug("[insights] %d listings, %d priced in %s", report.TotalListings, report.PricedListings, report.Currency)
	return report
}

// Summarize builds the run summary written next to the dataset. A non-nil
// runErr marks the run as failed.
func (s *InsightService) Summarize(listings []*models.NormalizedListing, sources []models.SourceSummary, configuration any, runErr error) *models.RunSummary {
	summary := &models.RunSummary{
		RunID:         uuid.NewString(),
		Success:       runErr == nil,
		TotalListings: len(listings),
		Sources:       sources,
		ScrapedAt:     time.Now().UTC(),
		Configuration: configuration,
	}
	if summary.Sources == nil {
		summary.Sources = []models.SourceSummary{}
	}
	if runErr != nil {
		summary.Error = runErr.Error()
	}
	return summary
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 REAL ESTATE SCRAPE INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings scraped : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  With contact details   : \033[1m%d\033[0m\n", r.ListingsWithContact)
	for _, kv := range sortedCounts(r.ListingsBySource) {
		fmt.Printf("  %-22s : %d\n", kv.key, kv.count)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics (%s)\033[0m\n", r.Currency)
	fmt.Printf("  %s\n", thin)
	if r.PricedListings > 0 {
		fmt.Printf("  Priced listings : %d\n", r.PricedListings)
		fmt.Printf("  Average price   : \033[1;32m%s %.2f\033[0m\n", r.Currency, r.AveragePrice)
		fmt.Printf("  Minimum price   : \033[1;32m%s %.2f\033[0m\n", r.Currency, r.MinPrice)
		fmt.Printf("  Maximum price   : \033[1;32m%s %.2f\033[0m\n", r.Currency, r.MaxPrice)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(models.Str(r.MostExpensive.Title), 50))
		fmt.Printf("  Location : %s\n", models.Str(r.MostExpensive.Location.Original))
		fmt.Printf("  Price    : \033[1;31m%s %.2f\033[0m\n", r.Currency, *r.MostExpensive.Price.Amount)
		fmt.Println()
	}

	fmt.Printf("\033[1;33m  Listing / Property Types\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for _, kv := range sortedCounts(r.ListingsByType) {
		fmt.Printf("  %-22s : %d\n", kv.key, kv.count)
	}
	for _, kv := range sortedCounts(r.ListingsByProperty) {
		fmt.Printf("  %-22s : %d\n", kv.key, kv.count)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Listings by City\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByCity) == 0 {
		fmt.Printf("  No location data\n")
	} else {
		for _, kv := range sortedCounts(r.ListingsByCity) {
			bar := strings.Repeat("█", kv.count)
			fmt.Printf("  %s %s (%d)\n", runewidth.FillRight(truncate(kv.key, 28), 30), bar, kv.count)
		}
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Listings by Region\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.ListingsByRegion) == 0 {
		fmt.Printf("  No location data\n")
	} else {
		for _, kv := range sortedCounts(r.ListingsByRegion) {
			fmt.Printf("  %s %d\n", runewidth.FillRight(kv.key, 24), kv.count)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

type keyCount struct {
	key   string
	count int
}

// sortedCounts orders a count map by count descending, then key.
func sortedCounts[K ~string](m map[K]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, c := range m {
		out = append(out, keyCount{string(k), c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// truncate shortens s to max display columns, ending in "...".
func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "...")
}
