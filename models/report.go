package models

import "time"

// InsightReport holds the computed analytics over the normalized dataset.
type InsightReport struct {
	TotalListings       int
	Currency            string
	ListingsBySource    map[string]int
	ListingsByType      map[ListingType]int
	ListingsByProperty  map[PropertyType]int
	ListingsByCity      map[string]int
	ListingsByRegion    map[string]int
	PricedListings      int
	AveragePrice        float64
	MinPrice            float64
	MaxPrice            float64
	MostExpensive       *NormalizedListing
	ListingsWithContact int
}

// SourceSummary reports what one configured source contributed to a run.
type SourceSummary struct {
	Name     string `json:"name"`
	Listings int    `json:"listings"`
	Cached   bool   `json:"cached,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// RunSummary is written next to the dataset at the end of every run.
type RunSummary struct {
	RunID         string          `json:"runId"`
	Success       bool            `json:"success"`
	Error         string          `json:"error,omitempty"`
	TotalListings int             `json:"totalListings"`
	Sources       []SourceSummary `json:"sources"`
	ScrapedAt     time.Time       `json:"scrapedAt"`
	Configuration any             `json:"configuration"`
}
