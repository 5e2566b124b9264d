package storage

import "github.com/eliasndungu/apify-real-estate-scraper/models"

// ListingWriter is the interface any storage backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.NormalizedListing) error
	Close() error
}

// SummaryWriter persists the run summary next to the dataset.
type SummaryWriter interface {
	WriteSummary(summary *models.RunSummary) error
}
