package services

import (
	"strings"
	"time"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
	"github.com/eliasndungu/apify-real-estate-scraper/utils"
)

// Normalizer turns RawListings into NormalizedListings.
type Normalizer struct {
	logger *utils.Logger
	rates  ExchangeRates
	now    func() time.Time
}

// NewNormalizer creates a Normalizer using the default exchange rates.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{logger: logger, rates: DefaultRates, now: time.Now}
}

// WithRates returns a copy of n converting prices with rates.
func (n *Normalizer) WithRates(rates ExchangeRates) *Normalizer {
	c := *n
	c.rates = rates
	return &c
}

// Normalize builds the canonical record for raw. Each field degrades to null
// on its own when the raw value is missing or malformed.
func (n *Normalizer) Normalize(raw models.RawListing, source, targetCurrency string) *models.NormalizedListing {
	listing := &models.NormalizedListing{
		ID:           trimmed(raw.String("id", "listingId")),
		Source:       source,
		URL:          trimmed(raw.String("url", "link")),
		Title:        trimmed(raw.String("title", "name")),
		Description:  trimmed(raw.String("description", "details")),
		ListingType:  ClassifyListingType(raw.String("listingType", "type", "category")),
		PropertyType: ClassifyPropertyType(raw.String("propertyType", "property_type", "propertyCategory")),
		Price:        n.rates.NormalizePrice(raw.Value("price", "amount"), targetCurrency),
		Location:     NormalizeLocation(raw.String("location", "address")),
		Contact:      NormalizeContact(raw.Value("contact", "agent")),
		Images:       NormalizeImages(raw.Value("images", "photos")),
		Features: models.Features{
			Bedrooms:  ParseNumber(raw.Value("bedrooms", "beds")),
			Bathrooms: ParseNumber(raw.Value("bathrooms", "baths")),
			Size:      ParseSize(raw.String("size", "area")),
			Parking:   ParseFlag(raw.Value("parking")),
			Furnished: ParseFlag(raw.Value("furnished")),
		},
		PostedAt:  trimmed(raw.String("postedAt", "datePosted", "date")),
		ScrapedAt: n.now(),
	}

	if listing.Price.Original != nil && listing.Price.Amount == nil {
		n.logger.Debug("[normalizer] %s: unparseable price %q", source, *listing.Price.Original)
	}
	return listing
}

func trimmed(s string) *string {
	return models.StrPtr(strings.TrimSpace(s))
}
