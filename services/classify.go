package services

import (
	"strings"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

// rule maps a set of keywords to a classification result. Rules are checked
// in order and the first rule with any keyword contained in the text wins.
type rule[T any] struct {
	keywords []string
	result   T
}

var listingTypeRules = []rule[models.ListingType]{
	{[]string{"sale", "buy"}, models.ListingSale},
	{[]string{"rent", "let"}, models.ListingRent},
}

var propertyTypeRules = []rule[models.PropertyType]{
	{[]string{"house", "villa", "bungalow", "townhouse"}, models.PropertyHouse},
	{[]string{"apartment", "flat", "studio", "bedsitter"}, models.PropertyApartment},
	{[]string{"land", "plot"}, models.PropertyLand},
	{[]string{"commercial", "office", "shop", "warehouse"}, models.PropertyCommercial},
}

func classify[T any](text string, rules []rule[T]) (T, bool) {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.result, true
			}
		}
	}
	var zero T
	return zero, false
}

// ClassifyListingType maps free text to sale, rent or unknown.
func ClassifyListingType(text string) models.ListingType {
	if t, ok := classify(text, listingTypeRules); ok {
		return t
	}
	return models.ListingUnknown
}

// ClassifyPropertyType maps free text to a property type. Empty text is
// unknown; unmatched text is other.
func ClassifyPropertyType(text string) models.PropertyType {
	if strings.TrimSpace(text) == "" {
		return models.PropertyUnknown
	}
	if t, ok := classify(text, propertyTypeRules); ok {
		return t
	}
	return models.PropertyOther
}
