package models

import (
	"strconv"
	"strings"
	"time"
)

// RawListing holds the fields extracted from one detail page exactly as scraped.
// Values are untyped: a field may be a string, a number, a list or a nested
// object, and may be missing altogether.
type RawListing map[string]any

// Value returns the first non-nil value stored under any of the given keys.
func (r RawListing) Value(keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// String returns the first non-empty textual value stored under any of the
// given keys. Numbers are formatted; other types are ignored.
func (r RawListing) String(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// ListingType classifies the transaction a listing advertises.
type ListingType string

const (
	ListingSale    ListingType = "sale"
	ListingRent    ListingType = "rent"
	ListingUnknown ListingType = "unknown"
)

// PropertyType classifies the kind of property a listing advertises.
type PropertyType string

const (
	PropertyHouse      PropertyType = "house"
	PropertyApartment  PropertyType = "apartment"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
	PropertyOther      PropertyType = "other"
	PropertyUnknown    PropertyType = "unknown"
)

// Price is a parsed asking price. Currency is always a supported code, even
// when Amount could not be recovered.
type Price struct {
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
	Original *string  `json:"original"`
}

// Location is a free-text location resolved against the city gazetteer.
type Location struct {
	Area     *string `json:"area"`
	City     *string `json:"city"`
	Region   *string `json:"region"`
	Original *string `json:"original"`
}

// Contact holds the agent or owner details of a listing. Phone numbers are
// canonical +254XXXXXXXXX strings, unique and in first-seen order.
type Contact struct {
	Name     *string  `json:"name"`
	Phone    []string `json:"phone"`
	Email    *string  `json:"email"`
	WhatsApp *string  `json:"whatsapp"`
}

// Size is a floor or plot size with its unit.
type Size struct {
	Value *float64 `json:"value"`
	Unit  *string  `json:"unit"`
}

// Features holds the numeric and boolean property attributes.
type Features struct {
	Bedrooms  *int  `json:"bedrooms"`
	Bathrooms *int  `json:"bathrooms"`
	Size      Size  `json:"size"`
	Parking   *bool `json:"parking"`
	Furnished *bool `json:"furnished"`
}

// NormalizedListing is the canonical record handed to the sinks.
type NormalizedListing struct {
	ID           *string      `json:"id"`
	Source       string       `json:"source"`
	URL          *string      `json:"url"`
	Title        *string      `json:"title"`
	Description  *string      `json:"description"`
	ListingType  ListingType  `json:"listingType"`
	PropertyType PropertyType `json:"propertyType"`
	Price        Price        `json:"price"`
	Location     Location     `json:"location"`
	Contact      Contact      `json:"contact"`
	Images       []string     `json:"images"`
	Features     Features     `json:"features"`
	PostedAt     *string      `json:"postedAt"`
	ScrapedAt    time.Time    `json:"scrapedAt"`
}

// Str returns the pointed-to string or "" for nil.
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StrPtr returns a pointer to s, or nil when s is empty.
func StrPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
