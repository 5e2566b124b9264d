// Package sites holds the descriptors of the supported listing websites.
package sites

import (
	"regexp"
	"strings"

	"github.com/eliasndungu/apify-real-estate-scraper/scraper"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Registry returns every supported site keyed by its source name.
func Registry() map[string]*scraper.Site {
	sites := []*scraper.Site{BuyRentKenya(), Property24()}

	m := make(map[string]*scraper.Site, len(sites))
	for _, s := range sites {
		m[s.Name] = s
	}
	return m
}

// Names lists the registered source names.
func Names() []string {
	return []string{"buyrentkenya", "property24"}
}

func slug(s string) string {
	return strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func isRent(listingType string) bool {
	return strings.EqualFold(listingType, "rent")
}
