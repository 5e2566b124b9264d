package sites

import (
	"github.com/eliasndungu/apify-real-estate-scraper/scraper"
)

const buyRentKenyaURL = "https://www.buyrentkenya.com"

var buyRentKenyaSegments = map[string]string{
	"house":      "houses",
	"apartment":  "flats-apartments",
	"land":       "land",
	"commercial": "commercial-property",
}

// BuyRentKenya describes www.buyrentkenya.com. Search paths look like
// /houses-for-rent/nairobi.
func BuyRentKenya() *scraper.Site {
	return &scraper.Site{
		Name:      "buyrentkenya",
		BaseURL:   buyRentKenyaURL,
		SearchURL: buyRentKenyaSearchURL,
		LinkSelectors: []string{
			`[data-cy="listing-card"] a[href*="/listings/"]`,
			`.listing-card a[href*="/listings/"]`,
			`a[href*="/listings/"]`,
		},
		NextPageSelectors: []string{
			`a[rel="next"]`,
			`[data-cy="pagination-next"]`,
			`.pagination li.next a`,
		},
		Fields: scraper.FieldSet{
			Title: []scraper.Extractor{
				scraper.Text(`[data-cy="listing-title"]`),
				scraper.Text("h1"),
				scraper.Meta("og:title"),
			},
			Description: []scraper.Extractor{
				scraper.Text(`[data-cy="listing-description"]`),
				scraper.Text(".listing-description"),
				scraper.Meta("og:description"),
				scraper.Meta("description"),
			},
			Price: []scraper.Extractor{
				scraper.Text(`[data-cy="listing-price"]`),
				scraper.Text(".listing-price"),
				scraper.Text(".price"),
			},
			Location: []scraper.Extractor{
				scraper.Text(`[data-cy="listing-address"]`),
				scraper.Text(".listing-location"),
				scraper.Text(".location"),
			},
			ListingType: []scraper.Extractor{
				scraper.Text(`[data-cy="listing-type"]`),
				scraper.Text(".badge-listing-type"),
			},
			PropertyType: []scraper.Extractor{
				scraper.Text(`[data-cy="property-type"]`),
				scraper.Text(".property-type"),
			},
			Bedrooms: []scraper.Extractor{
				scraper.Text(`[data-cy="card-bedroom_count"]`),
				scraper.Text(`[aria-label="bedrooms"]`),
				scraper.Text(".bedrooms"),
			},
			Bathrooms: []scraper.Extractor{
				scraper.Text(`[data-cy="card-bathroom_count"]`),
				scraper.Text(`[aria-label="bathrooms"]`),
				scraper.Text(".bathrooms"),
			},
			Size: []scraper.Extractor{
				scraper.Text(`[data-cy="card-area"]`),
				scraper.Text(".size"),
				scraper.JoinedText(".key-features li", " "),
			},
			Contact: []scraper.Extractor{
				scraper.JoinedText(`[data-cy="agent-details"]`, " "),
				scraper.JoinedText(".agent-details", " "),
				scraper.Attr(`a[href^="tel:"]`, "href"),
			},
			PostedAt: []scraper.Extractor{
				scraper.Text(`[data-cy="date-posted"]`),
				scraper.Attr("time[datetime]", "datetime"),
				scraper.Meta("article:published_time"),
			},
			Images: []scraper.ListExtractor{
				scraper.Attrs(`[data-cy="gallery"] img`, "data-src"),
				scraper.Attrs(".gallery img", "data-src"),
				scraper.Attrs(".gallery img", "src"),
				scraper.MetaList("og:image"),
			},
		},
	}
}

func buyRentKenyaSearchURL(q scraper.SearchQuery) string {
	mode := "-for-sale"
	if isRent(q.ListingType) {
		mode = "-for-rent"
	}

	segment, ok := buyRentKenyaSegments[q.PropertyType]
	if !ok {
		segment = "property"
	}

	u := buyRentKenyaURL + "/" + segment + mode
	if loc := slug(q.Location); loc != "" {
		u += "/" + loc
	}
	return u
}
