package sites

import (
	"github.com/eliasndungu/apify-real-estate-scraper/scraper"
)

const property24URL = "https://www.property24.co.ke"

var property24Segments = map[string]string{
	"house":      "houses",
	"apartment":  "apartments-flats",
	"land":       "vacant-land-plots",
	"commercial": "commercial-property",
}

// Property24 describes www.property24.co.ke. Rentals use "-to-rent" and the
// location is folded into the path: /houses-to-rent-in-karen.
func Property24() *scraper.Site {
	return &scraper.Site{
		Name:      "property24",
		BaseURL:   property24URL,
		SearchURL: property24SearchURL,
		LinkSelectors: []string{
			`.p24_regularTile a[href]`,
			`.js_listingTile a[href]`,
			`.p24_promotedTile a[href]`,
		},
		NextPageSelectors: []string{
			`.pagination li.active + li a`,
			`a.pull-right[href*="/p"]`,
			`a[rel="next"]`,
		},
		Fields: scraper.FieldSet{
			Title: []scraper.Extractor{
				scraper.Text("h1.p24_title"),
				scraper.Text(".p24_listingTitle"),
				scraper.Text("h1"),
				scraper.Meta("og:title"),
			},
			Description: []scraper.Extractor{
				scraper.Text(".js_expandedText"),
				scraper.Text(".p24_description"),
				scraper.Meta("og:description"),
			},
			Price: []scraper.Extractor{
				scraper.Text(".p24_price"),
				scraper.Text(".p24_listingPrice"),
				scraper.Meta("og:price:amount"),
			},
			Location: []scraper.Extractor{
				scraper.Text(".p24_location"),
				scraper.Text(".p24_address"),
				scraper.Text(".p24_listingLocation"),
			},
			ListingType: []scraper.Extractor{
				scraper.Text(`.p24_propertyOverviewRow:contains("Listing Type") .p24_info`),
			},
			PropertyType: []scraper.Extractor{
				scraper.Text(`.p24_propertyOverviewRow:contains("Type of Property") .p24_info`),
				scraper.Text(".p24_propertyType"),
			},
			Bedrooms: []scraper.Extractor{
				scraper.Text(`.p24_featureDetails[title="Bedrooms"] span`),
				scraper.Text(`.p24_propertyOverviewRow:contains("Bedrooms") .p24_info`),
			},
			Bathrooms: []scraper.Extractor{
				scraper.Text(`.p24_featureDetails[title="Bathrooms"] span`),
				scraper.Text(`.p24_propertyOverviewRow:contains("Bathrooms") .p24_info`),
			},
			Size: []scraper.Extractor{
				scraper.Text(`.p24_featureDetails[title="Erf Size"] span`),
				scraper.Text(`.p24_featureDetails[title="Floor Size"] span`),
				scraper.Text(".p24_size"),
				scraper.JoinedText(".p24_keyFeatures li", " "),
			},
			Contact: []scraper.Extractor{
				scraper.JoinedText(".p24_agentDetails", " "),
				scraper.JoinedText(".p24_listingAgent", " "),
				scraper.Attr(`a[href^="tel:"]`, "href"),
			},
			PostedAt: []scraper.Extractor{
				scraper.Text(`.p24_propertyOverviewRow:contains("List Date") .p24_info`),
				scraper.Text(".p24_listed"),
			},
			Images: []scraper.ListExtractor{
				scraper.Attrs(".p24_galleryImage img", "data-src"),
				scraper.Attrs(".js_lightboxImageSrc", "data-src"),
				scraper.Attrs(".p24_galleryImage img", "src"),
				scraper.MetaList("og:image"),
			},
		},
	}
}

func property24SearchURL(q scraper.SearchQuery) string {
	mode := "-for-sale"
	if isRent(q.ListingType) {
		mode = "-to-rent"
	}

	segment, ok := property24Segments[q.PropertyType]
	if !ok {
		segment = "property"
	}

	u := property24URL + "/" + segment + mode
	if loc := slug(q.Location); loc != "" {
		u += "-in-" + loc
	}
	return u
}
