package sites

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
	"github.com/eliasndungu/apify-real-estate-scraper/scraper"
	"github.com/eliasndungu/apify-real-estate-scraper/services"
	"github.com/eliasndungu/apify-real-estate-scraper/utils"
)

func TestBuyRentKenyaSearchURL(t *testing.T) {
	tests := []struct {
		query scraper.SearchQuery
		want  string
	}{
		{scraper.SearchQuery{}, "https://www.buyrentkenya.com/property-for-sale"},
		{scraper.SearchQuery{ListingType: "sale", PropertyType: "house"}, "https://www.buyrentkenya.com/houses-for-sale"},
		{scraper.SearchQuery{ListingType: "rent", PropertyType: "apartment", Location: "Nairobi"}, "https://www.buyrentkenya.com/flats-apartments-for-rent/nairobi"},
		{scraper.SearchQuery{ListingType: "sale", PropertyType: "land", Location: " Diani Beach "}, "https://www.buyrentkenya.com/land-for-sale/diani-beach"},
		{scraper.SearchQuery{ListingType: "rent", PropertyType: "commercial"}, "https://www.buyrentkenya.com/commercial-property-for-rent"},
	}
	for _, tt := range tests {
		if got := buyRentKenyaSearchURL(tt.query); got != tt.want {
			t.Errorf("buyRentKenyaSearchURL(%+v): got %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestProperty24SearchURL(t *testing.T) {
	tests := []struct {
		query scraper.SearchQuery
		want  string
	}{
		{scraper.SearchQuery{}, "https://www.property24.co.ke/property-for-sale"},
		{scraper.SearchQuery{ListingType: "rent", PropertyType: "house", Location: "Karen"}, "https://www.property24.co.ke/houses-to-rent-in-karen"},
		{scraper.SearchQuery{ListingType: "sale", PropertyType: "land"}, "https://www.property24.co.ke/vacant-land-plots-for-sale"},
		{scraper.SearchQuery{ListingType: "sale", PropertyType: "apartment", Location: "Westlands, Nairobi"}, "https://www.property24.co.ke/apartments-flats-for-sale-in-westlands-nairobi"},
	}
	for _, tt := range tests {
		if got := property24SearchURL(tt.query); got != tt.want {
			t.Errorf("property24SearchURL(%+v): got %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	reg := Registry()
	for _, name := range Names() {
		site, ok := reg[name]
		if !ok {
			t.Errorf("registry is missing %q", name)
			continue
		}
		if site.Name != name || site.SearchURL == nil || len(site.LinkSelectors) == 0 {
			t.Errorf("incomplete descriptor for %q: %+v", name, site)
		}
	}
	if len(reg) != len(Names()) {
		t.Errorf("registry size: got %d, want %d", len(reg), len(Names()))
	}
}

type pageFetcher map[string]string

func (f pageFetcher) Fetch(_ context.Context, u string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f[u]))
	if err != nil {
		return nil, err
	}
	doc.Url, _ = url.Parse(u)
	return doc, nil
}

func TestBuyRentKenyaCrawl(t *testing.T) {
	search := "https://www.buyrentkenya.com/houses-for-sale/nairobi"
	detail := "https://www.buyrentkenya.com/listings/4-bedroom-house-for-sale-runda-3456789"

	f := pageFetcher{
		search: `<html><body>
<div data-cy="listing-card"><a href="/listings/4-bedroom-house-for-sale-runda-3456789">Runda house</a></div>
</body></html>`,
		detail: `<html><head><meta property="og:image" content="https://images.buyrentkenya.com/3456789.jpg"></head><body>
<h1 data-cy="listing-title">4 Bedroom House for sale in Runda</h1>
<span data-cy="listing-price">KSh 85,000,000</span>
<p data-cy="listing-address">Runda, Nairobi</p>
<span data-cy="card-bedroom_count">4</span>
<span data-cy="card-bathroom_count">5</span>
<span data-cy="card-area">0.5 acres</span>
<div data-cy="agent-details">Acme Realty 0722 000 111</div>
</body></html>`,
	}

	logger := utils.NewLoggerTo(io.Discard, io.Discard)
	c := scraper.NewCrawler(BuyRentKenya(), f, services.NewNormalizer(logger), logger, scraper.Options{
		MaxConcurrency: 1,
		Currency:       services.KES,
	})
	listings := c.Run(context.Background(), scraper.SearchQuery{ListingType: "sale", PropertyType: "house", Location: "Nairobi"}, 5)

	if len(listings) != 1 {
		t.Fatalf("listings: got %d, want 1", len(listings))
	}
	l := listings[0]
	if got := models.Str(l.ID); got != "3456789" {
		t.Errorf("id: got %q", got)
	}
	if l.Price.Amount == nil || *l.Price.Amount != 85_000_000 {
		t.Errorf("price: got %+v", l.Price)
	}
	if l.PropertyType != models.PropertyHouse || l.ListingType != models.ListingSale {
		t.Errorf("types: got %q/%q", l.ListingType, l.PropertyType)
	}
	if got := models.Str(l.Location.Area); got != "Runda" {
		t.Errorf("area: got %q", got)
	}
	if len(l.Contact.Phone) != 1 || l.Contact.Phone[0] != "+254722000111" {
		t.Errorf("phone: got %v", l.Contact.Phone)
	}
	if got := models.Str(l.Features.Size.Unit); got != "acres" {
		t.Errorf("size unit: got %q", got)
	}
	if len(l.Images) != 1 {
		t.Errorf("images: got %v", l.Images)
	}
}
