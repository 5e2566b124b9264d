package services

import (
	"errors"
	"testing"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

func listing(source string, amount float64, currency, city string, lt models.ListingType) *models.NormalizedListing {
	l := &models.NormalizedListing{
		Source:       source,
		Title:        models.StrPtr(source + " listing"),
		ListingType:  lt,
		PropertyType: models.PropertyHouse,
		Price:        models.Price{Currency: currency},
		Location:     models.Location{City: models.StrPtr(city)},
		Contact:      models.Contact{Phone: []string{}},
		Images:       []string{},
	}
	if amount > 0 {
		l.Price.Amount = &amount
	}
	return l
}

func sampleListings() []*models.NormalizedListing {
	withPhone := listing("property24", 300, KES, "Mombasa", models.ListingSale)
	withPhone.Contact.Phone = []string{"+254722123456"}

	return []*models.NormalizedListing{
		listing("buyrentkenya", 200, KES, "Nairobi", models.ListingSale),
		listing("buyrentkenya", 50, KES, "Nairobi", models.ListingRent),
		listing("property24", 120, KES, "", models.ListingRent),
		withPhone,
		listing("property24", 0, KES, "Kisumu", models.ListingUnknown),
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(quietLogger())
	r := svc.Generate(sampleListings(), KES)

	if r.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", r.TotalListings)
	}
	if r.ListingsBySource["buyrentkenya"] != 2 || r.ListingsBySource["property24"] != 3 {
		t.Errorf("ListingsBySource: got %v", r.ListingsBySource)
	}
	if r.ListingsByType[models.ListingRent] != 2 {
		t.Errorf("rent count: got %d, want 2", r.ListingsByType[models.ListingRent])
	}
	if r.ListingsWithContact != 1 {
		t.Errorf("ListingsWithContact: got %d, want 1", r.ListingsWithContact)
	}
}

func TestInsightRegions(t *testing.T) {
	listings := sampleListings()
	stored := listing("buyrentkenya", 10, KES, "Nakuru", models.ListingSale)
	stored.Location.Region = models.StrPtr("Rift Valley")
	listings = append(listings, stored)

	r := NewInsightService(quietLogger()).Generate(listings, KES)

	want := map[string]int{"Nairobi": 2, "Coast": 1, "Nyanza": 1, "Rift Valley": 1}
	if len(r.ListingsByRegion) != len(want) {
		t.Errorf("ListingsByRegion: got %v, want %v", r.ListingsByRegion, want)
	}
	for region, n := range want {
		if r.ListingsByRegion[region] != n {
			t.Errorf("region %s: got %d, want %d", region, r.ListingsByRegion[region], n)
		}
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(quietLogger())
	r := svc.Generate(sampleListings(), KES)

	if r.PricedListings != 4 {
		t.Errorf("PricedListings: got %d, want 4", r.PricedListings)
	}
	if r.AveragePrice != 167.50 {
		t.Errorf("AveragePrice: got %.2f, want 167.50", r.AveragePrice)
	}
	if r.MinPrice != 50 {
		t.Errorf("MinPrice: got %.2f, want 50", r.MinPrice)
	}
	if r.MaxPrice != 300 {
		t.Errorf("MaxPrice: got %.2f, want 300", r.MaxPrice)
	}
}

func TestInsightIgnoresOtherCurrencies(t *testing.T) {
	listings := append(sampleListings(), listing("property24", 9_999_999, USD, "Nairobi", models.ListingSale))
	r := NewInsightService(quietLogger()).Generate(listings, KES)

	if r.MaxPrice != 300 {
		t.Errorf("MaxPrice: got %.2f, want 300", r.MaxPrice)
	}
}

func TestInsightMostExpensive(t *testing.T) {
	r := NewInsightService(quietLogger()).Generate(sampleListings(), KES)
	if r.MostExpensive == nil {
		t.Fatal("MostExpensive should not be nil")
	}
	if got := models.Str(r.MostExpensive.Location.City); got != "Mombasa" {
		t.Errorf("MostExpensive city: got %q, want Mombasa", got)
	}
}

func TestInsightCityGrouping(t *testing.T) {
	r := NewInsightService(quietLogger()).Generate(sampleListings(), KES)
	if r.ListingsByCity["Nairobi"] != 2 {
		t.Errorf("Nairobi count: got %d, want 2", r.ListingsByCity["Nairobi"])
	}
	if _, ok := r.ListingsByCity[""]; ok {
		t.Error("listings without a city must not be grouped")
	}
}

func TestInsightEmptyInput(t *testing.T) {
	r := NewInsightService(quietLogger()).Generate(nil, "usd")
	if r.TotalListings != 0 {
		t.Errorf("TotalListings: got %d, want 0", r.TotalListings)
	}
	if r.MostExpensive != nil {
		t.Error("MostExpensive should be nil for empty input")
	}
	if r.Currency != USD {
		t.Errorf("Currency: got %q, want USD", r.Currency)
	}
}

func TestSummarize(t *testing.T) {
	svc := NewInsightService(quietLogger())

	ok := svc.Summarize(sampleListings(), nil, map[string]int{"maxListings": 5}, nil)
	if !ok.Success || ok.Error != "" {
		t.Errorf("successful run: got success=%v error=%q", ok.Success, ok.Error)
	}
	if ok.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", ok.TotalListings)
	}
	if ok.RunID == "" || ok.Sources == nil {
		t.Errorf("RunID and Sources must be set, got %+v", ok)
	}

	failed := svc.Summarize(nil, nil, nil, errors.New("boom"))
	if failed.Success || failed.Error != "boom" {
		t.Errorf("failed run: got success=%v error=%q", failed.Success, failed.Error)
	}
	if failed.RunID == ok.RunID {
		t.Error("each summary needs its own run id")
	}
}

func TestSortedCounts(t *testing.T) {
	got := sortedCounts(map[string]int{"b": 2, "a": 2, "c": 5})
	want := []keyCount{{"c", 5}, {"a", 2}, {"b", 2}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sortedCounts[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long title", 10, "this is..."},
	}
	for _, tc := range cases {
		if got := truncate(tc.input, tc.max); got != tc.want {
			t.Errorf("truncate(%q, %d): got %q, want %q", tc.input, tc.max, got, tc.want)
		}
	}
}
