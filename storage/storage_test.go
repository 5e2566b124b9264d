package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

func sampleListing(url string, amount float64) *models.NormalizedListing {
	beds := 3
	parking := true
	return &models.NormalizedListing{
		ID:           models.StrPtr("123456"),
		Source:       "buyrentkenya",
		URL:          models.StrPtr(url),
		Title:        models.StrPtr("3 Bed Apartment, Kilimani"),
		ListingType:  models.ListingRent,
		PropertyType: models.PropertyApartment,
		Price:        models.Price{Amount: &amount, Currency: "KES", Original: models.StrPtr("KES 85,000")},
		Location:     models.Location{Area: models.StrPtr("Kilimani"), City: models.StrPtr("Nairobi"), Region: models.StrPtr("Nairobi")},
		Contact:      models.Contact{Phone: []string{"+254722123456", "+254733123456"}},
		Images:       []string{"https://img.test/a.jpg"},
		Features:     models.Features{Bedrooms: &beds, Parking: &parking},
		ScrapedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "listings.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.Write([]*models.NormalizedListing{sampleListing("https://x.test/1", 85000)}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows: got %d, want 2", len(records))
	}

	row := make(map[string]string)
	for i, col := range records[0] {
		row[col] = records[1][i]
	}

	tests := map[string]string{
		"id":         "123456",
		"price":      "85000",
		"currency":   "KES",
		"city":       "Nairobi",
		"bedrooms":   "3",
		"bathrooms":  "",
		"parking":    "true",
		"furnished":  "",
		"phones":     "+254722123456;+254733123456",
		"scraped_at": "2024-05-01T12:00:00Z",
	}
	for col, want := range tests {
		if row[col] != want {
			t.Errorf("column %s: got %q, want %q", col, row[col], want)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	w, err := NewJSONWriter(dir)
	if err != nil {
		t.Fatalf("NewJSONWriter: %v", err)
	}
	if err := w.Write([]*models.NormalizedListing{sampleListing("https://x.test/1", 85000)}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, DatasetFile))
	if err != nil {
		t.Fatalf("read dataset: %v", err)
	}
	var got []map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("records: got %d, want 1", len(got))
	}
	if got[0]["listingType"] != "rent" || got[0]["description"] != nil {
		t.Errorf("record: got %v", got[0])
	}
	features := got[0]["features"].(map[string]any)
	if features["bathrooms"] != nil {
		t.Errorf("missing bathrooms should serialise as null, got %v", features["bathrooms"])
	}

	if _, err := os.Stat(filepath.Join(dir, DatasetFile+".tmp")); !os.IsNotExist(err) {
		t.Error("temp file should be renamed away")
	}
}

func TestJSONWriterEmptyDataset(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewJSONWriter(dir)

	if err := w.Write(nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, DatasetFile))
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty dataset: got %q, want []", data)
	}
}

func TestJSONWriterSummary(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewJSONWriter(dir)

	summary := &models.RunSummary{
		RunID:         "run-1",
		Success:       false,
		Error:         "boom",
		TotalListings: 0,
		Sources:       []models.SourceSummary{{Name: "nope", Skipped: true}},
		Configuration: map[string]any{"maxListings": 10},
	}
	if err := w.WriteSummary(summary); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, SummaryFile))
	var got models.RunSummary
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Success || got.Error != "boom" || len(got.Sources) != 1 || !got.Sources[0].Skipped {
		t.Errorf("summary: got %+v", got)
	}
}

func TestDedupeByURL(t *testing.T) {
	noURL := sampleListing("", 1)
	noURL.URL = nil

	in := []*models.NormalizedListing{
		sampleListing("https://x.test/1", 100),
		noURL,
		sampleListing("https://x.test/2", 200),
		sampleListing("https://x.test/1", 150),
	}
	out := dedupeByURL(in)

	if len(out) != 2 {
		t.Fatalf("rows: got %d, want 2", len(out))
	}
	if *out[0].Price.Amount != 150 {
		t.Errorf("duplicate URL should keep the last record, got %v", *out[0].Price.Amount)
	}
	if models.Str(out[1].URL) != "https://x.test/2" {
		t.Errorf("order: got %q second", models.Str(out[1].URL))
	}
}

func TestUpsertQuery(t *testing.T) {
	batch := []*models.NormalizedListing{
		sampleListing("https://x.test/1", 100),
		sampleListing("https://x.test/2", 200),
	}
	query, args := upsertQuery(batch)

	if len(args) != 2*len(listingColumns) {
		t.Errorf("args: got %d, want %d", len(args), 2*len(listingColumns))
	}
	last := "$" + strconv.Itoa(2*len(listingColumns))
	if !strings.Contains(query, last+")") {
		t.Errorf("query should end with placeholder %s:\n%s", last, query)
	}
	if !strings.Contains(query, "ON CONFLICT (url) DO UPDATE") || strings.Contains(query, "url = EXCLUDED.url") {
		t.Errorf("unexpected conflict clause:\n%s", query)
	}
}

func TestBuildKey(t *testing.T) {
	a := buildKey("BuyRentKenya", "KES:https://www.buyrentkenya.com/houses-for-sale")
	b := buildKey("buyrentkenya", "kes:https://www.buyrentkenya.com/houses-for-sale")
	c := buildKey("buyrentkenya", "USD:https://www.buyrentkenya.com/houses-for-sale")

	if a != b {
		t.Errorf("keys should be case-insensitive: %q vs %q", a, b)
	}
	if a == c {
		t.Error("different queries must not share a key")
	}
	if !strings.HasPrefix(a, "realestate:buyrentkenya:") {
		t.Errorf("key prefix: got %q", a)
	}
}
