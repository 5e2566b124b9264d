package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

var csvHeader = []string{
	"id", "source", "url", "title", "listing_type", "property_type",
	"price", "currency", "price_original",
	"area", "city", "region",
	"bedrooms", "bathrooms", "size", "size_unit", "parking", "furnished",
	"contact_name", "phones", "email", "whatsapp",
	"images", "posted_at", "scraped_at",
}

// CSVWriter writes normalized listings to a CSV file, one row per listing.
// Multi-valued fields are joined with ";". It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

func (c *CSVWriter) Write(listings []*models.NormalizedListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		if err := c.writer.Write(csvRow(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func csvRow(l *models.NormalizedListing) []string {
	return []string{
		models.Str(l.ID),
		l.Source,
		models.Str(l.URL),
		models.Str(l.Title),
		string(l.ListingType),
		string(l.PropertyType),
		formatFloat(l.Price.Amount),
		l.Price.Currency,
		models.Str(l.Price.Original),
		models.Str(l.Location.Area),
		models.Str(l.Location.City),
		models.Str(l.Location.Region),
		formatInt(l.Features.Bedrooms),
		formatInt(l.Features.Bathrooms),
		formatFloat(l.Features.Size.Value),
		models.Str(l.Features.Size.Unit),
		formatBool(l.Features.Parking),
		formatBool(l.Features.Furnished),
		models.Str(l.Contact.Name),
		strings.Join(l.Contact.Phone, ";"),
		models.Str(l.Contact.Email),
		models.Str(l.Contact.WhatsApp),
		strings.Join(l.Images, ";"),
		models.Str(l.PostedAt),
		l.ScrapedAt.Format(time.RFC3339),
	}
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
