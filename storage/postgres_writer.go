package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
	"github.com/eliasndungu/apify-real-estate-scraper/utils"
)

var listingColumns = []string{
	"listing_id", "source", "url", "title", "description",
	"listing_type", "property_type",
	"price_amount", "price_currency", "price_original",
	"area", "city", "region", "location_original",
	"contact_name", "phones", "email", "whatsapp",
	"images", "bedrooms", "bathrooms", "size_value", "size_unit",
	"parking", "furnished", "posted_at", "scraped_at",
}

// PostgresWriter upserts normalized listings into PostgreSQL, keyed by URL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, logger *utils.Logger) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                SERIAL PRIMARY KEY,
			listing_id        TEXT,
			source            VARCHAR(50)   NOT NULL,
			url               TEXT          UNIQUE NOT NULL,
			title             TEXT,
			description       TEXT,
			listing_type      VARCHAR(20)   NOT NULL,
			property_type     VARCHAR(20)   NOT NULL,
			price_amount      NUMERIC(16,2),
			price_currency    VARCHAR(3)    NOT NULL,
			price_original    TEXT,
			area              TEXT,
			city              TEXT,
			region            TEXT,
			location_original TEXT,
			contact_name      TEXT,
			phones            TEXT[]        NOT NULL DEFAULT '{}',
			email             TEXT,
			whatsapp          TEXT,
			images            TEXT[]        NOT NULL DEFAULT '{}',
			bedrooms          INTEGER,
			bathrooms         INTEGER,
			size_value        NUMERIC(14,2),
			size_unit         VARCHAR(20),
			parking           BOOLEAN,
			furnished         BOOLEAN,
			posted_at         TEXT,
			scraped_at        TIMESTAMPTZ   NOT NULL,
			updated_at        TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_listings_source ON listings(source);
		CREATE INDEX IF NOT EXISTS idx_listings_city   ON listings(city);
		CREATE INDEX IF NOT EXISTS idx_listings_price  ON listings(price_currency, price_amount);
	`)
	return err
}

// Write batch-upserts listings. Listings without a URL are skipped and a URL
// seen twice keeps its last record.
func (pw *PostgresWriter) Write(listings []*models.NormalizedListing) error {
	rows := dedupeByURL(listings)
	if len(rows) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := pw.upsertBatch(rows[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func (pw *PostgresWriter) upsertBatch(batch []*models.NormalizedListing) error {
	query, args := upsertQuery(batch)
	if _, err := pw.db.Exec(query, args...); err != nil {
		return fmt.Errorf("postgres: upsert batch: %w", err)
	}
	return nil
}

func upsertQuery(batch []*models.NormalizedListing) (string, []interface{}) {
	n := len(listingColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for idx, l := range batch {
		placeholders := make([]string, n)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", idx*n+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs, listingArgs(l)...)
	}

	updates := make([]string, 0, n)
	for _, col := range listingColumns {
		if col != "url" {
			updates = append(updates, col+" = EXCLUDED."+col)
		}
	}
	updates = append(updates, "updated_at = NOW()")

	query := fmt.Sprintf(`
		INSERT INTO listings (%s)
		VALUES %s
		ON CONFLICT (url) DO UPDATE SET %s
	`, strings.Join(listingColumns, ", "), strings.Join(valueStrings, ","), strings.Join(updates, ", "))

	return query, valueArgs
}

func listingArgs(l *models.NormalizedListing) []interface{} {
	phones := l.Contact.Phone
	if phones == nil {
		phones = []string{}
	}
	images := l.Images
	if images == nil {
		images = []string{}
	}

	return []interface{}{
		l.ID, l.Source, l.URL, l.Title, l.Description,
		string(l.ListingType), string(l.PropertyType),
		l.Price.Amount, l.Price.Currency, l.Price.Original,
		l.Location.Area, l.Location.City, l.Location.Region, l.Location.Original,
		l.Contact.Name, pq.Array(phones), l.Contact.Email, l.Contact.WhatsApp,
		pq.Array(images), l.Features.Bedrooms, l.Features.Bathrooms, l.Features.Size.Value, l.Features.Size.Unit,
		l.Features.Parking, l.Features.Furnished, l.PostedAt, l.ScrapedAt,
	}
}

func dedupeByURL(listings []*models.NormalizedListing) []*models.NormalizedListing {
	index := make(map[string]int, len(listings))
	out := make([]*models.NormalizedListing, 0, len(listings))

	for _, l := range listings {
		if l == nil || l.URL == nil {
			continue
		}
		if i, ok := index[*l.URL]; ok {
			out[i] = l
			continue
		}
		index[*l.URL] = len(out)
		out = append(out, l)
	}
	return out
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves every stored listing, oldest first.
func (pw *PostgresWriter) FetchAll() ([]*models.NormalizedListing, error) {
	rows, err := pw.db.Query(`SELECT ` + strings.Join(listingColumns, ", ") + ` FROM listings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.NormalizedListing
	for rows.Next() {
		l := &models.NormalizedListing{}
		var (
			listingType, propertyType string
			bedrooms, bathrooms       sql.NullInt64
			phones, images            []string
		)
		if err := rows.Scan(
			&l.ID, &l.Source, &l.URL, &l.Title, &l.Description,
			&listingType, &propertyType,
			&l.Price.Amount, &l.Price.Currency, &l.Price.Original,
			&l.Location.Area, &l.Location.City, &l.Location.Region, &l.Location.Original,
			&l.Contact.Name, pq.Array(&phones), &l.Contact.Email, &l.Contact.WhatsApp,
			pq.Array(&images), &bedrooms, &bathrooms, &l.Features.Size.Value, &l.Features.Size.Unit,
			&l.Features.Parking, &l.Features.Furnished, &l.PostedAt, &l.ScrapedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		l.ListingType = models.ListingType(listingType)
		l.PropertyType = models.PropertyType(propertyType)
		l.Features.Bedrooms = nullInt(bedrooms)
		l.Features.Bathrooms = nullInt(bathrooms)
		l.Contact.Phone = nonNil(phones)
		l.Images = nonNil(images)
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
