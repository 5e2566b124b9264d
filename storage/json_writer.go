package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

// Output file names inside the output directory.
const (
	DatasetFile = "dataset.json"
	SummaryFile = "summary.json"
)

// JSONWriter writes the dataset and the run summary as indented JSON files.
type JSONWriter struct {
	dir string
}

// NewJSONWriter creates dir if needed.
func NewJSONWriter(dir string) (*JSONWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("json: create output dir: %w", err)
	}
	return &JSONWriter{dir: dir}, nil
}

// Write replaces the dataset file with listings. An empty run writes [].
func (j *JSONWriter) Write(listings []*models.NormalizedListing) error {
	if listings == nil {
		listings = []*models.NormalizedListing{}
	}
	return j.writeFile(DatasetFile, listings)
}

func (j *JSONWriter) WriteSummary(summary *models.RunSummary) error {
	return j.writeFile(SummaryFile, summary)
}

func (j *JSONWriter) Close() error {
	return nil
}

// writeFile writes through a temp file so readers never see a partial file.
func (j *JSONWriter) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json: marshal %s: %w", name, err)
	}

	path := filepath.Join(j.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("json: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("json: rename %s: %w", name, err)
	}
	return nil
}
