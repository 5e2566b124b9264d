package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Input validation errors.
var (
	ErrNoSources           = errors.New("at least one source is required")
	ErrInvalidMaxListings  = errors.New("maxListings must be at least 1")
	ErrUnsupportedCurrency = errors.New("currency must be KES or USD")
	ErrInvalidListingType  = errors.New("listingType must be one of: sale, rent")
	ErrInvalidPropertyType = errors.New("propertyType must be one of: house, apartment, land, commercial")
)

// Input describes what to crawl. It is read from a YAML file.
type Input struct {
	Sources      []string `yaml:"sources" json:"sources"`
	ListingType  string   `yaml:"listingType" json:"listingType"`
	PropertyType string   `yaml:"propertyType" json:"propertyType"`
	Location     string   `yaml:"location" json:"location"`
	MaxListings  int      `yaml:"maxListings" json:"maxListings"`
	Currency     string   `yaml:"currency" json:"currency"`
}

// DefaultInput returns the input used when no file is present.
func DefaultInput() *Input {
	return &Input{
		Sources:     []string{"buyrentkenya", "property24"},
		ListingType: "sale",
		MaxListings: 50,
		Currency:    "KES",
	}
}

// LoadInput reads the crawl input from path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadInput(path string) (*Input, error) {
	in := DefaultInput()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return in, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	if err := yaml.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}

	in.normalise()
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return in, nil
}

func (in *Input) normalise() {
	sources := in.Sources[:0]
	for _, s := range in.Sources {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			sources = append(sources, s)
		}
	}
	in.Sources = sources
	in.ListingType = strings.ToLower(strings.TrimSpace(in.ListingType))
	in.PropertyType = strings.ToLower(strings.TrimSpace(in.PropertyType))
	in.Location = strings.TrimSpace(in.Location)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = "KES"
	}
}

// Validate checks the input values.
func (in *Input) Validate() error {
	if len(in.Sources) == 0 {
		return ErrNoSources
	}
	if in.MaxListings < 1 {
		return ErrInvalidMaxListings
	}

	switch in.Currency {
	case "KES", "USD":
	default:
		return fmt.Errorf("%w: got %q", ErrUnsupportedCurrency, in.Currency)
	}

	switch in.ListingType {
	case "", "sale", "rent":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidListingType, in.ListingType)
	}

	switch in.PropertyType {
	case "", "house", "apartment", "land", "commercial":
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidPropertyType, in.PropertyType)
	}

	return nil
}
