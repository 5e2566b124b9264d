package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

var (
	leadingIntRegexp = regexp.MustCompile(`^[+-]?\d+`)
	sizeRegexp       = regexp.MustCompile(`(?i)(\d[\d,]*(?:\.\d+)?)\s*(sq\.?\s*ft|sq\.?\s*m|acres?|hectares?)`)
	unitStrip        = strings.NewReplacer(".", "", " ", "")
)

// ParseNumber reads a leading integer the way parseInt does: "3 bedrooms" is
// 3, "2.5" is 2, "beds: 3" is nil.
func ParseNumber(v any) *int {
	var n int
	switch val := v.(type) {
	case nil:
		return nil
	case int:
		n = val
	case int64:
		n = int(val)
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		n = int(val)
	case string:
		match := leadingIntRegexp.FindString(strings.TrimSpace(val))
		if match == "" {
			return nil
		}
		parsed, err := strconv.Atoi(match)
		if err != nil {
			return nil
		}
		n = parsed
	default:
		return nil
	}
	return &n
}

// ParseSize extracts a size value and unit such as "1,200 sq ft" or "0.5 acres".
func ParseSize(text string) models.Size {
	var size models.Size

	m := sizeRegexp.FindStringSubmatch(text)
	if m == nil {
		return size
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return size
	}
	unit := strings.ToLower(unitStrip.Replace(m[2]))

	size.Value = &value
	size.Unit = &unit
	return size
}

// ParseFlag reads yes/no style values. Numbers count as true when positive.
// Unrecognised text yields nil.
func ParseFlag(v any) *bool {
	var b bool
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		b = val
	case int:
		b = val > 0
	case float64:
		b = val > 0
	case string:
		switch s := strings.ToLower(strings.TrimSpace(val)); {
		case s == "":
			return nil
		case s == "no" || s == "n" || s == "false" || s == "none" || s == "0" || strings.Contains(s, "unfurnished"):
			b = false
		case s == "yes" || s == "y" || s == "true" || s == "available" || strings.Contains(s, "furnished"):
			b = true
		default:
			if n := ParseNumber(s); n != nil {
				b = *n > 0
			} else {
				return nil
			}
		}
	default:
		return nil
	}
	return &b
}
