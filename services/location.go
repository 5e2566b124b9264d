package services

import (
	"strings"

	"github.com/eliasndungu/apify-real-estate-scraper/models"
)

type gazetteerEntry struct {
	city   string
	region string
}

// gazetteer lists the known cities in match priority order.
var gazetteer = []gazetteerEntry{
	{"Nairobi", "Nairobi"},
	{"Mombasa", "Coast"},
	{"Kisumu", "Nyanza"},
	{"Nakuru", "Rift Valley"},
	{"Eldoret", "Rift Valley"},
	{"Thika", "Central"},
	{"Malindi", "Coast"},
	{"Kitale", "Rift Valley"},
	{"Garissa", "North Eastern"},
	{"Kakamega", "Western"},
	{"Nyeri", "Central"},
	{"Machakos", "Eastern"},
	{"Meru", "Eastern"},
	{"Kisii", "Nyanza"},
	{"Naivasha", "Rift Valley"},
	{"Kericho", "Rift Valley"},
	{"Kilifi", "Coast"},
	{"Embu", "Eastern"},
	{"Bungoma", "Western"},
	{"Kiambu", "Central"},
}

var locationSeparators = strings.NewReplacer("-", ",", "/", ",")

// RegionOf returns the region of a gazetteer city, or "" when unknown.
func RegionOf(city string) string {
	for _, e := range gazetteer {
		if strings.EqualFold(e.city, city) {
			return e.region
		}
	}
	return ""
}

// NormalizeLocation splits a free-text location on commas, hyphens and
// slashes. The first segment becomes the area; the first segment containing a
// gazetteer city sets city and region.
func NormalizeLocation(text string) models.Location {
	var loc models.Location

	text = strings.TrimSpace(text)
	if text == "" {
		return loc
	}
	original := text
	loc.Original = &original

	var segments []string
	for _, part := range strings.Split(locationSeparators.Replace(text), ",") {
		if part = strings.TrimSpace(part); part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return loc
	}

	area := segments[0]
	loc.Area = &area

	for _, seg := range segments {
		lower := strings.ToLower(seg)
		for _, e := range gazetteer {
			if strings.Contains(lower, strings.ToLower(e.city)) {
				city, region := e.city, e.region
				loc.City = &city
				loc.Region = &region
				return loc
			}
		}
	}
	return loc
}
