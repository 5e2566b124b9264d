package services

import (
	"regexp"
	"strings"
)

var thumbSuffixRegexp = regexp.MustCompile(`-thumb(\.[A-Za-z0-9]+)$`)

// NormalizeImages accepts nil, a single URL or a list of URL candidates and
// returns the absolute http(s) URLs in their original order. Protocol-relative
// URLs get https and thumbnail suffixes are upgraded to the full-size image.
func NormalizeImages(input any) []string {
	var candidates []any
	switch v := input.(type) {
	case nil:
	case string:
		candidates = []any{v}
	case []string:
		for _, s := range v {
			candidates = append(candidates, s)
		}
	case []any:
		candidates = v
	}

	images := []string{}
	for _, c := range candidates {
		s, ok := c.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "//") {
			s = "https:" + s
		}
		s = thumbSuffixRegexp.ReplaceAllString(s, "$1")
		if !strings.HasPrefix(s, "http") {
			continue
		}
		images = append(images, s)
	}
	return images
}
