package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRegexp = regexp.MustCompile(`\s+`)

// Page is a fetched document together with the URL it was served from.
type Page struct {
	URL *url.URL
	Doc *goquery.Document
}

// NewPage wraps doc. fallbackURL is used when the document carries no URL.
func NewPage(doc *goquery.Document, fallbackURL string) *Page {
	u := doc.Url
	if u == nil {
		u, _ = url.Parse(fallbackURL)
	}
	if u == nil {
		u = &url.URL{}
	}
	return &Page{URL: u, Doc: doc}
}

// Resolve turns href into an absolute URL relative to the page, dropping any
// fragment. It returns "" for empty, javascript: and mailto: links.
func (p *Page) Resolve(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	abs := p.URL.ResolveReference(ref)
	abs.Fragment = ""
	return abs.String()
}

// Links returns the absolute hrefs matched by any of selectors, deduplicated
// in document order.
func (p *Page) Links(selectors []string) []string {
	var links []string
	seen := make(map[string]struct{})

	for _, sel := range selectors {
		p.Doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok {
				return
			}
			link := p.Resolve(href)
			if link == "" {
				return
			}
			if _, dup := seen[link]; dup {
				return
			}
			seen[link] = struct{}{}
			links = append(links, link)
		})
	}
	return links
}

// Extractor attempts to read one field from a page. An empty result means
// the extractor missed.
type Extractor func(p *Page) string

// ListExtractor attempts to read a list field from a page.
type ListExtractor func(p *Page) []string

// FirstNonEmpty applies chain in order and returns the first non-empty value.
func FirstNonEmpty(p *Page, chain []Extractor) string {
	for _, ex := range chain {
		if v := ex(p); v != "" {
			return v
		}
	}
	return ""
}

// FirstNonEmptyList applies chain in order and returns the first non-empty list.
func FirstNonEmptyList(p *Page, chain []ListExtractor) []string {
	for _, ex := range chain {
		if v := ex(p); len(v) > 0 {
			return v
		}
	}
	return nil
}

// Text reads the collapsed text of the first element matching selector.
func Text(selector string) Extractor {
	return func(p *Page) string {
		return clean(p.Doc.Find(selector).First().Text())
	}
}

// JoinedText reads the text of every element matching selector, joined with sep.
func JoinedText(selector, sep string) Extractor {
	return func(p *Page) string {
		var parts []string
		p.Doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if t := clean(s.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		return strings.Join(parts, sep)
	}
}

// Attr reads attr from the first element matching selector.
func Attr(selector, attr string) Extractor {
	return func(p *Page) string {
		v, _ := p.Doc.Find(selector).First().Attr(attr)
		return clean(v)
	}
}

// Meta reads a <meta> tag's content by property (Open Graph) or name.
func Meta(key string) Extractor {
	return func(p *Page) string {
		sel := `meta[property="` + key + `"], meta[name="` + key + `"]`
		v, _ := p.Doc.Find(sel).First().Attr("content")
		return clean(v)
	}
}

// Attrs reads attr from every element matching selector, resolved against
// the page URL.
func Attrs(selector, attr string) ListExtractor {
	return func(p *Page) []string {
		var out []string
		p.Doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			v, ok := s.Attr(attr)
			if !ok {
				return
			}
			// srcset-style values carry a width descriptor after the URL.
			if fields := strings.Fields(v); len(fields) > 0 {
				v = fields[0]
			}
			if strings.HasPrefix(v, "//") {
				out = append(out, v)
				return
			}
			if abs := p.Resolve(v); abs != "" {
				out = append(out, abs)
			}
		})
		return out
	}
}

// MetaList wraps a Meta extractor as a single-element list.
func MetaList(key string) ListExtractor {
	ex := Meta(key)
	return func(p *Page) []string {
		if v := ex(p); v != "" {
			return []string{v}
		}
		return nil
	}
}

func clean(s string) string {
	return strings.TrimSpace(whitespaceRegexp.ReplaceAllString(s, " "))
}
