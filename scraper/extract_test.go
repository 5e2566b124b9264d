package scraper

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const sampleDetail = `<html><head>
<meta property="og:title" content="Fallback title">
<meta name="description" content="Meta description">
</head><body>
<h1>  4 Bedroom
   Villa </h1>
<ul class="facts"><li>3 Beds</li><li></li><li>2 Baths</li></ul>
<div class="gallery">
  <img src="/img/1.jpg">
  <img data-src="//cdn.test/2.jpg 800w">
  <img src="https://cdn.test/3.jpg">
</div>
<a class="more" href="javascript:void(0)">more</a>
<a class="more" href="?page=2#top">next</a>
</body></html>`

func samplePage(t *testing.T) *Page {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sampleDetail))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewPage(doc, "https://site.test/listings/villa-5555")
}

func TestExtractors(t *testing.T) {
	p := samplePage(t)

	tests := []struct {
		name string
		ex   Extractor
		want string
	}{
		{"text collapses whitespace", Text("h1"), "4 Bedroom Villa"},
		{"text miss", Text(".missing"), ""},
		{"meta by property", Meta("og:title"), "Fallback title"},
		{"meta by name", Meta("description"), "Meta description"},
		{"attr", Attr(".gallery img", "src"), "/img/1.jpg"},
		{"joined text skips empty", JoinedText(".facts li", " | "), "3 Beds | 2 Baths"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ex(p); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	p := samplePage(t)

	got := FirstNonEmpty(p, []Extractor{Text(".title"), Meta("og:title"), Text("h1")})
	if got != "Fallback title" {
		t.Errorf("got %q, want the first non-empty extractor", got)
	}
	if got := FirstNonEmpty(p, nil); got != "" {
		t.Errorf("empty chain: got %q", got)
	}
}

func TestAttrsResolvesURLs(t *testing.T) {
	p := samplePage(t)

	got := FirstNonEmptyList(p, []ListExtractor{
		Attrs(".missing img", "src"),
		Attrs(".gallery img", "src"),
	})
	want := []string{"https://site.test/img/1.jpg", "https://cdn.test/3.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	lazy := Attrs(".gallery img", "data-src")(p)
	if !reflect.DeepEqual(lazy, []string{"//cdn.test/2.jpg"}) {
		t.Errorf("srcset-style value: got %v", lazy)
	}
}

func TestPageLinks(t *testing.T) {
	p := samplePage(t)

	got := p.Links([]string{"a.more", "a.more"})
	want := []string{"https://site.test/listings/villa-5555?page=2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPageResolve(t *testing.T) {
	p := samplePage(t)

	tests := []struct {
		href string
		want string
	}{
		{"/l/1", "https://site.test/l/1"},
		{"other", "https://site.test/listings/other"},
		{"https://x.test/a#frag", "https://x.test/a"},
		{"#", ""},
		{"mailto:a@b.c", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := p.Resolve(tt.href); got != tt.want {
			t.Errorf("Resolve(%q): got %q, want %q", tt.href, got, tt.want)
		}
	}
}

func TestNewPageFallbackURL(t *testing.T) {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader("<html></html>"))
	doc.Url = nil
	p := NewPage(doc, "https://site.test/a")
	if p.URL.String() != "https://site.test/a" {
		t.Errorf("URL: got %q", p.URL)
	}

	doc.Url, _ = url.Parse("https://site.test/redirected")
	if p := NewPage(doc, "https://site.test/a"); p.URL.String() != "https://site.test/redirected" {
		t.Errorf("document URL should win, got %q", p.URL)
	}
}
