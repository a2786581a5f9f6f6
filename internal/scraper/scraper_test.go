package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

const longParagraph = "Der Bundesrat hat heute eine weitreichende Entscheidung getroffen, die viele Bereiche betrifft."

func articleHTML(paragraphs int) string {
	var b strings.Builder
	b.WriteString("<html><body><article>")
	for i := 0; i < paragraphs; i++ {
		fmt.Fprintf(&b, "<p>%s (%d)</p>", longParagraph, i)
	}
	b.WriteString("</article></body></html>")
	return b.String()
}

func TestExtractArticle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML(3))
	}))
	defer srv.Close()

	s := New(5 * time.Second)
	content, err := s.ExtractArticle(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(content, "Bundesrat") {
		t.Errorf("paragraph text missing from %q", content)
	}
	if strings.Count(content, "\n\n") != 2 {
		t.Errorf("expected 3 paragraphs joined by blank lines, got %q", content)
	}
}

func TestExtractArticle_RejectsThinPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><article><p>too short</p></article></body></html>")
	}))
	defer srv.Close()

	s := New(5 * time.Second)
	if _, err := s.ExtractArticle(context.Background(), srv.URL); err == nil {
		t.Errorf("thin page should be rejected")
	}
}

func TestExtractArticle_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(5 * time.Second)
	if _, err := s.ExtractArticle(context.Background(), srv.URL); err == nil {
		t.Errorf("non-200 response should be an error")
	}
}

func TestExtractBody_FallsThroughSelectors(t *testing.T) {
	html := "<html><body><main>" +
		"<p>" + longParagraph + " eins</p>" +
		"<p>" + longParagraph + " zwei</p>" +
		"<p>" + longParagraph + " drei</p>" +
		"</main></body></html>"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	content := extractBody(doc)
	if !strings.Contains(content, "eins") || !strings.Contains(content, "drei") {
		t.Errorf("main-selector paragraphs not extracted: %q", content)
	}
}

func TestFindArticleLinks(t *testing.T) {
	html := `<html><body>
      <a href="/news/bundesrat-entscheid">Bundesrat fällt wichtigen Entscheid zur Europapolitik</a>
      <a href="/news/sport">Fussballresultate vom Wochenende im Überblick</a>
      <a href="/news/bundesrat-entscheid">Bundesrat fällt wichtigen Entscheid zur Europapolitik</a>
      <a href="/short">kurz</a>
    </body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	links := findArticleLinks(doc, "https://example.ch/news", []string{"bundesrat"})
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1: %+v", len(links), links)
	}
	if links[0].url != "https://example.ch/news/bundesrat-entscheid" {
		t.Errorf("relative link not resolved: %s", links[0].url)
	}
}

func TestCollect_ScrapesListingAndExtracts(t *testing.T) {
	mux := http.NewServeMux()
	var listingURL string
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML(4))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="%s/article">Bundesrat fällt wichtigen Entscheid heute</a></body></html>`, listingURL)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	listingURL = srv.URL

	s := New(5 * time.Second)
	src := registry.SourceConfig{Name: "Test Source", ScrapeURLs: []string{srv.URL + "/"}}
	got, err := s.Collect(context.Background(), src, []string{"bundesrat"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1", len(got))
	}
	c := got[0]
	if c.Source != "Test Source" || c.ContentHash == "" {
		t.Errorf("candidate incomplete: %+v", c)
	}
	if !c.Published.IsZero() {
		t.Errorf("scraped candidates must carry no publish time")
	}
}
