package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/newsai-hq/newsai-backend/internal/domain"
	"github.com/newsai-hq/newsai-backend/pkg/httpclient"
)

const articlePage = `<!doctype html>
<html><head>
<meta property="og:description" content="Scraped description" />
<meta property="og:image" content="https://example.com/scraped.jpg" />
</head><body></body></html>`

func TestEnricherFillsMissingMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	enricher := NewEnricher(httpclient.NewRestyClient(0), 0)
	articles := []domain.Article{{Title: "sparse", URL: srv.URL}}

	out := enricher.Enrich(context.Background(), articles)
	if len(out) != 1 {
		t.Fatalf("expected 1 article, got %d", len(out))
	}
	if out[0].Description != "Scraped description" {
		t.Fatalf("description not merged: %q", out[0].Description)
	}
	if out[0].URLToImage != "https://example.com/scraped.jpg" {
		t.Fatalf("image not merged: %q", out[0].URLToImage)
	}
}

func TestEnricherNeverOverwritesProviderFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	enricher := NewEnricher(httpclient.NewRestyClient(0), 0)
	articles := []domain.Article{{
		Title:       "complete enough",
		URL:         srv.URL,
		Description: "provider description",
	}}

	out := enricher.Enrich(context.Background(), articles)
	if out[0].Description != "provider description" {
		t.Fatalf("provider description overwritten: %q", out[0].Description)
	}
	if out[0].URLToImage != "https://example.com/scraped.jpg" {
		t.Fatalf("missing image should still be merged: %q", out[0].URLToImage)
	}
}

func TestEnricherKeepsArticleOnFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	enricher := NewEnricher(httpclient.NewRestyClient(0), 0)
	articles := []domain.Article{{Title: "unreachable", URL: srv.URL}}

	out := enricher.Enrich(context.Background(), articles)
	if len(out) != 1 || out[0].Title != "unreachable" {
		t.Fatalf("article dropped on scrape failure: %+v", out)
	}
	if out[0].Description != "" {
		t.Fatalf("unexpected enrichment from failed fetch")
	}
}
