package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsai-hq/newsai-backend/internal/domain"
	"github.com/newsai-hq/newsai-backend/internal/logger"
	"github.com/newsai-hq/newsai-backend/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB

	defaultEnrichTimeout = 10 * time.Second
)

// ArticleEnricher fills in metadata for freshly admitted articles.
type ArticleEnricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}

// Enricher fetches article pages and merges OG-tag metadata into fields the
// provider left empty. It never overwrites provider-supplied values.
type Enricher struct {
	client httpclient.Client
	delay  time.Duration
}

// NewEnricher constructs an enricher with the provided HTTP client (or default).
func NewEnricher(client httpclient.Client, delay time.Duration) *Enricher {
	if client == nil {
		client = httpclient.NewRestyClient(defaultEnrichTimeout)
	}
	return &Enricher{client: client, delay: delay}
}

// Enrich iterates articles, fetching each sparse one (with throttling) and
// merging OG metadata. On context cancellation it returns what it has.
func (e *Enricher) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	out := append([]domain.Article(nil), articles...)

	for i, art := range articles {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		if !needsEnrichment(art) || art.URL == "" || art.URL == "#" {
			continue
		}

		enriched, err := e.fetchAndMerge(ctx, art)
		if err != nil {
			logger.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			continue
		}
		out[i] = enriched

		if e.delay > 0 && i < len(articles)-1 {
			timer := time.NewTimer(e.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
	}

	return out
}

func needsEnrichment(art domain.Article) bool {
	return art.Description == "" || art.URLToImage == ""
}

func (e *Enricher) fetchAndMerge(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := e.client.Get(ctx, art.URL, nil)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		return art, fmt.Errorf("status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}

	updated := art
	if updated.Description == "" && meta.Description != "" {
		updated.Description = meta.Description
	}
	if updated.URLToImage == "" && meta.ImageURL != "" {
		updated.URLToImage = meta.ImageURL
	}
	return updated, nil
}

type pageMeta struct {
	Description string
	ImageURL    string
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm := pageMeta{}
	pm.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)
	pm.ImageURL = extract(`meta[property="og:image"]`)

	return pm, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
