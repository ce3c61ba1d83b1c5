package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/newsai-hq/newsai-backend/internal/domain"
	"github.com/newsai-hq/newsai-backend/internal/logger"
	"github.com/newsai-hq/newsai-backend/internal/newsapi"
	"github.com/newsai-hq/newsai-backend/internal/storage"
)

// Package query serves client reads: store-backed category pagination with a
// live provider fallback, and a live top-headlines read. A provider quota
// signal on any live path degrades to a single synthetic article instead of
// an error; degraded articles are never persisted.

var (
	// ErrUnknownCategory marks a category outside the fixed set.
	ErrUnknownCategory = errors.New("query: unknown category")
	// ErrInvalidPage marks a non-positive page number.
	ErrInvalidPage = errors.New("query: page must be positive")
	// ErrNoArticles marks an empty result on both the store and the fallback.
	ErrNoArticles = errors.New("query: no articles found")
)

// PageSize is the fixed page size of category reads.
const PageSize = 10

// Page is one page of results plus the continuation marker.
type Page struct {
	News     []domain.Article `json:"news"`
	NextPage *int             `json:"nextPage"`
}

// Service composes the store and the upstream client into the read paths.
type Service struct {
	store   storage.Store
	fetcher newsapi.Fetcher
	now     func() time.Time
}

// NewService builds the read service.
func NewService(store storage.Store, fetcher newsapi.Fetcher) *Service {
	return &Service{
		store:   store,
		fetcher: fetcher,
		now:     time.Now,
	}
}

// ByCategory serves a category page from the store, ordered newest first.
// When the store has nothing for the page it falls back to a live provider
// read (cache miss); fallback results are served but never persisted.
func (s *Service) ByCategory(ctx context.Context, category string, page int) (Page, error) {
	if !domain.ValidCategory(category) {
		return Page{}, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if page <= 0 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	category = domain.NormalizeCategory(category)

	items, total, err := s.store.ByCategory(ctx, category, page, PageSize)
	if err != nil {
		return Page{}, fmt.Errorf("read category %q: %w", category, err)
	}
	if len(items) > 0 {
		return Page{News: items, NextPage: nextPage(page, total)}, nil
	}

	return s.liveFallback(ctx, category, page)
}

// Latest serves the live, uncategorized top-headlines read.
func (s *Service) Latest(ctx context.Context) (Page, error) {
	articles, err := s.fetcher.TopHeadlines(ctx, newsapi.Query{
		Category: domain.CategoryGeneral,
		Page:     1,
		PageSize: PageSize,
	})
	if errors.Is(err, newsapi.ErrQuotaExceeded) {
		return s.degradedPage(), nil
	}
	if err != nil {
		return Page{}, fmt.Errorf("fetch latest headlines: %w", err)
	}
	return Page{News: articles}, nil
}

// liveFallback reads the category straight from the provider. Quota degrades
// to a synthetic article; any other failure counts as a miss.
func (s *Service) liveFallback(ctx context.Context, category string, page int) (Page, error) {
	articles, err := s.fetcher.TopHeadlines(ctx, newsapi.Query{
		Category: category,
		Page:     page,
		PageSize: PageSize,
	})
	if errors.Is(err, newsapi.ErrQuotaExceeded) {
		return s.degradedPage(), nil
	}
	if err != nil {
		logger.WarnObj("live category fallback failed", "fallback_error", map[string]any{
			"category": category,
			"page":     page,
			"error":    err.Error(),
		})
		return Page{}, fmt.Errorf("%w: category %q", ErrNoArticles, category)
	}
	if len(articles) == 0 {
		return Page{}, fmt.Errorf("%w: category %q", ErrNoArticles, category)
	}

	var next *int
	if len(articles) == PageSize {
		n := page + 1
		next = &n
	}
	return Page{News: articles, NextPage: next}, nil
}

// degradedPage is the quota-exceeded response shape: exactly one synthetic
// article and no continuation.
func (s *Service) degradedPage() Page {
	return Page{News: []domain.Article{domain.DegradedArticle(s.now())}}
}

// nextPage returns page+1 while page*PageSize is still below total.
func nextPage(page, total int) *int {
	if page*PageSize >= total {
		return nil
	}
	n := page + 1
	return &n
}
