package ingest

import (
	"context"
	"fmt"

	"github.com/newsai-hq/newsai-backend/internal/domain"
	"github.com/newsai-hq/newsai-backend/internal/storage"
)

// Cell is one (country, category) pair of the ingestion matrix.
type Cell struct {
	Country  string
	Category string
}

func (c Cell) String() string { return c.Country + "/" + c.Category }

// Gate decides whether a fetched article is new relative to the store.
// The store's title constraint remains the authority; this pre-check only
// avoids pointless writes. First writer wins, duplicates are never merged.
type Gate struct {
	store storage.Store
}

// NewGate builds a deduplication gate over the store.
func NewGate(store storage.Store) *Gate {
	return &Gate{store: store}
}

// Admit maps the raw article into its persisted shape, stamping category and
// country from the cell. It reports false for duplicates.
func (g *Gate) Admit(ctx context.Context, raw domain.Article, cell Cell) (domain.Article, bool, error) {
	if raw.Title == "" {
		return domain.Article{}, false, fmt.Errorf("article without title from cell %s", cell)
	}

	exists, err := g.store.HasTitle(ctx, raw.Title)
	if err != nil {
		return domain.Article{}, false, fmt.Errorf("existence check for %q: %w", raw.Title, err)
	}
	if exists {
		return domain.Article{}, false, nil
	}

	record := raw
	record.Category = domain.NormalizeCategory(cell.Category)
	record.Country = cell.Country
	return record, true, nil
}
