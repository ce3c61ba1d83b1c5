package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/newsai-hq/newsai-backend/internal/domain"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewStore(context.Background(), "bbolt", Options{BBoltPath: t.TempDir() + "/news.db"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func articleAt(title, category string, publishedAt time.Time) domain.Article {
	return domain.Article{
		Title:       title,
		Category:    category,
		Country:     "us",
		URL:         "https://example.com/" + title,
		PublishedAt: publishedAt,
		Source:      domain.Source{ID: "src", Name: "Source"},
	}
}

func TestInsertEnforcesTitleUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := articleAt("one headline", "business", time.Now())
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	exists, err := store.HasTitle(ctx, "one headline")
	if err != nil || !exists {
		t.Fatalf("expected title to exist, got exists=%v err=%v", exists, err)
	}

	// Same title under a different category still conflicts.
	dup := articleAt("one headline", "sports", time.Now())
	if err := store.Insert(ctx, dup); !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}

	total, err := store.CountByCategory(ctx, "business")
	if err != nil || total != 1 {
		t.Fatalf("expected 1 stored article, got total=%d err=%v", total, err)
	}
}

func TestByCategoryPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		a := articleAt(fmt.Sprintf("business headline %02d", i), "business", base.Add(time.Duration(i)*time.Minute))
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	items, total, err := store.ByCategory(ctx, "business", 1, 10)
	if err != nil {
		t.Fatalf("ByCategory page 1: %v", err)
	}
	if len(items) != 10 || total != 25 {
		t.Fatalf("page 1: expected 10 items of 25, got %d of %d", len(items), total)
	}

	items, total, err = store.ByCategory(ctx, "business", 3, 10)
	if err != nil {
		t.Fatalf("ByCategory page 3: %v", err)
	}
	if len(items) != 5 || total != 25 {
		t.Fatalf("page 3: expected 5 items of 25, got %d of %d", len(items), total)
	}

	items, _, err = store.ByCategory(ctx, "business", 4, 10)
	if err != nil {
		t.Fatalf("ByCategory page 4: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("page past the end should be empty, got %d items", len(items))
	}
}

func TestByCategoryOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	// Insert out of chronological order.
	for _, offset := range []int{3, 1, 4, 0, 2} {
		a := articleAt(fmt.Sprintf("science headline %d", offset), "science", base.Add(time.Duration(offset)*time.Hour))
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	items, _, err := store.ByCategory(ctx, "science", 1, 10)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].PublishedAt.After(items[i-1].PublishedAt) {
			t.Fatalf("items not in publishedAt-descending order at index %d", i)
		}
	}
}

func TestByCategoryNormalizesCase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a := articleAt("match report", "Sports", time.Now())
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	upper, _, err := store.ByCategory(ctx, "Sports", 1, 10)
	if err != nil {
		t.Fatalf("ByCategory Sports: %v", err)
	}
	lower, _, err := store.ByCategory(ctx, "sports", 1, 10)
	if err != nil {
		t.Fatalf("ByCategory sports: %v", err)
	}
	if len(upper) != 1 || len(lower) != 1 || upper[0].Title != lower[0].Title {
		t.Fatalf("case-insensitive lookup mismatch: upper=%d lower=%d", len(upper), len(lower))
	}
}

func TestByCategoryIsolatesCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	if err := store.Insert(ctx, articleAt("health headline", "health", now)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := store.Insert(ctx, articleAt("sports headline", "sports", now)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	items, total, err := store.ByCategory(ctx, "health", 1, 10)
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Title != "health headline" {
		t.Fatalf("category leak: items=%+v total=%d", items, total)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore(context.Background(), "redis", Options{}); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}
