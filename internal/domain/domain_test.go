package domain

import (
	"testing"
	"time"
)

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("  Sports "); got != "sports" {
		t.Fatalf("NormalizeCategory = %q", got)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Fatalf("category %q should be valid", c)
		}
	}
	if !ValidCategory("Business") {
		t.Fatalf("validation should be case-insensitive")
	}
	if ValidCategory("weather") {
		t.Fatalf("unknown category accepted")
	}
}

func TestDegradedArticleShape(t *testing.T) {
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	a := DegradedArticle(now)

	if a.Title != DegradedTitle {
		t.Fatalf("unexpected title %q", a.Title)
	}
	if a.Description == "" || a.URLToImage == "" || a.URL != "#" {
		t.Fatalf("degraded article missing placeholder fields: %+v", a)
	}
	if !a.PublishedAt.Equal(now) || a.PublishedAt.Location() != time.UTC {
		t.Fatalf("publishedAt should be the given instant in UTC, got %v", a.PublishedAt)
	}
}
