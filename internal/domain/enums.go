package domain

import "strings"

// Categories is the fixed category set served by the API. "general" maps to
// an unfiltered upstream query and is not ingested as its own matrix cell.
var Categories = []string{"health", "science", "sports", "entertainment", "politics", "business", "general"}

// IngestCategories are the categories walked by an ingestion cycle.
var IngestCategories = []string{"health", "science", "sports", "entertainment", "politics", "business"}

// Countries is the fixed country set walked by an ingestion cycle.
var Countries = []string{"us", "uk", "fr", "in", "it"}

// CategoryGeneral omits the upstream category filter.
const CategoryGeneral = "general"

// NormalizeCategory lowercases and trims a category for lookups.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// ValidCategory reports whether the (normalized) category is a known one.
func ValidCategory(category string) bool {
	category = NormalizeCategory(category)
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
