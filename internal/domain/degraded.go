package domain

import "time"

const (
	// DegradedTitle is the sentinel title of the synthetic article returned
	// when the upstream provider signals rate-limiting.
	DegradedTitle = "API quota exceeded"

	degradedDescription = "The news provider request quota has been reached. Please try again later."
	degradedContent     = "Live headlines are temporarily unavailable while the provider quota resets."
	degradedImageURL    = "https://via.placeholder.com/400x200"
)

// DegradedArticle builds the synthetic record served in place of a provider
// quota error. It is a response-shaping device only and must never be stored.
func DegradedArticle(now time.Time) Article {
	return Article{
		Title:       DegradedTitle,
		Description: degradedDescription,
		Content:     degradedContent,
		URL:         "#",
		URLToImage:  degradedImageURL,
		PublishedAt: now.UTC(),
	}
}
