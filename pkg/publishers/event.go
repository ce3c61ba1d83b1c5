package publishers

import (
	"time"

	"github.com/newsai-hq/newsai-backend/internal/domain"
)

// Event is the payload published downstream when ingestion stores an article.
type Event struct {
	Category string         `json:"category"`
	Country  string         `json:"country"`
	Article  domain.Article `json:"article"`
	StoredAt time.Time      `json:"stored_at"`
}

// NewEvent constructs an Event for the stored article.
func NewEvent(article domain.Article) Event {
	return Event{
		Category: article.Category,
		Country:  article.Country,
		Article:  article,
		StoredAt: time.Now().UTC(),
	}
}
