package domain

import "time"

// Domain contains core models shared by ingestion, storage, and the API.

// Source identifies the outlet an article originated from.
type Source struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Article is the persisted news record. Title is the uniqueness key;
// articles are immutable once stored.
type Article struct {
	Title       string    `json:"title" bson:"title"`
	Content     string    `json:"content,omitempty" bson:"content,omitempty"`
	Author      string    `json:"author,omitempty" bson:"author,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	URL         string    `json:"url,omitempty" bson:"url,omitempty"`
	URLToImage  string    `json:"urlToImage,omitempty" bson:"urlToImage,omitempty"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Country     string    `json:"country,omitempty" bson:"country,omitempty"`
	PublishedAt time.Time `json:"publishedAt" bson:"publishedAt"`
	Source      Source    `json:"source" bson:"source"`
}
