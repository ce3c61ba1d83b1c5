package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newsai-hq/newsai-backend/internal/domain"
	"github.com/newsai-hq/newsai-backend/pkg/httpclient"
)

// Package newsapi implements the upstream top-headlines client. It performs a
// single request per call and classifies the outcome; retry policy belongs to
// the caller.

// ErrQuotaExceeded signals the provider's rate-limit, distinct from other failures.
var ErrQuotaExceeded = errors.New("newsapi: request quota exceeded")

const (
	defaultBaseURL = "https://newsapi.org/v2/top-headlines"
	defaultTimeout = 15 * time.Second

	// Provider-specific rate-limit code carried in an error body.
	rateLimitedCode = "rateLimited"
)

// Query parameterizes a top-headlines request. Category "general" (or empty)
// omits the category filter upstream; an empty Country omits the country filter.
type Query struct {
	Category string
	Country  string
	Page     int
	PageSize int
}

// Fetcher is the read contract consumed by ingestion and the query service.
type Fetcher interface {
	TopHeadlines(ctx context.Context, q Query) ([]domain.Article, error)
}

// Client calls the provider's top-headlines endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  httpclient.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSpace(u) }
}

// WithHTTPClient injects the HTTP transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient builds a top-headlines client with a bounded request timeout.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = httpclient.NewRestyClient(defaultTimeout)
	}
	return c
}

// wire types for the provider response.
type headlinesResponse struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles []wireArticle `json:"articles"`
}

type wireArticle struct {
	Source      domain.Source `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

// TopHeadlines issues one request and returns the raw articles. A provider
// rate-limit signal (HTTP 429 or a rateLimited error body) is returned as
// ErrQuotaExceeded; any other non-200 outcome is a plain failure.
func (c *Client) TopHeadlines(ctx context.Context, q Query) ([]domain.Article, error) {
	if q.Page <= 0 || q.PageSize <= 0 {
		return nil, fmt.Errorf("newsapi: page and pageSize must be positive (page=%d pageSize=%d)", q.Page, q.PageSize)
	}

	resp, err := c.client.Get(ctx, c.requestURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: top-headlines request: %w", err)
	}

	var parsed headlinesResponse
	decodeErr := json.Unmarshal(resp.Body(), &parsed)

	if resp.StatusCode() == http.StatusTooManyRequests || (decodeErr == nil && parsed.Code == rateLimitedCode) {
		return nil, ErrQuotaExceeded
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("newsapi: top-headlines status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("newsapi: decode top-headlines response: %w", decodeErr)
	}

	articles := make([]domain.Article, 0, len(parsed.Articles))
	for _, w := range parsed.Articles {
		articles = append(articles, w.toDomain())
	}
	return articles, nil
}

// requestURL renders the parameterized provider URL.
func (c *Client) requestURL(q Query) string {
	params := url.Values{}
	if cat := domain.NormalizeCategory(q.Category); cat != "" && cat != domain.CategoryGeneral {
		params.Set("category", cat)
	}
	if country := strings.TrimSpace(q.Country); country != "" {
		params.Set("country", country)
	}
	params.Set("language", "en")
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	params.Set("apiKey", c.apiKey)
	return c.baseURL + "?" + params.Encode()
}

func (w wireArticle) toDomain() domain.Article {
	publishedAt, err := time.Parse(time.RFC3339, w.PublishedAt)
	if err != nil {
		publishedAt = time.Time{}
	}
	return domain.Article{
		Title:       w.Title,
		Content:     w.Content,
		Author:      w.Author,
		Description: w.Description,
		URL:         w.URL,
		URLToImage:  w.URLToImage,
		PublishedAt: publishedAt,
		Source:      w.Source,
	}
}

func bodySnippet(body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 512 {
		snippet = snippet[:512]
	}
	return snippet
}
