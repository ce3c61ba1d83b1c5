package newsapi

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/newsai-hq/newsai-backend/pkg/httpclient"
)

type fakeResponse struct {
	body   []byte
	status int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.status }

type fakeHTTPClient struct {
	lastURL string
	resp    fakeResponse
	err     error
}

func (f *fakeHTTPClient) Get(_ context.Context, rawURL string, _ map[string]string) (httpclient.Response, error) {
	f.lastURL = rawURL
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestTopHeadlinesParsesArticles(t *testing.T) {
	body := `{
		"status": "ok",
		"articles": [
			{
				"source": {"id": "bbc-news", "name": "BBC News"},
				"author": "Reporter",
				"title": "Markets rally",
				"description": "A rally.",
				"url": "https://example.com/rally",
				"urlToImage": "https://example.com/rally.jpg",
				"publishedAt": "2024-04-01T10:00:00Z",
				"content": "Full text"
			}
		]
	}`
	hc := &fakeHTTPClient{resp: fakeResponse{body: []byte(body), status: 200}}
	client := NewClient("key", WithHTTPClient(hc))

	articles, err := client.TopHeadlines(context.Background(), Query{Category: "business", Country: "us", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
	a := articles[0]
	if a.Title != "Markets rally" || a.Source.Name != "BBC News" {
		t.Fatalf("unexpected article: %+v", a)
	}
	if a.PublishedAt.IsZero() {
		t.Fatalf("publishedAt not parsed")
	}

	u, err := url.Parse(hc.lastURL)
	if err != nil {
		t.Fatalf("parse request url: %v", err)
	}
	q := u.Query()
	if q.Get("category") != "business" || q.Get("country") != "us" {
		t.Fatalf("unexpected query: %s", u.RawQuery)
	}
	if q.Get("language") != "en" || q.Get("apiKey") != "key" {
		t.Fatalf("missing fixed params: %s", u.RawQuery)
	}
}

func TestTopHeadlinesGeneralOmitsCategory(t *testing.T) {
	hc := &fakeHTTPClient{resp: fakeResponse{body: []byte(`{"status":"ok","articles":[]}`), status: 200}}
	client := NewClient("key", WithHTTPClient(hc))

	if _, err := client.TopHeadlines(context.Background(), Query{Category: "general", Page: 1, PageSize: 10}); err != nil {
		t.Fatalf("TopHeadlines: %v", err)
	}
	if strings.Contains(hc.lastURL, "category=") {
		t.Fatalf("general query must omit category filter: %s", hc.lastURL)
	}
	if strings.Contains(hc.lastURL, "country=") {
		t.Fatalf("empty country must omit country filter: %s", hc.lastURL)
	}
}

func TestTopHeadlinesClassifiesQuota(t *testing.T) {
	cases := []struct {
		name string
		resp fakeResponse
	}{
		{name: "http 429", resp: fakeResponse{body: []byte(`{}`), status: 429}},
		{name: "rateLimited body", resp: fakeResponse{
			body:   []byte(`{"status":"error","code":"rateLimited","message":"too many requests"}`),
			status: 200,
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hc := &fakeHTTPClient{resp: tc.resp}
			client := NewClient("key", WithHTTPClient(hc))

			_, err := client.TopHeadlines(context.Background(), Query{Category: "sports", Page: 1, PageSize: 10})
			if !errors.Is(err, ErrQuotaExceeded) {
				t.Fatalf("expected ErrQuotaExceeded, got %v", err)
			}
		})
	}
}

func TestTopHeadlinesFailuresAreNotQuota(t *testing.T) {
	hc := &fakeHTTPClient{resp: fakeResponse{body: []byte("upstream exploded"), status: 500}}
	client := NewClient("key", WithHTTPClient(hc))

	_, err := client.TopHeadlines(context.Background(), Query{Category: "sports", Page: 1, PageSize: 10})
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("server error must not classify as quota: %v", err)
	}

	hc.err = errors.New("dial timeout")
	if _, err := client.TopHeadlines(context.Background(), Query{Category: "sports", Page: 1, PageSize: 10}); err == nil {
		t.Fatalf("expected transport error to surface")
	}
}

func TestTopHeadlinesRejectsInvalidPaging(t *testing.T) {
	client := NewClient("key", WithHTTPClient(&fakeHTTPClient{}))
	if _, err := client.TopHeadlines(context.Background(), Query{Category: "sports", Page: 0, PageSize: 10}); err == nil {
		t.Fatalf("expected error for non-positive page")
	}
}
