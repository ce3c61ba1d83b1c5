package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/newsai-hq/newsai-backend/internal/domain"
)

// Package storage provides the article persistence abstraction.

// ErrDuplicateTitle is returned by Insert when an article with the same title
// already exists. Uniqueness is enforced inside each backend so concurrent
// writers cannot slip past the ingestion pre-check.
var ErrDuplicateTitle = errors.New("storage: duplicate article title")

// Store persists articles. Articles are immutable: there is no update or
// delete path, only insert and reads.
type Store interface {
	Close() error
	HasTitle(ctx context.Context, title string) (bool, error)
	Insert(ctx context.Context, article domain.Article) error
	// ByCategory returns one page of articles ordered by publishedAt
	// descending, plus the total count for the category. The category is
	// matched case-insensitively.
	ByCategory(ctx context.Context, category string, page, pageSize int) ([]domain.Article, int, error)
	CountByCategory(ctx context.Context, category string) (int, error)
}

// Options carries backend-specific settings.
type Options struct {
	BBoltPath       string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// NewStore creates the configured storage backend.
func NewStore(ctx context.Context, typ string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", "bbolt":
		if strings.TrimSpace(opts.BBoltPath) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(opts.BBoltPath)
	case "mongo":
		if strings.TrimSpace(opts.MongoURI) == "" {
			return nil, fmt.Errorf("mongo storage requires a connection uri")
		}
		return openMongo(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}
