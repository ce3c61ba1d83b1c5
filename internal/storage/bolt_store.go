package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/newsai-hq/newsai-backend/internal/domain"
)

const (
	articleBucket  = "articles"
	categoryBucket = "category_index"

	keySeparator = 0x00
)

// boltStore implements a Store backed by BoltDB.
//
// Layout: the articles bucket is keyed by exact title and holds the JSON
// record; put-if-absent inside a single write transaction is the uniqueness
// constraint. The category_index bucket is keyed
// category|reverse(publishedAt)|title so an ascending cursor walk over a
// category prefix yields newest-first.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{articleBucket, categoryBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// HasTitle checks whether an article with the given title is stored.
func (b *boltStore) HasTitle(_ context.Context, title string) (bool, error) {
	var exists bool
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(articleBucket))
		if bucket == nil {
			return fmt.Errorf("article bucket missing")
		}
		exists = bucket.Get([]byte(title)) != nil
		return nil
	})
	return exists, err
}

// Insert stores the article, failing with ErrDuplicateTitle if the title is
// already present. The existence check and the write share one transaction,
// which closes the race left open by callers that pre-check.
func (b *boltStore) Insert(_ context.Context, article domain.Article) error {
	if article.Title == "" {
		return fmt.Errorf("article title is empty")
	}
	article.Category = domain.NormalizeCategory(article.Category)

	payload, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("marshal article: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		articles := tx.Bucket([]byte(articleBucket))
		index := tx.Bucket([]byte(categoryBucket))
		if articles == nil || index == nil {
			return fmt.Errorf("storage buckets missing")
		}

		key := []byte(article.Title)
		if articles.Get(key) != nil {
			return ErrDuplicateTitle
		}
		if err := articles.Put(key, payload); err != nil {
			return err
		}
		return index.Put(categoryKey(article.Category, article.PublishedAt, article.Title), key)
	})
}

// ByCategory returns one publishedAt-descending page plus the category total.
func (b *boltStore) ByCategory(_ context.Context, category string, page, pageSize int) ([]domain.Article, int, error) {
	if page <= 0 || pageSize <= 0 {
		return nil, 0, fmt.Errorf("page and pageSize must be positive (page=%d pageSize=%d)", page, pageSize)
	}

	prefix := categoryPrefix(domain.NormalizeCategory(category))
	offset := (page - 1) * pageSize

	var (
		items []domain.Article
		total int
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		articles := tx.Bucket([]byte(articleBucket))
		index := tx.Bucket([]byte(categoryBucket))
		if articles == nil || index == nil {
			return fmt.Errorf("storage buckets missing")
		}

		cursor := index.Cursor()
		for k, title := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, title = cursor.Next() {
			if total >= offset && total < offset+pageSize {
				raw := articles.Get(title)
				if raw == nil {
					return fmt.Errorf("index entry without article record: %q", title)
				}
				var a domain.Article
				if err := json.Unmarshal(raw, &a); err != nil {
					return fmt.Errorf("unmarshal article: %w", err)
				}
				items = append(items, a)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// CountByCategory counts stored articles for the category.
func (b *boltStore) CountByCategory(_ context.Context, category string) (int, error) {
	prefix := categoryPrefix(domain.NormalizeCategory(category))

	total := 0
	err := b.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket([]byte(categoryBucket))
		if index == nil {
			return fmt.Errorf("category index bucket missing")
		}
		cursor := index.Cursor()
		for k, _ := cursor.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = cursor.Next() {
			total++
		}
		return nil
	})
	return total, err
}

func categoryPrefix(category string) []byte {
	return append([]byte(category), keySeparator)
}

// categoryKey builds category|reverse(publishedAt)|title. The timestamp is
// sign-flipped then bit-inverted so byte-ascending order is time-descending.
func categoryKey(category string, publishedAt time.Time, title string) []byte {
	key := make([]byte, 0, len(category)+1+8+1+len(title))
	key = append(key, []byte(category)...)
	key = append(key, keySeparator)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], ^(uint64(publishedAt.UnixNano()) ^ (1 << 63)))
	key = append(key, ts[:]...)
	key = append(key, keySeparator)

	return append(key, []byte(title)...)
}
