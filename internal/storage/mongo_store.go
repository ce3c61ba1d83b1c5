package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/newsai-hq/newsai-backend/internal/domain"
)

// mongoStore implements a Store backed by MongoDB. The unique index on title
// makes the database the authority on article identity.
type mongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// openMongo connects, pings, and ensures the unique title index.
func openMongo(ctx context.Context, opts Options) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	collection := client.Database(opts.MongoDatabase).Collection(opts.MongoCollection)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create title index: %w", err)
	}

	return &mongoStore{client: client, collection: collection}, nil
}

// Close disconnects from MongoDB.
func (m *mongoStore) Close() error {
	if m == nil || m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// HasTitle checks whether an article with the given title is stored.
func (m *mongoStore) HasTitle(ctx context.Context, title string) (bool, error) {
	count, err := m.collection.CountDocuments(ctx, bson.M{"title": title}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count by title: %w", err)
	}
	return count > 0, nil
}

// Insert stores the article; the unique index converts concurrent duplicate
// writes into ErrDuplicateTitle.
func (m *mongoStore) Insert(ctx context.Context, article domain.Article) error {
	if article.Title == "" {
		return fmt.Errorf("article title is empty")
	}
	article.Category = domain.NormalizeCategory(article.Category)

	if _, err := m.collection.InsertOne(ctx, article); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// ByCategory returns one publishedAt-descending page plus the category total.
func (m *mongoStore) ByCategory(ctx context.Context, category string, page, pageSize int) ([]domain.Article, int, error) {
	if page <= 0 || pageSize <= 0 {
		return nil, 0, fmt.Errorf("page and pageSize must be positive (page=%d pageSize=%d)", page, pageSize)
	}

	filter := bson.M{"category": domain.NormalizeCategory(category)}

	total, err := m.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count by category: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "publishedAt", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := m.collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find by category: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.Article
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode articles: %w", err)
	}
	return items, int(total), nil
}

// CountByCategory counts stored articles for the category.
func (m *mongoStore) CountByCategory(ctx context.Context, category string) (int, error) {
	total, err := m.collection.CountDocuments(ctx, bson.M{"category": domain.NormalizeCategory(category)})
	if err != nil {
		return 0, fmt.Errorf("count by category: %w", err)
	}
	return int(total), nil
}
