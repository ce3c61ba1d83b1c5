package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-fuego/fuego"

	"github.com/newsai-hq/newsai-backend/internal/api"
	"github.com/newsai-hq/newsai-backend/internal/config"
	"github.com/newsai-hq/newsai-backend/internal/ingest"
	"github.com/newsai-hq/newsai-backend/internal/logger"
	"github.com/newsai-hq/newsai-backend/internal/newsapi"
	"github.com/newsai-hq/newsai-backend/internal/query"
	"github.com/newsai-hq/newsai-backend/internal/storage"
	"github.com/newsai-hq/newsai-backend/pkg/httpclient"
	"github.com/newsai-hq/newsai-backend/pkg/publishers"
)

// Server is the full runtime: HTTP API plus the background ingestion loop.
type Server struct {
	cfg       *config.Config
	store     storage.Store
	scheduler *ingest.Scheduler
	httpAPI   *fuego.Server
}

// NewServer wires storage, the upstream client, the scheduler, and the API.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := newStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := newNewsClient(cfg)

	scheduler, err := newScheduler(ctx, cfg, client, store)
	if err != nil {
		store.Close()
		return nil, err
	}

	svc := query.NewService(store, client)

	return &Server{
		cfg:       cfg,
		store:     store,
		scheduler: scheduler,
		httpAPI:   api.NewServer(cfg.HTTPAddr, svc),
	}, nil
}

// Run starts the ingestion loop and serves HTTP until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.closeStore()

	go func() {
		if err := s.scheduler.Run(ctx); err != nil {
			logger.ErrorObj("ingest loop stopped", "error", err.Error())
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpAPI.Server.Shutdown(shutdownCtx); err != nil {
			logger.ErrorObj("http shutdown failed", "error", err.Error())
		}
	}()

	logger.InfoObj("http api listening", "addr", s.cfg.HTTPAddr)
	if err := s.httpAPI.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// closeStore safely closes the storage backend, logging any errors encountered.
func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		logger.ErrorObj("storage close failed", "error", err.Error())
	}
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	store, err := storage.NewStore(ctx, cfg.StorageType, storage.Options{
		BBoltPath:       cfg.BBoltPath,
		MongoURI:        cfg.MongoURI,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	logger.InfoObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})
	return store, nil
}

func newNewsClient(cfg *config.Config) *newsapi.Client {
	return newsapi.NewClient(cfg.NewsAPIKey,
		newsapi.WithBaseURL(cfg.NewsAPIBaseURL),
		newsapi.WithHTTPClient(httpclient.NewRestyClient(cfg.NewsAPITimeout)),
	)
}

func newScheduler(ctx context.Context, cfg *config.Config, client *newsapi.Client, store storage.Store) (*ingest.Scheduler, error) {
	fanout, err := newFanout(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var enricher ingest.ArticleEnricher
	if cfg.EnrichArticles {
		enricher = ingest.NewEnricher(nil, time.Duration(cfg.EnrichDelayMs)*time.Millisecond)
	}

	return ingest.NewScheduler(ingest.SchedulerConfig{
		Fetcher:  client,
		Store:    store,
		Interval: cfg.IngestInterval,
		PageSize: cfg.IngestPageSize,
		Enricher: enricher,
		Events:   fanout,
	})
}

// newFanout builds the stored-article event fanout; publishing is optional
// and an empty publishers_file disables it.
func newFanout(ctx context.Context, cfg *config.Config) (*publishers.Fanout, error) {
	if cfg.PublishersFile == "" {
		return nil, nil
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, fanoutLogger{})
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	logger.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return publishers.NewFanout(pubs), nil
}

// fanoutLogger adapts the package-level logger to the publishers.Logger surface.
type fanoutLogger struct{}

func (fanoutLogger) InfoObj(msg, key string, obj interface{})  { logger.InfoObj(msg, key, obj) }
func (fanoutLogger) DebugObj(msg, key string, obj interface{}) { logger.DebugObj(msg, key, obj) }
func (fanoutLogger) WarnObj(msg, key string, obj interface{})  { logger.WarnObj(msg, key, obj) }
func (fanoutLogger) ErrorObj(msg, key string, obj interface{}) { logger.ErrorObj(msg, key, obj) }
