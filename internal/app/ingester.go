package app

import (
	"context"
	"fmt"

	"github.com/newsai-hq/newsai-backend/internal/config"
	"github.com/newsai-hq/newsai-backend/internal/ingest"
	"github.com/newsai-hq/newsai-backend/internal/logger"
	"github.com/newsai-hq/newsai-backend/internal/storage"
)

// Ingester is the ingestion-only runtime, for deployments that serve reads
// from a separate process.
type Ingester struct {
	cfg       *config.Config
	store     storage.Store
	scheduler *ingest.Scheduler
}

// NewIngester wires storage, the upstream client, and the scheduler.
func NewIngester(ctx context.Context, cfg *config.Config) (*Ingester, error) {
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

	scheduler, err := newScheduler(ctx, cfg, newNewsClient(cfg), store)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &Ingester{cfg: cfg, store: store, scheduler: scheduler}, nil
}

// Run drives the ingestion loop until the context is cancelled.
func (i *Ingester) Run(ctx context.Context) error {
	defer func() {
		if err := i.store.Close(); err != nil {
			logger.ErrorObj("storage close failed", "error", err.Error())
		}
	}()
	return i.scheduler.Run(ctx)
}
