package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/newsai-hq/newsai-backend/internal/domain"
	"github.com/newsai-hq/newsai-backend/internal/logger"
	"github.com/newsai-hq/newsai-backend/internal/newsapi"
	"github.com/newsai-hq/newsai-backend/internal/storage"
	"github.com/newsai-hq/newsai-backend/pkg/publishers"
)

// ErrCycleInProgress is returned when a cycle trigger fires while the
// previous cycle is still running. The trigger is skipped, never queued.
var ErrCycleInProgress = errors.New("ingest: cycle already in progress")

// SchedulerConfig wires the collaborators of the ingestion scheduler.
type SchedulerConfig struct {
	Fetcher  newsapi.Fetcher
	Store    storage.Store
	Interval time.Duration
	PageSize int
	Enricher ArticleEnricher    // optional
	Events   *publishers.Fanout // optional
}

// Scheduler periodically drives one ingestion cycle over the country×category
// matrix. Cells are processed sequentially to keep provider load predictable.
type Scheduler struct {
	fetcher  newsapi.Fetcher
	store    storage.Store
	interval time.Duration
	pageSize int
	enricher ArticleEnricher
	events   *publishers.Fanout

	running atomic.Bool
}

// NewScheduler builds the ingestion scheduler.
func NewScheduler(cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("scheduler requires a fetcher")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("scheduler requires a store")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive")
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("scheduler page size must be positive")
	}
	return &Scheduler{
		fetcher:  cfg.Fetcher,
		store:    cfg.Store,
		interval: cfg.Interval,
		pageSize: cfg.PageSize,
		enricher: cfg.Enricher,
		events:   cfg.Events,
	}, nil
}

// Run executes an immediate cycle and then one per tick until the context is
// cancelled. An in-flight cycle finishes its current cell before stopping.
func (s *Scheduler) Run(ctx context.Context) error {
	logger.InfoObj("ingest loop starting", "ingest_state", map[string]any{
		"interval":   s.interval.String(),
		"page_size":  s.pageSize,
		"cells":      len(domain.Countries) * len(domain.IngestCategories),
		"publishers": s.events.Size(),
	})

	if err := s.runOnce(ctx); err != nil {
		logger.ErrorObj("initial ingest cycle failed", "error", err.Error())
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoObj("ingest loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := s.runOnce(ctx); err != nil {
				logger.ErrorObj("scheduled ingest cycle failed", "error", err.Error())
			}
		}
	}
}

// runOnce wraps RunCycle with timing logs and downgrades overlap to a warning.
func (s *Scheduler) runOnce(ctx context.Context) error {
	start := time.Now()
	err := s.RunCycle(ctx)
	if errors.Is(err, ErrCycleInProgress) {
		logger.WarnObj("ingest trigger skipped", "reason", "previous cycle still running")
		return nil
	}
	if err != nil {
		return err
	}
	logger.InfoObj("ingest cycle completed", "cycle_meta", map[string]any{
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// RunCycle processes every matrix cell once, country-major. At most one cycle
// runs at a time; concurrent calls return ErrCycleInProgress. Cell failures
// are isolated: a failed cell is logged and the cycle moves on.
func (s *Scheduler) RunCycle(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrCycleInProgress
	}
	defer s.running.Store(false)

	var errs []error
	for _, country := range domain.Countries {
		for _, category := range domain.IngestCategories {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			cell := Cell{Country: country, Category: category}
			if err := s.processCell(ctx, cell); err != nil {
				errs = append(errs, fmt.Errorf("cell %s: %w", cell, err))
			}
		}
	}
	return errors.Join(errs...)
}

// processCell fetches one cell and persists every admitted article. A quota
// signal drops the cell silently; the next scheduled cycle is the retry.
func (s *Scheduler) processCell(ctx context.Context, cell Cell) error {
	articles, err := s.fetcher.TopHeadlines(ctx, newsapi.Query{
		Category: cell.Category,
		Country:  cell.Country,
		Page:     1,
		PageSize: s.pageSize,
	})
	if errors.Is(err, newsapi.ErrQuotaExceeded) {
		logger.WarnObj("cell skipped on provider quota", "cell", cell.String())
		return nil
	}
	if err != nil {
		logger.ErrorObj("cell fetch failed", "cell_error", map[string]any{
			"cell":  cell.String(),
			"error": err.Error(),
		})
		return nil
	}

	gate := NewGate(s.store)
	fresh := make([]domain.Article, 0, len(articles))
	duplicates := 0
	for _, raw := range articles {
		record, isNew, err := gate.Admit(ctx, raw, cell)
		if err != nil {
			logger.WarnObj("article rejected by gate", "gate_error", map[string]any{
				"cell":  cell.String(),
				"error": err.Error(),
			})
			continue
		}
		if !isNew {
			duplicates++
			continue
		}
		fresh = append(fresh, record)
	}

	if s.enricher != nil && len(fresh) > 0 {
		fresh = s.enricher.Enrich(ctx, fresh)
	}

	inserted := 0
	for _, record := range fresh {
		if err := s.store.Insert(ctx, record); err != nil {
			// A concurrent writer beat us to the title; the stored record wins.
			if errors.Is(err, storage.ErrDuplicateTitle) {
				duplicates++
				continue
			}
			logger.ErrorObj("article insert failed", "insert_error", map[string]any{
				"cell":  cell.String(),
				"title": record.Title,
				"error": err.Error(),
			})
			continue
		}
		inserted++
		s.publish(ctx, record)
	}

	logger.InfoObj("cell processed", "cell_result", map[string]any{
		"cell":       cell.String(),
		"fetched":    len(articles),
		"inserted":   inserted,
		"duplicates": duplicates,
	})
	return nil
}

// publish fans the stored article out to configured sinks. Publishing is
// best-effort and never fails ingestion.
func (s *Scheduler) publish(ctx context.Context, record domain.Article) {
	if s.events.Size() == 0 {
		return
	}
	if _, err := s.events.Publish(ctx, publishers.NewEvent(record)); err != nil {
		logger.WarnObj("event fanout incomplete", "publish_error", map[string]any{
			"title": record.Title,
			"error": err.Error(),
		})
	}
}
