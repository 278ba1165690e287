package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/mamadbah2/stocksync/internal/domain/models"
	"github.com/mamadbah2/stocksync/pkg/clients/tally"
)

const defaultStoreTimeout = 30 * time.Second

// StockSource fetches the raw Stock Summary export.
type StockSource interface {
	FetchStockSummary(ctx context.Context) ([]byte, error)
}

// ProductStore is the subset of the product collection the sync pass writes to.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	CommitBatch(ctx context.Context, ops []models.BatchOp) error
	MaxBatchSize() int
}

// SnapshotPublisher receives the items of every successful catalog replace.
type SnapshotPublisher interface {
	PublishStockSnapshot(ctx context.Context, syncedAt time.Time, items []models.StockItem) error
}

// Options tunes a Service. The zero value leaves the catalog untouched when an export is unreadable.
type Options struct {
	// ReplaceOnUnreadable still replaces the catalog (with nothing) when the export
	// was fetched but could not be understood.
	ReplaceOnUnreadable bool
	// StoreTimeout bounds each product store call. Defaults to 30s.
	StoreTimeout time.Duration
	Publisher    SnapshotPublisher
	Metrics      *Metrics
}

// Service runs inventory sync passes: fetch the export, parse it and replace the
// whole product catalog. At most one pass runs at a time.
type Service struct {
	source              StockSource
	store               ProductStore
	publisher           SnapshotPublisher
	metrics             *Metrics
	replaceOnUnreadable bool
	storeTimeout        time.Duration

	guard *semaphore.Weighted

	mu     sync.RWMutex
	status models.SyncStatus

	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a sync coordinator.
func NewService(source StockSource, store ProductStore, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	return &Service{
		source:              source,
		store:               store,
		publisher:           opts.Publisher,
		metrics:             opts.Metrics,
		replaceOnUnreadable: opts.ReplaceOnUnreadable,
		storeTimeout:        opts.StoreTimeout,
		guard:               semaphore.NewWeighted(1),
		status:              models.SyncStatus{State: models.SyncStateIdle},
		logger:              logger,
		now:                 time.Now,
	}
}

// Run performs one manually triggered pass.
func (s *Service) Run(ctx context.Context) (models.SyncResult, error) {
	return s.RunWithTrigger(ctx, models.SyncTriggerManual)
}

// RunWithTrigger performs one pass. It returns models.ErrSyncInProgress without
// waiting when another pass holds the guard.
//
// Once started, a pass ignores the caller's cancellation. The export fetch and
// each store call are bounded by their own timeouts instead.
func (s *Service) RunWithTrigger(ctx context.Context, trigger models.SyncTrigger) (result models.SyncResult, err error) {
	if !s.guard.TryAcquire(1) {
		s.metrics.observeRejected(trigger)
		s.logger.Info("inventory sync rejected, another pass is running", zap.String("trigger", string(trigger)))
		return models.SyncResult{}, models.ErrSyncInProgress
	}
	defer s.guard.Release(1)

	ctx = context.WithoutCancel(ctx)
	logger := s.logger.With(zap.String("run_id", uuid.NewString()), zap.String("trigger", string(trigger)))
	started := s.now()
	s.begin(trigger, started)

	outcome := models.SyncOutcomeFailed
	defer func() {
		s.finish(outcome, result.Count, err)
		s.metrics.observeFinished(trigger, outcome, result.Count, s.now().Sub(started))
	}()

	logger.Info("inventory sync started")

	s.setState(models.SyncStateFetching)
	body, err := s.source.FetchStockSummary(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrFetchFailed) {
			err = fmt.Errorf("%w: %w", models.ErrFetchFailed, err)
		}
		logger.Error("inventory sync aborted, export fetch failed", zap.Error(err))
		return models.SyncResult{}, err
	}

	s.setState(models.SyncStateParsing)
	parsed := tally.ParseStockSummary(body, s.now())
	if parsed.NoData {
		if !s.replaceOnUnreadable {
			logger.Warn("stock export unreadable, catalog left untouched", zap.Error(parsed.Cause), zap.Int("bytes", len(body)))
			outcome = models.SyncOutcomeSkipped
			return models.SyncResult{Success: true, Count: 0, Skipped: true}, nil
		}
		logger.Warn("stock export unreadable, catalog will be replaced with no items", zap.Error(parsed.Cause), zap.Int("bytes", len(body)))
	} else {
		logger.Info("stock export parsed", zap.Int("rows", parsed.Rows), zap.Int("items", len(parsed.Items)))
	}

	s.setState(models.SyncStateReplacing)
	syncedAt := s.now()
	deleted, err := s.replaceCatalog(ctx, parsed.Items, syncedAt)
	if err != nil {
		err = fmt.Errorf("%w: %w", models.ErrReplaceFailed, err)
		logger.Error("inventory sync failed during catalog replace", zap.Int("deleted", deleted), zap.Error(err))
		return models.SyncResult{}, err
	}

	outcome = models.SyncOutcomeSuccess
	logger.Info("inventory sync completed",
		zap.Int("deleted", deleted),
		zap.Int("inserted", len(parsed.Items)),
		zap.Duration("duration", s.now().Sub(started)))

	s.publish(ctx, logger, syncedAt, parsed.Items)

	return models.SyncResult{Success: true, Count: len(parsed.Items)}, nil
}

// Status returns a snapshot of the coordinator state.
func (s *Service) Status() models.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.status
	if status.LastStartedAt != nil {
		started := *status.LastStartedAt
		status.LastStartedAt = &started
	}
	if status.LastFinishedAt != nil {
		finished := *status.LastFinishedAt
		status.LastFinishedAt = &finished
	}
	return status
}

// replaceCatalog deletes every existing product and then inserts the items, each
// phase chunked to the store's batch limit. It returns how many products were deleted.
func (s *Service) replaceCatalog(ctx context.Context, items []models.StockItem, syncedAt time.Time) (int, error) {
	batchSize := s.store.MaxBatchSize()
	if batchSize <= 0 {
		return 0, fmt.Errorf("product store reports invalid batch size %d", batchSize)
	}

	listCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	existing, err := s.store.List(listCtx)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	deletes := make([]models.BatchOp, 0, len(existing))
	for _, product := range existing {
		deletes = append(deletes, models.DeleteOp(product.ID))
	}

	deleted := 0
	for _, batch := range chunk(deletes, batchSize) {
		if err := s.commit(ctx, batch); err != nil {
			return deleted, fmt.Errorf("delete products: %w", err)
		}
		deleted += len(batch)
	}

	inserts := make([]models.BatchOp, 0, len(items))
	for _, item := range items {
		inserts = append(inserts, models.SetOp(models.NewProductFromStock(item, syncedAt)))
	}

	for _, batch := range chunk(inserts, batchSize) {
		if err := s.commit(ctx, batch); err != nil {
			return deleted, fmt.Errorf("insert products: %w", err)
		}
	}

	return deleted, nil
}

func (s *Service) commit(ctx context.Context, ops []models.BatchOp) error {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.CommitBatch(ctx, ops)
}

func (s *Service) publish(ctx context.Context, logger *zap.Logger, syncedAt time.Time, items []models.StockItem) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.publisher.PublishStockSnapshot(ctx, syncedAt, items); err != nil {
		logger.Warn("stock snapshot publishing failed", zap.Error(err))
	}
}

func (s *Service) begin(trigger models.SyncTrigger, started time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastTrigger = trigger
	s.status.LastStartedAt = &started
}

func (s *Service) setState(state models.SyncState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = state
}

func (s *Service) finish(outcome models.SyncOutcome, count int, err error) {
	finished := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = models.SyncStateIdle
	s.status.LastOutcome = outcome
	s.status.LastCount = count
	s.status.LastFinishedAt = &finished
	s.status.LastError = ""
	if err != nil {
		s.status.LastError = err.Error()
	}
}

func chunk[T any](items []T, size int) [][]T {
	var batches [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}
	return batches
}
