package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/escolinha-api/internal/models"
	"github.com/noah-isme/escolinha-api/pkg/jobs"
)

type syncOutboxStore interface {
	Insert(ctx context.Context, event *models.SyncEvent) error
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]models.SyncEvent, error)
	MarkProcessed(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

// SyncService appends change events to the outbox. Recording is best effort:
// a failure is logged and never fails the write that produced it.
type SyncService struct {
	repo    syncOutboxStore
	logger  *zap.Logger
	enabled bool
}

// NewSyncService constructs a SyncService.
func NewSyncService(repo syncOutboxStore, logger *zap.Logger, enabled bool) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{repo: repo, logger: logger, enabled: enabled}
}

// Record persists one outbox event.
func (s *SyncService) Record(ctx context.Context, entity string, entityID int64, action string, filialID *int64, payload interface{}) {
	if s == nil || !s.enabled || s.repo == nil {
		return
	}
	event := &models.SyncEvent{Entity: entity, EntityID: entityID, Action: action, FilialID: filialID}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("sync payload not encodable", zap.String("type", event.Type()), zap.Error(err))
		} else {
			event.Payload = raw
		}
	}
	if err := s.repo.Insert(ctx, event); err != nil {
		s.logger.Warn("failed to record sync event", zap.String("type", event.Type()), zap.Int64("entity_id", entityID), zap.Error(err))
	}
}

// SyncDispatcherConfig tunes outbox polling.
type SyncDispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	Workers      int
	MaxRetries   int
	RetryDelay   time.Duration
}

// SyncDispatcher drains the outbox into a worker queue. A row is marked
// processed only after its handler succeeded, so delivery is at-least-once.
type SyncDispatcher struct {
	repo    syncOutboxStore
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     SyncDispatcherConfig
	queue   *jobs.Queue[models.SyncEvent]

	mu       sync.Mutex
	inFlight map[int64]struct{}
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSyncDispatcher constructs a SyncDispatcher.
func NewSyncDispatcher(repo syncOutboxStore, cache *CacheService, metrics *MetricsService, cfg SyncDispatcherConfig, logger *zap.Logger) *SyncDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	d := &SyncDispatcher{
		repo:     repo,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		inFlight: make(map[int64]struct{}),
	}
	d.queue = jobs.New("sync-outbox", d.handle, jobs.Config[models.SyncEvent]{
		Workers:    cfg.Workers,
		BufferSize: cfg.BatchSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnDrop:     d.drop,
	})
	return d
}

// Start launches the queue workers and the polling loop.
func (d *SyncDispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.queue.Start(runCtx)
	go d.run(runCtx, d.done)
	d.logger.Info("sync dispatcher started", zap.Duration("poll_interval", d.cfg.PollInterval))
}

// Stop halts polling and waits for the workers to exit.
func (d *SyncDispatcher) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel = nil
	d.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.queue.Stop()
	d.logger.Info("sync dispatcher stopped")
}

func (d *SyncDispatcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := d.Poll(ctx); err != nil {
				d.logger.Warn("sync poll failed", zap.Error(err))
			}
		}
	}
}

// Poll enqueues pending events that are not already being handled and
// returns how many were enqueued. Rows that do not fit in the queue stay
// pending for the next poll.
func (d *SyncDispatcher) Poll(ctx context.Context) (int, error) {
	events, err := d.repo.FetchPending(ctx, d.cfg.BatchSize, d.cfg.MaxRetries)
	if err != nil {
		return 0, err
	}
	enqueued := 0
	for _, event := range events {
		if !d.claim(event.ID) {
			continue
		}
		job := jobs.Job[models.SyncEvent]{ID: event.EventID, Type: event.Type(), Payload: event}
		if err := d.queue.TryEnqueue(job); err != nil {
			d.release(event.ID)
			if errors.Is(err, jobs.ErrQueueFull) {
				d.logger.Debug("sync queue full, deferring remaining events", zap.Int("deferred", len(events)-enqueued))
				return enqueued, nil
			}
			return enqueued, fmt.Errorf("enqueue sync event %d: %w", event.ID, err)
		}
		enqueued++
	}
	return enqueued, nil
}

func (d *SyncDispatcher) handle(ctx context.Context, job jobs.Job[models.SyncEvent]) error {
	event := job.Payload
	d.logger.Info("sync event",
		zap.String("type", event.Type()),
		zap.Int64("entity_id", event.EntityID),
		zap.String("event_id", event.EventID),
		zap.Int("attempt", job.Attempt),
	)

	prefixes := []string{InadimplentesScope(nil)}
	if event.FilialID != nil {
		prefixes = append(prefixes, InadimplentesScope(event.FilialID))
	}
	if err := d.cache.InvalidatePrefix(ctx, prefixes...); err != nil {
		d.metrics.RecordSyncEvent(event.Type(), false)
		return err
	}
	if err := d.repo.MarkProcessed(ctx, event.ID); err != nil {
		d.metrics.RecordSyncEvent(event.Type(), false)
		return err
	}
	d.metrics.RecordSyncEvent(event.Type(), true)
	d.release(event.ID)
	return nil
}

func (d *SyncDispatcher) drop(job jobs.Job[models.SyncEvent], cause error) {
	event := job.Payload
	defer d.release(event.ID)
	if err := d.repo.MarkFailed(context.Background(), event.ID, cause.Error()); err != nil {
		d.logger.Error("failed to mark sync event failed", zap.Int64("id", event.ID), zap.Error(err))
	}
}

func (d *SyncDispatcher) claim(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inFlight[id]; busy {
		return false
	}
	d.inFlight[id] = struct{}{}
	return true
}

func (d *SyncDispatcher) release(id int64) {
	d.mu.Lock()
	delete(d.inFlight, id)
	d.mu.Unlock()
}
