package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/cart/internal/infrastructure/buffer"
	"github.com/fastygo/cart/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// RelayConfig controls how frequently the outbox is drained.
type RelayConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// OutboxRelay moves buffered cart events to the publisher on a cron schedule.
type OutboxRelay struct {
	store     *buffer.Store
	monitor   ConnectionHealth
	publisher EventPublisher
	logger    *zap.Logger
	cron      *cron.Cron
	cfg       RelayConfig
}

func NewOutboxRelay(
	store *buffer.Store,
	monitor ConnectionHealth,
	publisher EventPublisher,
	logger *zap.Logger,
	cfg RelayConfig,
) *OutboxRelay {
	if cfg.Interval < time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &OutboxRelay{
		store:     store,
		monitor:   monitor,
		publisher: publisher,
		logger:    logger.Named("outbox"),
		cfg:       cfg,
		cron:      cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if _, err := r.Drain(ctx); err != nil {
			r.logger.Error("outbox drain failed", zap.Error(err))
		}
	})
	_, _ = r.cron.AddFunc("@hourly", func() {
		r.Cleanup(time.Now())
	})

	return r
}

// Start launches the cron scheduler.
func (r *OutboxRelay) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("outbox relay started", zap.Duration("interval", r.cfg.Interval))
}

// Stop waits for a running drain, then flushes what is left within ctx.
func (r *OutboxRelay) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	if _, err := r.Drain(ctx); err != nil {
		r.logger.Warn("final outbox drain failed", zap.Error(err))
	}
	r.logger.Info("outbox relay stopped")
}

// Drain publishes one batch in enqueue order and returns how many events were delivered.
// After a failure the remaining events of that cart wait for the next run so per-cart order holds.
func (r *OutboxRelay) Drain(ctx context.Context) (int, error) {
	if r == nil || r.store == nil {
		return 0, nil
	}
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping outbox drain (offline)")
		return 0, nil
	}

	items, err := r.store.GetBatch(r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	var delivered int
	blocked := make(map[string]bool)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return delivered, err
		}
		if blocked[item.CartID] {
			continue
		}

		if err := r.publisher.Publish(ctx, []repository.StoredEvent{toStored(item)}); err != nil {
			r.handleFailure(item, err, blocked)
			continue
		}

		delivered++
		if err := r.store.Remove(item); err != nil {
			r.logger.Warn("failed to purge published outbox item", zap.String("event_id", item.ID), zap.Error(err))
		}
	}
	return delivered, nil
}

// Cleanup drops items older than the retention window.
func (r *OutboxRelay) Cleanup(now time.Time) {
	if r == nil || r.store == nil {
		return
	}
	dropped, err := r.store.Cleanup(now.Add(-r.cfg.Retention))
	if err != nil {
		r.logger.Error("outbox cleanup failed", zap.Error(err))
		return
	}
	if dropped > 0 {
		r.logger.Warn("expired outbox items dropped", zap.Int("count", dropped))
	}
}

// Size returns the number of buffered events.
func (r *OutboxRelay) Size() int {
	if r == nil || r.store == nil {
		return 0
	}
	size, err := r.store.Size()
	if err != nil {
		return 0
	}
	return size
}

func (r *OutboxRelay) handleFailure(item buffer.Item, cause error, blocked map[string]bool) {
	updated, err := r.store.MarkFailed(item, cause)
	if err != nil {
		r.logger.Error("failed to record outbox failure", zap.String("event_id", item.ID), zap.Error(err))
	}
	if updated.Retries >= r.cfg.MaxRetries {
		r.logger.Error("dropping outbox item (max retries reached)",
			zap.String("event_id", item.ID),
			zap.String("event", item.Name),
			zap.String("cart_id", item.CartID),
			zap.Int("retries", updated.Retries),
			zap.Error(cause))
		_ = r.store.Remove(item)
		return
	}

	r.logger.Warn("failed to publish outbox item",
		zap.String("event_id", item.ID),
		zap.String("cart_id", item.CartID),
		zap.Int("retries", updated.Retries),
		zap.Error(cause))
	blocked[item.CartID] = true
}

func toItem(event repository.StoredEvent) buffer.Item {
	return buffer.Item{
		ID:         event.ID,
		CartID:     event.CartID,
		Name:       event.Name,
		Payload:    event.Payload,
		OccurredAt: event.OccurredAt,
	}
}

func toStored(item buffer.Item) repository.StoredEvent {
	return repository.StoredEvent{
		ID:         item.ID,
		CartID:     item.CartID,
		Name:       item.Name,
		Payload:    item.Payload,
		OccurredAt: item.OccurredAt,
	}
}
