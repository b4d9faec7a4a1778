package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/cart/repository"
)

// EventPublisher delivers relayed cart events to their final destination.
type EventPublisher interface {
	Publish(ctx context.Context, events []repository.StoredEvent) error
}

// EventLogPublisher appends events to a repository.EventLog.
type EventLogPublisher struct {
	log repository.EventLog
}

func NewEventLogPublisher(log repository.EventLog) *EventLogPublisher {
	return &EventLogPublisher{log: log}
}

func (p *EventLogPublisher) Publish(ctx context.Context, events []repository.StoredEvent) error {
	var result error
	for _, event := range events {
		if err := p.log.AppendEvent(ctx, event); err != nil {
			result = errors.Join(result, err)
		}
	}
	return result
}

// LogPublisher writes events to the application log only.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger.Named("events")}
}

func (p *LogPublisher) Publish(_ context.Context, events []repository.StoredEvent) error {
	for _, event := range events {
		p.logger.Info("cart event",
			zap.String("event_id", event.ID),
			zap.String("event", event.Name),
			zap.String("cart_id", event.CartID),
			zap.Time("occurred_at", event.OccurredAt),
			zap.ByteString("payload", event.Payload),
		)
	}
	return nil
}
