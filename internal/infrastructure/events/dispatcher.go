package events

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Dispatcher implements shared.EventPublisher by fanning domain events
// out to subscribed handlers in process. Services publish after their
// unit of work has committed, so a handler failure is logged rather
// than propagated into the already-persisted operation.
type Dispatcher struct {
	logger   *zap.Logger
	handlers []shared.EventHandler
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe registers a handler. Not safe for concurrent use: subscribe
// during startup, before serving traffic.
func (d *Dispatcher) Subscribe(handler shared.EventHandler) {
	d.handlers = append(d.handlers, handler)
}

// Publish logs each event and hands it to every subscribed handler
// whose EventTypes match.
func (d *Dispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		d.logger.Info("domain event",
			zap.String("event_type", event.EventType()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)
		for _, handler := range d.handlers {
			if !wants(handler, event.EventType()) {
				continue
			}
			if err := handler.Handle(ctx, event); err != nil {
				d.logger.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func wants(handler shared.EventHandler, eventType string) bool {
	types := handler.EventTypes()
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == eventType {
			return true
		}
	}
	return false
}
