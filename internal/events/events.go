// Package events carries item change notifications between components and,
// optionally, to a RabbitMQ exchange.
package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Routing keys.
const (
	ItemSaved     = "item.saved"
	ItemDeleted   = "item.deleted"
	ItemResolved  = "item.resolved"
	ItemCommented = "item.commented"
)

// Event describes a change to one item.
type Event struct {
	Key    string    `json:"key"`
	ItemID string    `json:"item_id"`
	Title  string    `json:"title,omitempty"`
	Actor  string    `json:"actor,omitempty"`
	Time   time.Time `json:"time"`
}

// Bus delivers events.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
}

// Handler receives events from an InProcess bus.
type Handler func(ctx context.Context, ev Event)

// InProcess is a synchronous in-memory bus. Handlers run on the publishing
// goroutine in subscription order.
type InProcess struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewInProcess returns an empty bus.
func NewInProcess(logger *slog.Logger) *InProcess {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcess{handlers: make(map[string][]Handler), logger: logger}
}

// Subscribe registers h for key. The key "*" receives every event.
func (b *InProcess) Subscribe(key string, h Handler) {
	b.mu.Lock()
	b.handlers[key] = append(b.handlers[key], h)
	b.mu.Unlock()
}

func (b *InProcess) Publish(ctx context.Context, ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	b.mu.RLock()
	hs := append(append([]Handler(nil), b.handlers[ev.Key]...), b.handlers["*"]...)
	b.mu.RUnlock()

	b.logger.Debug("event", "key", ev.Key, "item", ev.ItemID, "handlers", len(hs))
	for _, h := range hs {
		h(ctx, ev)
	}
	return nil
}

// Multi publishes to every bus in order and joins the errors.
type Multi []Bus

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, b := range m {
		if err := b.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
