package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/erazemk/lostfound/internal/events"
	"github.com/erazemk/lostfound/internal/model"
)

// Lister supplies the current item collection.
type Lister interface {
	All(ctx context.Context) ([]model.Item, error)
}

// Registry maps session IDs to their notification centers. Centers live as
// long as the session and are never persisted.
type Registry struct {
	items  Lister
	logger *slog.Logger

	mu      sync.Mutex
	centers map[string]*Center
}

// NewRegistry returns an empty registry that scans items from l.
func NewRegistry(l Lister, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{items: l, logger: logger, centers: make(map[string]*Center)}
}

// Open returns the center for sessionID, creating it if needed.
func (r *Registry) Open(sessionID string) *Center {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.centers[sessionID]
	if !ok {
		c = NewCenter(r.logger)
		r.centers[sessionID] = c
	}
	return c
}

// Get returns the center for sessionID, or nil.
func (r *Registry) Get(sessionID string) *Center {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.centers[sessionID]
}

// Close drops the center for sessionID and ends its subscriptions.
func (r *Registry) Close(sessionID string) {
	r.mu.Lock()
	c, ok := r.centers[sessionID]
	delete(r.centers, sessionID)
	r.mu.Unlock()

	if ok {
		c.Store.Close()
	}
}

// Len is the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.centers)
}

// Scan runs a match scan for one session.
func (r *Registry) Scan(ctx context.Context, sessionID string) (int, error) {
	items, err := r.items.All(ctx)
	if err != nil {
		return 0, err
	}
	return r.Open(sessionID).Scan(items), nil
}

// ScanAll runs a match scan for every open session.
func (r *Registry) ScanAll(ctx context.Context) error {
	r.mu.Lock()
	centers := make([]*Center, 0, len(r.centers))
	for _, c := range r.centers {
		centers = append(centers, c)
	}
	r.mu.Unlock()

	if len(centers) == 0 {
		return nil
	}

	items, err := r.items.All(ctx)
	if err != nil {
		return err
	}
	for _, c := range centers {
		c.Scan(items)
	}
	return nil
}

// Watch rescans every session whenever an item is saved.
func (r *Registry) Watch(bus *events.InProcess) {
	bus.Subscribe(events.ItemSaved, func(ctx context.Context, ev events.Event) {
		if err := r.ScanAll(ctx); err != nil {
			r.logger.Error("failed to scan for matches", "item", ev.ItemID, "error", err)
		}
	})
}
