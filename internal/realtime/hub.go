package realtime

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Publisher is implemented by Hub and Broker.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type subscription struct {
	filter Filter
	fn     func(Event)
}

// Hub dispatches events to in-process subscribers. Handlers run on the
// publishing goroutine and must not block.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]subscription
	nextID uint64
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[uint64]subscription),
		logger: logger,
	}
}

// Subscribe registers fn for events matching f. The returned func removes
// the subscription and is safe to call more than once.
func (h *Hub) Subscribe(f Filter, fn func(Event)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = subscription{filter: f, fn: fn}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers ev to matching local subscribers.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.Dispatch(ev)
	return nil
}

// Dispatch runs every matching handler synchronously.
func (h *Hub) Dispatch(ev Event) {
	h.mu.RLock()
	matched := make([]func(Event), 0, len(h.subs))
	for _, s := range h.subs {
		if s.filter.Matches(ev) {
			matched = append(matched, s.fn)
		}
	}
	h.mu.RUnlock()

	for _, fn := range matched {
		fn(ev)
	}
	h.logger.Debug("realtime event dispatched",
		zap.String("table", ev.Table),
		zap.String("type", ev.Type),
		zap.Int("subscribers", len(matched)),
	)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
