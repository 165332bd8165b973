package hub

import (
	"sync"

	"github.com/jaevor/go-nanoid"
	"github.com/serroba/emoji-hub-go/internal/stats"
	"go.uber.org/zap"
)

// subscriberBuffer is how many pending stats a subscriber may lag behind
// before it is considered slow and dropped.
const subscriberBuffer = 8

// Subscriber is one live observer of stats updates.
type Subscriber struct {
	id string
	ch chan stats.Stats
}

// C returns the channel stats updates arrive on. It is closed when the
// subscriber is unsubscribed or dropped.
func (s *Subscriber) C() <-chan stats.Stats {
	return s.ch
}

// Hub fans out stats updates to live observers. It holds handles only; an
// observer that is slow or gone is dropped, never waited on, so a publish
// can never stall the mutation that triggered it.
type Hub struct {
	mu      sync.Mutex
	subs    map[string]*Subscriber
	last    stats.Stats
	hasLast bool
	newID   func() string
	logger  *zap.Logger
}

// New creates an empty hub.
func New(logger *zap.Logger) *Hub {
	newID, err := nanoid.Standard(12)
	if err != nil {
		// nanoid.Standard only fails for out-of-range lengths.
		panic(err)
	}

	return &Hub{
		subs:   make(map[string]*Subscriber),
		newID:  newID,
		logger: logger,
	}
}

// Subscribe registers a new observer. The current stats are pushed
// immediately so the observer has a baseline before the next mutation.
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: h.newID(),
		ch: make(chan stats.Stats, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.subs[sub.id] = sub

	if h.hasLast {
		sub.ch <- h.last
	}

	return sub
}

// Unsubscribe removes an observer and closes its channel. Safe to call for
// observers that were already dropped.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(sub.id)
}

// Publish pushes stats to every live observer, best-effort. Observers
// whose buffers are full are dropped rather than waited on.
func (h *Hub) Publish(s stats.Stats) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = s
	h.hasLast = true

	for id, sub := range h.subs {
		select {
		case sub.ch <- s:
		default:
			h.logger.Warn("dropping slow stats observer", zap.String("subscriber", id))
			h.removeLocked(id)
		}
	}
}

// Len reports the number of live observers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs)
}

// Close drops every observer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id := range h.subs {
		h.removeLocked(id)
	}
}

func (h *Hub) removeLocked(id string) {
	sub, ok := h.subs[id]
	if !ok {
		return
	}

	delete(h.subs, id)
	close(sub.ch)
}
