package events

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Norgate-AV/overlayd/internal/logger"
)

// DefaultSubscriptionBuffer is the per-subscription queue length.
const DefaultSubscriptionBuffer = 256

type subscription struct {
	id       uint64
	clientID string
	kind     Kind
	ch       chan Event
}

// Hub fans events out to client subscriptions. Sends never block: a full
// subscription drops the event.
type Hub struct {
	log    logger.LoggerInterface
	buffer int

	mu     sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64

	dropped atomic.Uint64
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(log logger.LoggerInterface, buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultSubscriptionBuffer
	}

	return &Hub{
		log:    log,
		buffer: buffer,
		subs:   make(map[uint64]*subscription),
	}
}

// Subscribe registers clientID for events of kind. The returned cancel
// function is idempotent.
func (h *Hub) Subscribe(clientID string, kind Kind) (<-chan Event, func()) {
	h.mu.Lock()
	h.nextID++
	sub := &subscription{
		id:       h.nextID,
		clientID: clientID,
		kind:     kind,
		ch:       make(chan Event, h.buffer),
	}
	h.subs[sub.id] = sub
	h.mu.Unlock()

	h.log.Debug("Client subscribed",
		slog.String("client", clientID),
		slog.String("kind", kind.String()),
	)

	return sub.ch, func() { h.unsubscribe(sub.id) }
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// RemoveClient closes every subscription held by clientID.
func (h *Hub) RemoveClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		if sub.clientID == clientID {
			delete(h.subs, id)
			close(sub.ch)
		}
	}
}

// SendEventToClient delivers a window event to the window-event
// subscriptions of its owning client.
func (h *Hub) SendEventToClient(clientID string, ev WindowEvent) {
	if ev.Payload == nil {
		panic("events: window event without payload")
	}

	h.publish(func(sub *subscription) bool {
		return sub.kind == KindWindow && sub.clientID == clientID
	}, Event{Kind: KindWindow, Window: &ev})
}

// Broadcast delivers application stats to every stats subscription.
func (h *Hub) Broadcast(ev ApplicationStatsEvent) {
	h.publish(func(sub *subscription) bool {
		return sub.kind == KindApplicationStats
	}, Event{Kind: KindApplicationStats, Stats: &ev})
}

func (h *Hub) publish(match func(*subscription) bool, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if !match(sub) {
			continue
		}

		select {
		case sub.ch <- ev:
		default:
			n := h.dropped.Add(1)
			h.log.Warn("Dropped event for slow subscriber",
				slog.String("client", sub.clientID),
				slog.String("kind", sub.kind.String()),
				slog.Uint64("dropped", n),
			)
		}
	}
}

// Dropped returns how many events were discarded because a subscriber was
// not keeping up.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs)
}
