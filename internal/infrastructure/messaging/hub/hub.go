// Package hub fans draft events out to in-process subscribers such as
// websocket connections.
package hub

import (
	"context"
	"fmt"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/f1-fantasy/internal/domain/draft"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
)

const defaultBuffer = 32

// Frame is one encoded event ready to be written to a subscriber.
type Frame struct {
	EventType string
	Data      []byte
}

type frameEnvelope struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type subscriber struct {
	id   uint64
	send chan Frame
}

// Hub broadcasts frames without blocking the publisher. A subscriber whose
// buffer is full is dropped and its channel closed.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscriber
	nextID uint64
	buffer int
	closed bool
	logger *logging.Logger
	now    func() time.Time
}

func New(buffer int, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[uint64]*subscriber),
		buffer: buffer,
		logger: logger.Component("draft_hub"),
		now:    time.Now,
	}
}

// Subscribe registers a subscriber. The returned cancel func is idempotent.
func (h *Hub) Subscribe() (<-chan Frame, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Frame, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	h.nextID++
	sub := &subscriber{id: h.nextID, send: ch}
	h.subs[sub.id] = sub

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.remove(sub.id) })
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) PublishPickCommitted(ctx context.Context, event draft.PickCommitted) error {
	return h.broadcast(ctx, draft.EventPickCommitted, event)
}

func (h *Hub) PublishRoundStarted(ctx context.Context, event draft.RoundStarted) error {
	return h.broadcast(ctx, draft.EventRoundStarted, event)
}

func (h *Hub) broadcast(ctx context.Context, eventType string, payload any) error {
	data, err := sonic.Marshal(frameEnvelope{
		EventType:  eventType,
		OccurredAt: h.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", eventType, err)
	}
	frame := Frame{EventType: eventType, Data: data}

	var slow []uint64
	h.mu.RLock()
	for id, sub := range h.subs {
		select {
		case sub.send <- frame:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.RUnlock()

	for _, id := range slow {
		h.logger.WarnContext(ctx, "dropping slow draft stream subscriber", "subscriber_id", id, "event_type", eventType)
		h.remove(id)
	}
	return nil
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[id]
	if !ok {
		return
	}
	delete(h.subs, id)
	close(sub.send)
}

// Close disconnects every subscriber. Later subscriptions receive a closed
// channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.send)
	}
}
