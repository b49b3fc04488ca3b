package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub fans status payloads out to topic subscribers. Delivery is
// fire-and-forget: a subscriber that cannot keep up is dropped rather than
// blocking the broadcast tick.
type Hub struct {
	mu           sync.RWMutex
	topics       map[string]map[*subscriber]struct{}
	logger       *zap.Logger
	pingInterval time.Duration
}

// NewHub builds the hub.
func NewHub(pingInterval time.Duration, logger *zap.Logger) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Hub{
		topics:       make(map[string]map[*subscriber]struct{}),
		logger:       logger,
		pingInterval: pingInterval,
	}
}

// Publish sends the payload as JSON to every subscriber of the topic.
func (h *Hub) Publish(topic string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("failed to marshal broadcast payload", zap.String("topic", topic), zap.Error(err))
		return
	}

	h.mu.RLock()
	subs := h.topics[topic]
	for sub := range subs {
		sub.send(data)
	}
	h.mu.RUnlock()
}

// Start runs the keepalive ping loop until ctx is cancelled.
func (h *Hub) Start(ctx context.Context) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.mu.RLock()
			for _, subs := range h.topics {
				for sub := range subs {
					sub.ping()
				}
			}
			h.mu.RUnlock()
		}
	}
}

// SubscriberCount returns the number of subscribers on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) add(topic string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*subscriber]struct{})
		h.topics[topic] = subs
	}
	subs[sub] = struct{}{}
}

func (h *Hub) remove(topic string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
}
