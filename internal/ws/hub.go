package ws

import (
	"context"
	"log"
	"sync"
)

type message struct {
	topics  []string
	payload []byte
}

// Hub routes published messages to the clients subscribed to any of their
// topics. Only the Run goroutine mutates the subscription maps.
type Hub struct {
	clients    map[*Client]struct{}
	topics     map[string]map[*Client]struct{}
	publish    chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		topics:     make(map[string]map[*Client]struct{}),
		publish:    make(chan message, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				h.removeLocked(c)
			}
			h.mutex.Unlock()
			h.drainRegistrations()
			h.logger.Printf("[WS] hub stopped")
			return

		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c] = struct{}{}
			for _, t := range c.topics {
				subs, ok := h.topics[t]
				if !ok {
					subs = make(map[*Client]struct{})
					h.topics[t] = subs
				}
				subs[c] = struct{}{}
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Printf("[WS] connected | topics=%v total_clients=%d", c.topics, total)

		case c := <-h.unregister:
			h.mutex.Lock()
			h.removeLocked(c)
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.Printf("[WS] disconnected | total_clients=%d", total)

		case m := <-h.publish:
			h.deliver(m)
		}
	}
}

func (h *Hub) drainRegistrations() {
	for {
		select {
		case c := <-h.register:
			close(c.send)
		default:
			return
		}
	}
}

func (h *Hub) deliver(m message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	seen := make(map[*Client]struct{})
	for _, t := range m.topics {
		for c := range h.topics[t] {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			select {
			case c.send <- m.payload:
			default:
				h.removeLocked(c)
				h.logger.Printf("[WS] slow client dropped | topics=%v", c.topics)
			}
		}
	}
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for _, t := range c.topics {
		if subs, ok := h.topics[t]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.topics, t)
			}
		}
	}
	close(c.send)
}

// Register reports false when the hub is no longer running.
func (h *Hub) Register(c *Client) bool {
	if h == nil || c == nil {
		return false
	}
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	if h == nil || c == nil {
		return
	}
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish never blocks; messages are dropped when the buffer is full.
func (h *Hub) Publish(payload []byte, topics ...string) {
	if h == nil || len(topics) == 0 {
		return
	}
	select {
	case h.publish <- message{topics: topics, payload: payload}:
	default:
		h.logger.Printf("[WS] publish dropped | reason=buffer_full topics=%v", topics)
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
