package web

import (
	"sync"
)

// Status is one tick's worth of server statistics, encoded as JSON on the
// websocket feed.
type Status struct {
	Tick       uint64 `json:"tick"`
	Online     int    `json:"online"`
	Players    int    `json:"players"`
	Regions    int    `json:"regions"`
	Committed  int    `json:"committed"`
	Live       int    `json:"live"`
	Spawns     int    `json:"spawns"`
	Destroys   int    `json:"destroys"`
	Updates    int    `json:"updates"`
	TickMillis int64  `json:"tick_millis"`
}

// Hub fans one status snapshot per tick out to all connected websocket
// clients. Publish is called from the game loop; slow clients are dropped
// rather than allowed to stall it.
type Hub struct {
	mu      sync.Mutex
	clients map[chan Status]struct{}
	last    Status
	hasLast bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan Status]struct{})}
}

// Publish hands a snapshot to every subscriber. Non-blocking; a client that
// has not drained its previous snapshot loses this one.
func (h *Hub) Publish(st Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = st
	h.hasLast = true
	for ch := range h.clients {
		select {
		case ch <- st:
		default:
		}
	}
}

// Subscribe registers a feed channel. The most recent snapshot, if any, is
// delivered immediately so new clients do not wait a full interval.
func (h *Hub) Subscribe() chan Status {
	ch := make(chan Status, 4)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.hasLast {
		ch <- h.last
	}
	h.clients[ch] = struct{}{}
	return ch
}

func (h *Hub) Unsubscribe(ch chan Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
}

// Last returns the most recent snapshot for the plain HTTP status endpoint.
func (h *Hub) Last() (Status, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.hasLast
}
