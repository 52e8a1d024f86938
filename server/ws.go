package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"blackjack-arena/server/engine"
)

// RoundEvent is the live-feed payload sent to observers whenever a round
// settles. Session ids are not exposed.
type RoundEvent struct {
	Outcome     engine.Outcome `json:"outcome"`
	Bet         int            `json:"bet"`
	PlayerScore int            `json:"playerScore"`
	DealerScore int            `json:"dealerScore"`
	Message     string         `json:"message"`
}

// Hub fans settled-round events out to connected websocket observers.
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan RoundEvent
	logger     *log.Logger
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(logger *log.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan RoundEvent, 64),
		logger:     logger.WithPrefix("watch"),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run handles observer lifecycle and event fan-out until Stop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("observer connected", "total", n)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				_ = conn.Close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("observer disconnected", "total", n)

		case ev := <-h.events:
			h.mu.RLock()
			for conn := range h.clients {
				if err := conn.WriteJSON(ev); err != nil {
					h.logger.Debug("observer write failed", "error", err)
					go func(c *websocket.Conn) { h.unregister <- c }(conn)
				}
			}
			h.mu.RUnlock()

		case <-h.ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				_ = conn.Close()
			}
			h.clients = make(map[*websocket.Conn]bool)
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

// Broadcast queues an event for fan-out, dropping it when the buffer is
// full rather than blocking a request handler.
func (h *Hub) Broadcast(ev RoundEvent) {
	select {
	case h.events <- ev:
	default:
		h.logger.Warn("event buffer full, dropping round event")
	}
}

// HandleWatch upgrades an observer connection and parks it on the hub. The
// feed is write-only; reads just detect disconnects.
func (h *Hub) HandleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", "error", err)
		return
	}
	h.register <- conn
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- conn
				return
			}
		}
	}()
}
