// Package spectator streams live fights to websocket subscribers.
package spectator

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/angler/internal/game/fishing"
)

const (
	defaultSendBuffer = 64
	writeWait         = 2 * time.Second
)

// Message is one frame of the feed.
type Message struct {
	Type     string             `json:"type"` // "tick" or "outcome"
	AnglerID int64              `json:"angler_id"`
	State    *fishing.TickState `json:"state,omitempty"`
	Outcome  *OutcomeSummary    `json:"outcome,omitempty"`
}

// OutcomeSummary is the part of an outcome spectators see.
type OutcomeSummary struct {
	Phase     fishing.Phase `json:"phase"`
	Cause     fishing.Cause `json:"cause"`
	Species   string        `json:"species"`
	WeightKg  float64       `json:"weight_kg"`
	ElapsedMs int64         `json:"elapsed_ms"`
	Jerks     int           `json:"jerks"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans fight events out to connected spectators. It implements
// fishing.SessionListener. A subscriber whose buffer is full is dropped
// so a slow client never stalls the fight loop.
type Hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	buffer int
	closed bool

	upgrader websocket.Upgrader
}

// NewHub creates a hub. sendBuffer is the per-subscriber frame backlog;
// non-positive means the default.
func NewHub(sendBuffer int) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		buffer: sendBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler returns the mux serving the feed at /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	return mux
}

// ServeWS upgrades the request and streams frames until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("spectator upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, h.buffer)}
	if !h.add(sub) {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down")
		_ = conn.WriteMessage(websocket.CloseMessage, msg)
		conn.Close()
		return
	}
	slog.Debug("spectator joined", "remote", r.RemoteAddr)

	go h.writeLoop(sub)

	// Spectators never send anything meaningful; reading only detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(sub)
			slog.Debug("spectator left", "remote", r.RemoteAddr)
			return
		}
	}
}

func (h *Hub) writeLoop(sub *subscriber) {
	defer sub.conn.Close()

	for data := range sub.send {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.remove(sub)
			return
		}
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = sub.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[sub] = struct{}{}
	return true
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(sub)
}

// dropLocked removes sub and closes its queue. Caller must hold h.mu.
func (h *Hub) dropLocked(sub *subscriber) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.send)
}

// Subscribers returns the number of connected spectators.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast sends msg to every subscriber.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling spectator frame", "type", msg.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		select {
		case sub.send <- data:
		default:
			slog.Warn("dropping slow spectator", "remote", sub.conn.RemoteAddr().String())
			h.dropLocked(sub)
		}
	}
}

// OnFightTick implements fishing.SessionListener.
func (h *Hub) OnFightTick(anglerID int64, state fishing.TickState) {
	h.Broadcast(Message{Type: "tick", AnglerID: anglerID, State: &state})
}

// OnFightEnd implements fishing.SessionListener.
func (h *Hub) OnFightEnd(anglerID int64, o *fishing.Outcome) {
	if o == nil {
		return
	}
	h.Broadcast(Message{
		Type:     "outcome",
		AnglerID: anglerID,
		Outcome: &OutcomeSummary{
			Phase:     o.Phase,
			Cause:     o.Cause,
			Species:   o.Fish.Species,
			WeightKg:  o.Fish.WeightKg,
			ElapsedMs: o.Elapsed.Milliseconds(),
			Jerks:     o.Final.Jerks,
		},
	})
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		h.dropLocked(sub)
	}
}
