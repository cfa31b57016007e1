package inspect

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EventType identifies a reactive-graph event on the stream.
type EventType string

const (
	EventFlushStart     EventType = "flush_start"
	EventFlushEnd       EventType = "flush_end"
	EventEffectRun      EventType = "effect_run"
	EventEffectDisabled EventType = "effect_disabled"
	EventTaskPanic      EventType = "task_panic"
	EventSignalWrite    EventType = "signal_write"
)

// Event is one entry on the inspector stream, JSON-encoded per message.
type Event struct {
	Type   EventType `json:"type"`
	Time   time.Time `json:"time"`
	ID     uint64    `json:"id,omitempty"`
	Name   string    `json:"name,omitempty"`
	Passes int       `json:"passes,omitempty"`
	Tasks  int       `json:"tasks,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Inspector broadcasts reactive-graph events to WebSocket clients.
// It implements reactive.Instrument; attach with reactive.SetInstrument.
type Inspector struct {
	clients  map[*websocket.Conn]bool
	mu       sync.RWMutex
	upgrader websocket.Upgrader
}

// New creates an inspector with no connected clients.
func New() *Inspector {
	return &Inspector{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // dev tool; allow all origins
			},
		},
	}
}

// Handler returns the inspector's HTTP routes:
//
//	GET /        status JSON (connected client count)
//	GET /ws      WebSocket event stream
//	GET /metrics Prometheus scrape endpoint
func (i *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", i.handleStatus)
	r.Get("/ws", i.handleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// ClientCount returns the number of connected stream clients.
func (i *Inspector) ClientCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.clients)
}

func (i *Inspector) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"clients": i.ClientCount(),
	})
}

// handleWebSocket upgrades the connection and holds it open until the
// client disconnects. The read loop exists only to detect closure;
// clients are not expected to send anything.
func (i *Inspector) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := i.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	i.mu.Lock()
	i.clients[conn] = true
	i.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	i.mu.Lock()
	delete(i.clients, conn)
	i.mu.Unlock()
	conn.Close()
}

// broadcast sends an event to all connected clients. Clients whose write
// fails are dropped.
func (i *Inspector) broadcast(ev Event) {
	i.mu.RLock()
	idle := len(i.clients) == 0
	i.mu.RUnlock()
	if idle {
		return
	}

	ev.Time = time.Now()
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	for conn := range i.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(i.clients, conn)
			conn.Close()
		}
	}
}

// FlushStart implements reactive.Instrument.
func (i *Inspector) FlushStart() {
	i.broadcast(Event{Type: EventFlushStart})
}

// FlushEnd implements reactive.Instrument.
func (i *Inspector) FlushEnd(passes, tasks int) {
	i.broadcast(Event{Type: EventFlushEnd, Passes: passes, Tasks: tasks})
}

// EffectRan implements reactive.Instrument.
func (i *Inspector) EffectRan(name string, id uint64) {
	i.broadcast(Event{Type: EventEffectRun, Name: name, ID: id})
}

// EffectDisabled implements reactive.Instrument.
func (i *Inspector) EffectDisabled(name string, id uint64) {
	i.broadcast(Event{Type: EventEffectDisabled, Name: name, ID: id})
}

// TaskPanicked implements reactive.Instrument.
func (i *Inspector) TaskPanicked(id uint64, value any) {
	i.broadcast(Event{Type: EventTaskPanic, ID: id, Detail: "recovered panic"})
}

// SignalWrote implements reactive.Instrument.
func (i *Inspector) SignalWrote(id uint64) {
	i.broadcast(Event{Type: EventSignalWrite, ID: id})
}
