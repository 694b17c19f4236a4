package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
)

// Event types delivered on the change feed.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
)

// Realtime subscribes to the datastore's change feed over the Phoenix
// websocket protocol. Close is idempotent and safe to call on a
// subscription that never connected.
type Realtime struct {
	baseURL string
	anonKey string

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	done   chan struct{}
}

const (
	realtimeTopic     = "realtime:public:shows"
	heartbeatInterval = 30 * time.Second
)

// phxMessage is the Phoenix channel frame.
type phxMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// changePayload is the body of a postgres_changes frame.
type changePayload struct {
	Type   string `json:"type"`
	Record row    `json:"record"`
}

// NewRealtime creates an unconnected subscription handle.
func NewRealtime(baseURL, anonKey string) *Realtime {
	return &Realtime{
		baseURL: baseURL,
		anonKey: anonKey,
		done:    make(chan struct{}),
	}
}

// ShowChange is one decoded INSERT or UPDATE on the shows table.
type ShowChange struct {
	Type string
	Show show.Show
}

// Subscribe connects and joins the shows channel. Changes are delivered
// on the returned channel until Close or a read failure; the channel is
// closed on teardown either way.
func (r *Realtime) Subscribe(ctx context.Context) (<-chan ShowChange, error) {
	if r.baseURL == "" || r.anonKey == "" {
		return nil, source.ErrNotConfigured
	}

	wsURL, err := r.websocketURL()
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect realtime feed: %w", err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		conn.Close()
		return nil, fmt.Errorf("realtime subscription already closed")
	}
	r.conn = conn
	r.mu.Unlock()

	join := phxMessage{
		Topic:   realtimeTopic,
		Event:   "phx_join",
		Payload: json.RawMessage(`{}`),
		Ref:     "1",
	}
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to join shows channel: %w", err)
	}

	events := make(chan ShowChange, 16)
	go r.heartbeatLoop()
	go r.readLoop(events)
	return events, nil
}

// Close tears the subscription down. Safe to call multiple times and
// before Subscribe ever succeeded.
func (r *Realtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	close(r.done)
	if r.conn != nil {
		r.conn.Close()
		r.conn = nil
	}
}

func (r *Realtime) websocketURL() (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse datastore url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/realtime/v1/websocket"
	q := u.Query()
	q.Set("apikey", r.anonKey)
	q.Set("vsn", "1.0.0")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r *Realtime) heartbeatLoop() {
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.mu.Lock()
			conn := r.conn
			r.mu.Unlock()
			if conn == nil {
				return
			}
			hb := phxMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
			}
			if err := conn.WriteJSON(hb); err != nil {
				logging.Warn("realtime heartbeat failed", "error", err)
				return
			}
		}
	}
}

func (r *Realtime) readLoop(events chan<- ShowChange) {
	defer close(events)
	for {
		r.mu.Lock()
		conn := r.conn
		r.mu.Unlock()
		if conn == nil {
			return
		}

		var msg phxMessage
		if err := conn.ReadJSON(&msg); err != nil {
			r.mu.Lock()
			closed := r.closed
			r.mu.Unlock()
			if !closed {
				logging.Warn("realtime feed disconnected", "error", err)
			}
			return
		}

		if msg.Topic != realtimeTopic {
			continue
		}
		if msg.Event != EventInsert && msg.Event != EventUpdate {
			continue
		}

		var payload changePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			logging.Warn("failed to decode realtime payload", "error", err)
			continue
		}

		select {
		case events <- ShowChange{Type: msg.Event, Show: normalizeRow(payload.Record)}:
		case <-r.done:
			return
		}
	}
}
