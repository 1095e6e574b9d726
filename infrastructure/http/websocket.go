package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	stockin "scanstation/frontend/stockIn"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 30 * time.Second
)

type feedClient struct {
	conn *ws.Conn
	mu   sync.Mutex
}

func (c *feedClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return c.conn.WriteMessage(ws.TextMessage, data)
}

// Hub fans stock-in session events out to the displays following each
// session. It satisfies stockin.Notifier.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*feedClient]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*feedClient]struct{})}
}

func (h *Hub) register(sessionID string, c *feedClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[sessionID]
	if !ok {
		set = make(map[*feedClient]struct{})
		h.clients[sessionID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(sessionID string, c *feedClient) {
	h.mu.Lock()
	if set, ok := h.clients[sessionID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, sessionID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

// Followers reports how many displays follow sessionID.
func (h *Hub) Followers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *Hub) Notify(sessionID string, evt stockin.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		slog.Error("ws: marshal event", slog.Any("err", err))
		return
	}
	h.mu.RLock()
	targets := make([]*feedClient, 0, len(h.clients[sessionID]))
	for c := range h.clients[sessionID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			slog.Debug("ws: dropping follower", slog.String("session", sessionID), slog.Any("err", err))
			h.unregister(sessionID, c)
		}
	}
}

// The zero CheckOrigin rejects cross-origin browser handshakes.
var upgrader = ws.Upgrader{}

// StockInFeedHandler upgrades /tasker/ws/stock-in?session=ID and keeps the
// connection alive until the display goes away.
func StockInFeedHandler(hub *Hub, kiosk *stockin.Kiosk) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if _, ok := kiosk.Find(sessionID); !ok {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("ws: upgrade failed", slog.Any("err", err))
			return
		}

		c := &feedClient{conn: conn}
		hub.register(sessionID, c)
		slog.Debug("ws: display connected", slog.String("session", sessionID), slog.Int("followers", hub.Followers(sessionID)))

		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(wsPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					c.mu.Lock()
					err := conn.WriteControl(ws.PingMessage, nil, time.Now().Add(wsWriteWait))
					c.mu.Unlock()
					if err != nil {
						return
					}
				}
			}
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		close(done)
		hub.unregister(sessionID, c)
		slog.Debug("ws: display disconnected", slog.String("session", sessionID))
	}
}
