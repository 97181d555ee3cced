// Package ws provides the duplex websocket transport: a connection registry
// used for broadcast notices and a handler that evaluates access requests
// sent over an established socket.
package ws

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Registry tracks live websocket connections. It satisfies the notification
// fanout's Broadcaster so every connected client sees decision notices.
type Registry struct {
	mu     sync.Mutex
	conns  map[*websocket.Conn]struct{}
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[*websocket.Conn]struct{}),
		logger: logger,
	}
}

// Add registers a connection until Remove is called.
func (r *Registry) Add(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn] = struct{}{}
}

// Remove drops a connection from the registry.
func (r *Registry) Remove(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn)
}

// Len reports the number of live connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Broadcast writes payload to every live connection. Connections that fail
// the write are closed and dropped; delivery is best effort.
func (r *Registry) Broadcast(ctx context.Context, payload any) {
	r.mu.Lock()
	targets := make([]*websocket.Conn, 0, len(r.conns))
	for conn := range r.conns {
		targets = append(targets, conn)
	}
	r.mu.Unlock()

	for _, conn := range targets {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := wsjson.Write(writeCtx, conn, payload)
		cancel()
		if err != nil {
			r.logger.WarnContext(ctx, "dropping stale websocket connection", "error", err)
			conn.Close(websocket.StatusGoingAway, "write failed")
			r.Remove(conn)
		}
	}
}
