package web

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/rook-computer/vtdash/internal/metrics"
	"github.com/rook-computer/vtdash/internal/state"
)

const (
	liveWriteTimeout = 5 * time.Second
	livePingInterval = 25 * time.Second
	// livePushRate caps snapshots per second per client; updates arriving
	// while a push waits coalesce into it.
	livePushRate = 10
)

// handleLive upgrades to a websocket and pushes the full state snapshot once
// on connect and again after store updates, at most livePushRate times a
// second. Client messages are read
// and discarded; they only serve to detect a closed connection.
func (a *API) handleLive(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if a.AllowAnyOrigin {
		upgrader.CheckOrigin = func(*http.Request) bool { return true }
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		a.errorf("live upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	metrics.LiveClients.Inc()
	defer metrics.LiveClients.Dec()

	changes, unsubscribe := a.Store.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(snap state.State) error {
		_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
		return conn.WriteJSON(snap)
	}
	if err := send(a.Store.Snapshot()); err != nil {
		return
	}

	limiter := rate.NewLimiter(livePushRate, 1)
	ping := time.NewTicker(livePingInterval)
	defer ping.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case <-changes:
			if err := limiter.Wait(r.Context()); err != nil {
				return
			}
			if err := send(a.Store.Snapshot()); err != nil {
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(liveWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), deadline); err != nil {
				return
			}
		}
	}
}
