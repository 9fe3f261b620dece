// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/middleware"
)

const (
	// WriteWait bounds a single websocket write
	WriteWait = 10 * time.Second
	// PongWait is how long a silent client is kept
	PongWait = 60 * time.Second
	// PingPeriod must be shorter than PongWait
	PingPeriod = 30 * time.Second
	// maxClientMessage caps what a live client may send; it sends nothing useful
	maxClientMessage = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Live handles GET /leaderboard/live?week=
//
// The current leaderboard is pushed on connect and again after every
// change to that week. Bursts of changes produce one push. The connection
// outlives the request, so it ends with the handler's base context.
func (h *LeaderboardHandler) Live(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Live updates are disabled")
		return
	}

	week, err := weekParam(r, h.store.CurrentWeek())
	if err != nil {
		storeError(w, err, "live leaderboard")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connID := uuid.NewString()
	updates, cancel := h.hub.Subscribe(events.DefaultBuffer)
	defer cancel()

	slog.Info("live leaderboard connected", "conn_id", connID, "week", week)
	defer slog.Info("live leaderboard disconnected", "conn_id", connID, "week", week)

	ctx, stop := context.WithCancel(h.base)
	defer stop()
	go readPump(conn, stop)

	if !h.push(ctx, conn, connID, week) {
		return
	}

	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if h.base.Err() != nil {
				conn.SetWriteDeadline(time.Now().Add(WriteWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			}
			return

		case e, ok := <-updates:
			if !ok {
				return
			}
			if !relevant(e, week) {
				continue
			}
			if !drain(updates) {
				return
			}
			if !h.push(ctx, conn, connID, week) {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func relevant(e events.Event, week string) bool {
	return e.WeekKey == week && e.AffectsLeaderboard()
}

// drain discards queued events so one push covers a burst.
// It returns false once the subscription is closed.
func drain(updates <-chan events.Event) bool {
	for {
		select {
		case _, ok := <-updates:
			if !ok {
				return false
			}
		default:
			return true
		}
	}
}

// push writes the current leaderboard; false means the connection is done
func (h *LeaderboardHandler) push(ctx context.Context, conn *websocket.Conn, connID, week string) bool {
	resp, err := h.service.Leaderboard(ctx, week)
	if err != nil {
		slog.Error("live leaderboard failed", "conn_id", connID, "week", week, "error", err)
		conn.SetWriteDeadline(time.Now().Add(WriteWait))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "leaderboard unavailable"))
		return false
	}

	conn.SetWriteDeadline(time.Now().Add(WriteWait))
	if err := conn.WriteJSON(resp); err != nil {
		slog.Debug("live leaderboard write failed", "conn_id", connID, "error", err)
		return false
	}
	return true
}

// readPump consumes control frames until the client goes away, then calls stop
func readPump(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()

	conn.SetReadLimit(maxClientMessage)
	conn.SetReadDeadline(time.Now().Add(PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("live leaderboard read error", "error", err)
			}
			return
		}
	}
}
