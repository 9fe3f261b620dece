// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Type names a ledger change
type Type string

const (
	VoteCast      Type = "vote_cast"
	VoteRemoved   Type = "vote_removed"
	SongActivated Type = "song_activated"
	CommentAdded  Type = "comment_added"
)

// Event is emitted after a mutation commits. WeekKey is the competition week
// the change belongs to.
type Event struct {
	Type    Type      `json:"type"`
	WeekKey string    `json:"week_year"`
	SongID  string    `json:"song_id,omitempty"`
	ActorID string    `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}

// AffectsLeaderboard reports whether e can change a leaderboard
func (e Event) AffectsLeaderboard() bool {
	return e.Type != CommentAdded
}

// Publisher delivers events to every subscriber of every instance
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 16

// Hub fans events out to in-process subscribers. A subscriber that falls
// behind loses events rather than blocking publishers.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]chan Event
	nextID uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan Event)}
}

// Publish delivers e to local subscribers; it never fails
func (h *Hub) Publish(_ context.Context, e Event) error {
	h.Broadcast(e)
	return nil
}

// Broadcast delivers e to every current subscriber without blocking
func (h *Hub) Broadcast(e Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("dropping event for slow subscriber", "subscriber", id, "type", e.Type)
		}
	}
}

// Subscribe registers a subscriber. The returned cancel func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of live subscribers
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
