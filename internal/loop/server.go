package loop

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tomz197/driftroids/internal/sim"
)

// ErrHubFull is returned by Hub.Play when the session limit is reached.
var ErrHubFull = errors.New("too many active sessions")

// ErrHubStopped is returned by Hub.Play after Stop.
var ErrHubStopped = errors.New("hub stopped")

// Hub runs one private simulation per connected session and tracks them so
// the server can report load and stop every game on shutdown.
type Hub struct {
	logger  *log.Logger
	base    Options
	limit   int
	stopped bool

	mu       sync.Mutex
	sessions map[string]context.CancelFunc
	wg       sync.WaitGroup
}

// NewHub creates a hub whose sessions start from base. limit <= 0 means no
// limit. A nil base.Clock gives every session its own real clock.
func NewHub(logger *log.Logger, base Options, limit int) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger:   logger,
		base:     base,
		limit:    limit,
		sessions: make(map[string]context.CancelFunc),
	}
}

// Play registers a session under id and runs its simulation on fe until it
// ends. seed picks the session's field.
func (h *Hub) Play(ctx context.Context, id string, seed int64, fe Frontend) (sim.Stats, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h.mu.Lock()
	switch {
	case h.stopped:
		h.mu.Unlock()
		return sim.Stats{}, ErrHubStopped
	case h.limit > 0 && len(h.sessions) >= h.limit:
		h.mu.Unlock()
		return sim.Stats{}, ErrHubFull
	}
	h.sessions[id] = cancel
	h.wg.Add(1)
	active := len(h.sessions)
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.sessions, id)
		h.mu.Unlock()
		h.wg.Done()
	}()

	logger := h.logger.With("session", id)
	logger.Info("game started", "active", active)

	opts := h.base
	opts.Logger = logger
	opts.Seed = seed
	stats, err := Run(ctx, fe, opts)

	logger.Info("game ended", "frames", stats.Frames, "destroyed", stats.Destroyed, "shots", stats.Shots, "err", err)
	return stats, err
}

// Active returns the number of running sessions.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Stop cancels every session, refuses new ones and waits for the running
// games to return or ctx to expire.
func (h *Hub) Stop(ctx context.Context) error {
	h.mu.Lock()
	h.stopped = true
	for _, cancel := range h.sessions {
		cancel()
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
