package snapshot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/pkg/logger"
)

// Holder publishes the current snapshot. Refreshes swap the pointer
// atomically, so readers always see a complete snapshot.
type Holder struct {
	source  Source
	current atomic.Pointer[Snapshot]

	mu        sync.Mutex
	listeners []func(old, updated *Snapshot)
}

func NewHolder(source Source) *Holder {
	return &Holder{source: source}
}

// NewStaticHolder serves a fixed snapshot, mainly for tests.
func NewStaticHolder(s *Snapshot) *Holder {
	h := &Holder{}
	h.current.Store(s)
	return h
}

// OnRefresh registers fn to run after each snapshot swap.
func (h *Holder) OnRefresh(fn func(old, updated *Snapshot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Current returns the latest snapshot.
func (h *Holder) Current() (*Snapshot, error) {
	s := h.current.Load()
	if s == nil {
		return nil, domain.ErrNoSnapshot
	}
	return s, nil
}

// Refresh loads a new snapshot and publishes it. On failure the previous
// snapshot stays in place.
func (h *Holder) Refresh(ctx context.Context) (*Snapshot, error) {
	if h.source == nil {
		return h.Current()
	}

	start := time.Now()
	s, err := h.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh snapshot from %s: %w", h.source.Name(), err)
	}

	old := h.current.Swap(s)

	h.mu.Lock()
	listeners := append([]func(old, updated *Snapshot){}, h.listeners...)
	h.mu.Unlock()
	for _, fn := range listeners {
		fn(old, s)
	}

	stats := s.Stats()
	logger.Log.Info().
		Str("source", h.source.Name()).
		Str("version", s.Version).
		Int("stores", stats.Stores).
		Int("products", stats.Products).
		Dur("took", time.Since(start)).
		Msg("snapshot: refreshed")
	return s, nil
}

// Run refreshes the snapshot every interval until ctx is done.
func (h *Holder) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || h.source == nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := h.Refresh(ctx); err != nil {
				logger.Log.Error().Err(err).Msg("snapshot: periodic refresh failed")
			}
		}
	}
}
