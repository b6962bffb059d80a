package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Latest is a single-slot store holding the most recent poll result. A new
// result overwrites the previous one; nothing is queued.
type Latest[T any] struct {
	mu    sync.RWMutex
	value T
	at    time.Time
	ok    bool
}

func (l *Latest[T]) set(value T, at time.Time) {
	l.mu.Lock()
	l.value = value
	l.at = at
	l.ok = true
	l.mu.Unlock()
}

// Get returns the most recent result and when it was fetched.
func (l *Latest[T]) Get() (T, time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.at, l.ok
}

// Poller re-issues one read on a fixed interval and publishes each result
// into a Latest slot. Cancelling Run's context stops scheduling; a fetch
// already in flight runs to completion.
type Poller[T any] struct {
	interval time.Duration
	fetch    func(context.Context) (T, error)
	latest   *Latest[T]
	logger   *zap.Logger
	onResult func(T)
}

func New[T any](interval time.Duration, fetch func(context.Context) (T, error), logger *zap.Logger) *Poller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller[T]{
		interval: interval,
		fetch:    fetch,
		latest:   &Latest[T]{},
		logger:   logger,
	}
}

// Latest returns the single-slot result store.
func (p *Poller[T]) Latest() *Latest[T] {
	return p.latest
}

// SetOnResult registers a callback invoked with each successful result.
func (p *Poller[T]) SetOnResult(fn func(T)) {
	p.onResult = fn
}

// Run polls immediately, then on every interval tick until ctx ends.
func (p *Poller[T]) Run(ctx context.Context) error {
	if p.interval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller[T]) poll(ctx context.Context) {
	// The fetch is not cancelled mid-flight when Run's context ends; only
	// further scheduling stops.
	value, err := p.fetch(context.WithoutCancel(ctx))
	if err != nil {
		p.logger.Warn("poll fetch failed", zap.Error(err))
		return
	}
	p.latest.set(value, time.Now().UTC())
	if p.onResult != nil {
		p.onResult(value)
	}
}
