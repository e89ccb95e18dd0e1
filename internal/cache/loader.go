package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Invalidator is anything whose cached state can be dropped.
type Invalidator interface {
	Invalidate()
}

// Loader holds one lazily loaded value. Concurrent first callers share a
// single fetch; failed fetches are not cached.
type Loader[V any] struct {
	load func(ctx context.Context) (V, error)

	mu     sync.RWMutex
	val    V
	loaded bool
	gen    uint64

	group singleflight.Group
}

func NewLoader[V any](load func(ctx context.Context) (V, error)) *Loader[V] {
	return &Loader[V]{load: load}
}

func (l *Loader[V]) Get(ctx context.Context) (V, error) {
	l.mu.RLock()
	if l.loaded {
		v := l.val
		l.mu.RUnlock()
		return v, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	res, err, _ := l.group.Do("load", func() (any, error) {
		v, err := l.load(ctx)
		if err != nil {
			return v, err
		}
		l.mu.Lock()
		// an Invalidate during the fetch wins; the value is still returned
		if l.gen == gen {
			l.val = v
			l.loaded = true
		}
		l.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (l *Loader[V]) Invalidate() {
	l.mu.Lock()
	var zero V
	l.val = zero
	l.loaded = false
	l.gen++
	l.mu.Unlock()
}

func (l *Loader[V]) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}
