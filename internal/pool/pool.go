// Package pool provides typed object pools for per-step scratch objects that
// are recycled instead of reallocated.
//
// Ownership of an acquired object belongs to the caller until it is handed
// back with Release. In debug mode the pool tracks every live object and
// panics on double release or on release of an object it never handed out.
package pool

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

var (
	// ErrDoubleRelease indicates an object was released while not acquired.
	ErrDoubleRelease = errors.New("pool: object released twice")

	// ErrForeignRelease indicates an object released into a pool that never created it.
	ErrForeignRelease = errors.New("pool: object does not belong to this pool")
)

// Pool is a concurrency-safe typed pool backed by sync.Pool.
type Pool[T comparable] struct {
	pool  sync.Pool
	reset func(T)
	debug bool

	created     atomic.Int64
	outstanding atomic.Int64

	mu   sync.Mutex
	live map[T]struct{}
	seen map[T]struct{}
}

// New creates a pool. reset is applied to every object on Release and may be
// nil. With debug set the pool validates every Release and remembers every
// object it ever created, so debug pools never shrink under GC.
func New[T comparable](newFn func() T, reset func(T), debug bool) *Pool[T] {
	p := &Pool[T]{reset: reset, debug: debug}
	p.pool.New = func() any {
		p.created.Add(1)
		v := newFn()
		if p.debug {
			p.mu.Lock()
			p.seen[v] = struct{}{}
			p.mu.Unlock()
		}
		return v
	}
	if debug {
		p.live = make(map[T]struct{})
		p.seen = make(map[T]struct{})
	}
	return p
}

// Acquire hands out an object the caller owns until Release.
func (p *Pool[T]) Acquire() T {
	v := p.pool.Get().(T)
	p.outstanding.Add(1)
	if p.debug {
		p.mu.Lock()
		p.live[v] = struct{}{}
		p.mu.Unlock()
	}
	return v
}

// Release resets v and returns it to the pool. The caller must not touch v
// afterwards.
func (p *Pool[T]) Release(v T) {
	if p.debug {
		p.mu.Lock()
		_, isLive := p.live[v]
		_, isOurs := p.seen[v]
		delete(p.live, v)
		p.mu.Unlock()
		switch {
		case !isOurs:
			panic(fmt.Errorf("%w: %T", ErrForeignRelease, v))
		case !isLive:
			panic(fmt.Errorf("%w: %T", ErrDoubleRelease, v))
		}
	}
	if p.reset != nil {
		p.reset(v)
	}
	p.outstanding.Add(-1)
	p.pool.Put(v)
}

// Outstanding is the number of objects currently acquired and not released.
func (p *Pool[T]) Outstanding() int64 { return p.outstanding.Load() }

// Created is the number of objects the pool has ever allocated.
func (p *Pool[T]) Created() int64 { return p.created.Load() }
