package service

import (
	"context"
	"sync"
)

// pathLocker serializes work on the same local path. Distinct paths do not
// block each other.
type pathLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newPathLocker() *pathLocker {
	return &pathLocker{locks: make(map[string]chan struct{})}
}

func (l *pathLocker) lock(ctx context.Context, path string) (func(), error) {
	l.mu.Lock()
	ch, ok := l.locks[path]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[path] = ch
	}
	l.mu.Unlock()

	unlock := func() { <-ch }
	select {
	case ch <- struct{}{}:
		return unlock, nil
	default:
	}
	select {
	case ch <- struct{}{}:
		return unlock, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
