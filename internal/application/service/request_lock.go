package service

import (
	"sync"

	"github.com/google/uuid"
)

// requestLock serializes workflow transitions per request so that
// overlapping operations on the same request cannot race. Locks are
// reference counted and removed from the map when unused.
type requestLock struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newRequestLock() *requestLock {
	return &requestLock{
		locks: make(map[uuid.UUID]*lockEntry),
	}
}

// Lock acquires the lock for a request ID, blocking until any in-flight
// transition on the same request completes.
func (l *requestLock) Lock(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the lock for a request ID.
func (l *requestLock) Unlock(id uuid.UUID) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if ok {
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
	}
	l.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
