package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestRequestLock_SerializesSameID(t *testing.T) {
	l := newRequestLock()
	id := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Lock(id)
			counter++
			l.Unlock(id)
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Fatalf("counter = %d, want 100", counter)
	}
}

func TestRequestLock_IndependentIDsDoNotBlock(t *testing.T) {
	l := newRequestLock()
	a, b := uuid.New(), uuid.New()

	l.Lock(a)

	done := make(chan struct{})
	go func() {
		l.Lock(b)
		l.Unlock(b)
		close(done)
	}()

	<-done
	l.Unlock(a)
}

func TestRequestLock_EntriesRemovedWhenUnused(t *testing.T) {
	l := newRequestLock()
	id := uuid.New()

	l.Lock(id)
	l.Unlock(id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Fatalf("lock map holds %d entries after release, want 0", len(l.locks))
	}
}
