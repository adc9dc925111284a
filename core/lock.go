package core

import (
	"context"
	"sync"
)

// lockMap hands out one mutual exclusion scope per pack ID. Entries are reference
// counted and dropped once nobody holds or waits for them.
type lockMap struct {
	mu    sync.Mutex
	locks map[string]*packLock
}

type packLock struct {
	sem  chan struct{}
	refs int
}

// acquire blocks until the lock for key is held or ctx is done
func (m *lockMap) acquire(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	if m.locks == nil {
		m.locks = make(map[string]*packLock)
	}
	l, ok := m.locks[key]
	if !ok {
		l = &packLock{sem: make(chan struct{}, 1)}
		m.locks[key] = l
	}
	l.refs++
	m.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		m.release(key, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.sem
			m.release(key, l)
		})
	}, nil
}

func (m *lockMap) release(key string, l *packLock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(m.locks, key)
	}
}

func (m *lockMap) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
