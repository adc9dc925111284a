package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLockMapSerialisesSameKey(t *testing.T) {
	var m lockMap
	ctx := context.Background()

	var mu sync.Mutex
	active, maxActive := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.acquire(ctx, "pack")
			require.NoError(t, err)
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	require.Equal(t, 1, maxActive)
	require.Equal(t, 0, m.size())
}

func TestLockMapIndependentKeys(t *testing.T) {
	var m lockMap
	ctx := context.Background()
	unlockA, err := m.acquire(ctx, "a")
	require.NoError(t, err)
	unlockB, err := m.acquire(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, 2, m.size())
	unlockA()
	unlockA()
	unlockB()
	require.Equal(t, 0, m.size())
}

func TestLockMapContextCancel(t *testing.T) {
	var m lockMap
	unlock, err := m.acquire(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.acquire(ctx, "a")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	require.Equal(t, 0, m.size())
}
