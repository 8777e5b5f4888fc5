package flow

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLock_TryAcquireRelease(t *testing.T) {
	l := NewLock()

	assert.True(t, l.TryAcquire())
	assert.True(t, l.Busy())

	// Second caller is rejected, not queued
	assert.False(t, l.TryAcquire())

	l.Release()
	assert.False(t, l.Busy())
	assert.True(t, l.TryAcquire())
	l.Release()
}

func TestLock_SingleWinnerUnderContention(t *testing.T) {
	l := NewLock()

	const goroutines = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire() {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	l.Release()
	assert.True(t, l.TryAcquire())
}
