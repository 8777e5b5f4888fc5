package flow

import "sync"

// Lock is the process-wide single-slot exclusion guard for mutating
// workflows. A caller that finds it busy is rejected, not queued. The
// guard is deliberately a mutex-protected flag rather than a bare shared
// boolean.
type Lock struct {
	mu   sync.Mutex
	busy bool
}

// processLock serializes mutating workflows across every Engine in the
// process. The guarantee is system-wide, not per-repository.
var processLock = NewLock()

// NewLock creates a free Lock
func NewLock() *Lock {
	return &Lock{}
}

// TryAcquire transitions the lock from free to busy. It reports false,
// without blocking, when another workflow already holds it.
func (l *Lock) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return false
	}
	l.busy = true
	return true
}

// Release frees the lock. Safe to call from a deferred guard even if the
// workflow failed.
func (l *Lock) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.busy = false
}

// Busy reports the current state without acquiring
func (l *Lock) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}
