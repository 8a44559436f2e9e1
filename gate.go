package deeplink

import (
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// gate admits at most one session at a time.
type gate struct {
	sem     *semaphore.Weighted
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	holder *session
	since  time.Time
}

func newGate(timeout time.Duration) *gate {
	return &gate{
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
		now:     time.Now,
	}
}

// admit makes s the holder of the gate. If the gate is taken by a session
// that has held it for longer than the timeout, that session is returned
// as stale: it has been aborted and s holds the gate in its place.
func (g *gate) admit(s *session) (ok bool, stale *session) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sem.TryAcquire(1) {
		g.holder = s
		g.since = g.now()
		return true, nil
	}

	if g.timeout > 0 && g.holder != nil && g.now().Sub(g.since) > g.timeout {
		stale = g.holder
		stale.abort(ErrAborted)
		g.holder = s
		g.since = g.now()
		return true, stale
	}
	return false, nil
}

// release frees the gate if s still holds it.
func (g *gate) release(s *session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.holder != s {
		return
	}
	g.holder = nil
	g.sem.Release(1)
}

func (g *gate) busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.holder != nil
}
