// Package userlock provides the per-user exclusive section that serializes
// checkouts against the same account. At most one holder per user at any
// instant; distinct users never block each other. Acquisition is bounded:
// exceeding the timeout surfaces as shared.ErrorLockTimeout rather than a
// silent hang.
package userlock

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nitelabs/niteos/internal/shared"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Guard hands out one weighted(1) semaphore per user id. Entries are
// refcounted and removed once the last waiter is gone, so the map does not
// grow with the user population.
type Guard struct {
	mu      sync.Mutex
	timeout time.Duration
	users   map[string]*entry
}

// New creates a Guard whose Acquire waits at most timeout.
func New(timeout time.Duration) *Guard {
	return &Guard{
		timeout: timeout,
		users:   make(map[string]*entry),
	}
}

func (g *Guard) get(userID string) *entry {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.users[userID]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		g.users[userID] = e
	}
	e.refs++
	return e
}

func (g *Guard) put(userID string, e *entry) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(g.users, userID)
	}
}

// Acquire takes the exclusive section for userID, waiting at most the
// configured timeout. On success it returns a release func that must be
// called exactly once; deferring it guarantees release on every exit path,
// including panics. On timeout it returns shared.ErrorLockTimeout; if the
// caller's ctx is canceled first, that error is returned instead.
func (g *Guard) Acquire(ctx context.Context, userID string) (func(), error) {
	e := g.get(userID)

	acquireCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := e.sem.Acquire(acquireCtx, 1); err != nil {
		g.put(userID, e)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, shared.ErrorLockTimeout
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			e.sem.Release(1)
			g.put(userID, e)
		})
	}
	return release, nil
}
