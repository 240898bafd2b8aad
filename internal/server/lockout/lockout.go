// Package lockout implements the brute-force guard on the login boundary:
// a per-identity failure counter with a timed lock. State lives in memory
// and is owned by whoever constructs the Tracker; the authentication
// service consults it before and after every credential check.
package lockout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mpfc/securebanking/internal/logging"
)

// Outcome reports the effect of recording one authentication failure.
type Outcome int

const (
	// NotLocked: the failure was counted, the identity may try again.
	NotLocked Outcome = iota
	// NowLocked: this failure reached the threshold and set a lock.
	NowLocked
	// StillLocked: an active lock is in place, the failure was not counted.
	StillLocked
)

type entry struct {
	mu          sync.Mutex
	failures    int
	lockedUntil time.Time
	lastSeen    time.Time
	// evicted is set under mu when the sweep removes this entry from the
	// map. Holders of a stale pointer must re-fetch instead of mutating it.
	evicted bool
}

// Tracker keeps lockout state per normalized identity. The map is guarded by
// its own lock; each identity's counter/lock pair is guarded by a per-entry
// mutex, so unrelated logins never serialize on each other.
type Tracker struct {
	mu      sync.RWMutex
	entries map[string]*entry

	maxFailures int
	lockFor     time.Duration

	now func() time.Time
}

// NewTracker builds a Tracker locking an identity for lockFor after
// maxFailures consecutive failures.
func NewTracker(maxFailures int, lockFor time.Duration) *Tracker {
	return &Tracker{
		entries:     make(map[string]*entry),
		maxFailures: maxFailures,
		lockFor:     lockFor,
		now:         time.Now,
	}
}

func normalize(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

func (t *Tracker) get(identity string) (*entry, bool) {
	t.mu.RLock()
	e, ok := t.entries[identity]
	t.mu.RUnlock()
	return e, ok
}

func (t *Tracker) getOrCreate(identity string) *entry {
	if e, ok := t.get(identity); ok {
		return e
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entries[identity]; ok {
		return e
	}
	e := &entry{}
	t.entries[identity] = e
	return e
}

// acquire returns the live entry for identity with its lock held. A pointer
// fetched just before a sweep may refer to an evicted entry; the lookup is
// retried so the mutation lands in the entry currently in the map.
func (t *Tracker) acquire(identity string) *entry {
	for {
		e := t.getOrCreate(identity)
		e.mu.Lock()
		if !e.evicted {
			return e
		}
		e.mu.Unlock()
	}
}

// RecordFailure counts one failed authentication attempt for identity.
// An active lock is left untouched (StillLocked); an expired lock is cleared
// first, so the failure starts a fresh count. Reaching the threshold sets
// lockedUntil and resets the counter to zero.
func (t *Tracker) RecordFailure(identity string) Outcome {
	e := t.acquire(normalize(identity))
	defer e.mu.Unlock()

	now := t.now()
	e.lastSeen = now

	if !e.lockedUntil.IsZero() {
		if now.Before(e.lockedUntil) {
			return StillLocked
		}
		// Lazy expiry: back to a clear state before counting.
		e.lockedUntil = time.Time{}
		e.failures = 0
	}

	e.failures++
	if e.failures >= t.maxFailures {
		e.lockedUntil = now.Add(t.lockFor)
		e.failures = 0
		return NowLocked
	}
	return NotLocked
}

// Reset clears both the counter and any lock for identity. Called on
// successful authentication.
func (t *Tracker) Reset(identity string) {
	e, ok := t.get(normalize(identity))
	if !ok {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted {
		return
	}
	e.failures = 0
	e.lockedUntil = time.Time{}
	e.lastSeen = t.now()
}

// IsLocked reports whether identity is currently locked out. An expired lock
// is cleared on observation without touching the failure counter.
func (t *Tracker) IsLocked(identity string) bool {
	e, ok := t.get(normalize(identity))
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.evicted || e.lockedUntil.IsZero() {
		return false
	}
	if !t.now().Before(e.lockedUntil) {
		e.lockedUntil = time.Time{}
		return false
	}
	return true
}

// LockedUntil returns the lock deadline for identity, if one is set.
func (t *Tracker) LockedUntil(identity string) (time.Time, bool) {
	e, ok := t.get(normalize(identity))
	if !ok {
		return time.Time{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted || e.lockedUntil.IsZero() {
		return time.Time{}, false
	}
	return e.lockedUntil, true
}

// evictIdle removes entries not touched for at least idle and not holding an
// active lock. Returns the number of entries removed.
func (t *Tracker) evictIdle(idle time.Duration) int {
	cutoff := t.now().Add(-idle)

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for id, e := range t.entries {
		e.mu.Lock()
		stale := e.lastSeen.Before(cutoff) && (e.lockedUntil.IsZero() || !t.now().Before(e.lockedUntil))
		if stale {
			e.evicted = true
			delete(t.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// StartEvictionLoop sweeps idle entries on the given interval until ctx is
// done, bounding the memory held by identities that never log in again.
func (t *Tracker) StartEvictionLoop(ctx context.Context, interval, idle time.Duration, log logging.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := t.evictIdle(idle); n > 0 {
					log.Info(ctx, "evicted idle lockout entries", "removed", n)
				}
			}
		}
	}()
}
