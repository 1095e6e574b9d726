package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	lastSeen time.Time
}

// SessionCache stores live scan sessions by id.
type SessionCache[T any] struct {
	mu       sync.RWMutex
	sessions map[string]entry[T]
	now      func() time.Time
}

func NewSessionCache[T any]() *SessionCache[T] {
	return &SessionCache[T]{sessions: make(map[string]entry[T]), now: time.Now}
}

func (c *SessionCache[T]) Add(id string, s T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[id] = entry[T]{value: s, lastSeen: c.now()}
}

// Find returns the session and marks it as recently used.
func (c *SessionCache[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.sessions[id]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastSeen = c.now()
	c.sessions[id] = e
	return e.value, true
}

func (c *SessionCache[T]) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
}

func (c *SessionCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (c *SessionCache[T]) Sweep(maxIdle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := c.now().Add(-maxIdle)
	removed := 0
	for id, e := range c.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(c.sessions, id)
			removed++
		}
	}
	return removed
}

// IDs lists the cached session ids in no particular order.
func (c *SessionCache[T]) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}
