// Package session keeps per-visitor state in memory. Nothing here survives a
// restart; a visitor whose entry was evicted simply starts over.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"authorstore/internal/metrics"
)

// CookiePrefix starts the name of the cookie carrying the visitor id. Each
// registry appends its own name so services behind one host do not clobber
// each other's ids.
const CookiePrefix = "sid_"

// Registry maps keys to lazily created values and drops entries that have not
// been touched for ttl.
type Registry[T any] struct {
	name    string
	ttl     time.Duration
	factory func(key string) T
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry[T]
}

type entry[T any] struct {
	value      T
	lastAccess time.Time
}

// NewRegistry builds a registry. name labels the active-sessions gauge.
func NewRegistry[T any](name string, ttl time.Duration, factory func(key string) T) *Registry[T] {
	return &Registry[T]{
		name:    name,
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
		entries: make(map[string]*entry[T]),
	}
}

// Get returns the value for key, creating it on first use.
func (r *Registry[T]) Get(key string) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		e = &entry[T]{value: r.factory(key)}
		r.entries[key] = e
		metrics.ActiveSessions.WithLabelValues(r.name).Set(float64(len(r.entries)))
	}
	e.lastAccess = r.now()
	return e.value
}

// CookieName is the cookie FromRequest reads and issues.
func (r *Registry[T]) CookieName() string {
	return CookiePrefix + r.name
}

// lookup returns the value for key only if it already exists.
func (r *Registry[T]) lookup(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	e.lastAccess = r.now()
	return e.value, true
}

// FromRequest resolves the visitor from their cookie. Ids are only ever minted
// here: a missing, malformed or unknown id gets a fresh one.
func (r *Registry[T]) FromRequest(w http.ResponseWriter, req *http.Request) T {
	if c, err := req.Cookie(r.CookieName()); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			if v, ok := r.lookup(id.String()); ok {
				return v
			}
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     r.CookieName(),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return r.Get(id)
}

func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Run evicts idle entries until ctx is cancelled.
func (r *Registry[T]) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictIdle()
		}
	}
}

func (r *Registry[T]) evictIdle() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	for key, e := range r.entries {
		if e.lastAccess.Before(cutoff) {
			delete(r.entries, key)
		}
	}
	metrics.ActiveSessions.WithLabelValues(r.name).Set(float64(len(r.entries)))
}
