package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

// Collaborators are the per-session presentation hooks handed to a Store.
type Collaborators struct {
	Badge    Badge
	Notifier Notifier
}

// RegistryParams configures a Registry. Namespace and Storage are required.
type RegistryParams struct {
	Namespace     string
	Storage       Storage
	Metrics       Recorder
	Logger        *logger.Logger
	LinkBaseURL   string
	Collaborators func(session string) Collaborators

	// OnEvict is called after a session's store is dropped from memory.
	OnEvict func(session string)
	Now     func() time.Time
}

// Registry owns one Store per browser session, each persisted under
// StorageKey(namespace, session). Stores are loaded on first use and dropped
// once idle.
type Registry struct {
	params RegistryParams

	mu     sync.Mutex
	stores map[string]*registryEntry
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

func NewRegistry(params RegistryParams) (*Registry, error) {
	if strings.TrimSpace(params.Namespace) == "" {
		return nil, fmt.Errorf("cart namespace required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Registry{params: params, stores: make(map[string]*registryEntry)}, nil
}

// Store returns the session's cart, loading it from storage the first time.
// A failed load is returned and not cached.
func (r *Registry) Store(ctx context.Context, session string) (*Store, error) {
	if s, ok := r.cached(session); ok {
		return s, nil
	}

	var collab Collaborators
	if r.params.Collaborators != nil {
		collab = r.params.Collaborators(session)
	}
	// The load outlives the request so a client disconnect cannot fail it.
	s, err := NewStore(context.WithoutCancel(ctx), StoreParams{
		Key:         StorageKey(r.params.Namespace, session),
		Storage:     r.params.Storage,
		Badge:       collab.Badge,
		Notifier:    collab.Notifier,
		Metrics:     r.params.Metrics,
		Logger:      r.params.Logger,
		LinkBaseURL: r.params.LinkBaseURL,
	})
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.stores[session]; ok {
		e.lastSeen = r.params.Now()
		return e.store, nil
	}
	r.stores[session] = &registryEntry{store: s, lastSeen: r.params.Now()}
	return s, nil
}

func (r *Registry) cached(session string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stores[session]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.params.Now()
	return e.store, true
}

// Forget drops the in-memory store of a session; the persisted cart stays.
func (r *Registry) Forget(session string) {
	r.mu.Lock()
	_, ok := r.stores[session]
	delete(r.stores, session)
	r.mu.Unlock()
	if ok && r.params.OnEvict != nil {
		r.params.OnEvict(session)
	}
}

// EvictIdle forgets every session not used within idle and returns their ids.
func (r *Registry) EvictIdle(idle time.Duration) []string {
	cutoff := r.params.Now().Add(-idle)

	r.mu.Lock()
	var evicted []string
	for session, e := range r.stores {
		if e.lastSeen.Before(cutoff) {
			delete(r.stores, session)
			evicted = append(evicted, session)
		}
	}
	r.mu.Unlock()

	if r.params.OnEvict != nil {
		for _, session := range evicted {
			r.params.OnEvict(session)
		}
	}
	return evicted
}

// RunJanitor evicts idle sessions every interval until ctx is done.
func (r *Registry) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 || idle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := r.EvictIdle(idle); len(evicted) > 0 {
				r.params.Logger.Debug(r.params.Logger.WithField(ctx, "evicted", len(evicted)), "cart.sessions_evicted")
			}
		}
	}
}

// Len reports how many session stores are loaded.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Ping checks the shared storage when it supports health checks.
func (r *Registry) Ping(ctx context.Context) error {
	if p, ok := r.params.Storage.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
