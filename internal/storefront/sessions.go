package storefront

import (
	"sync"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/notifications"
)

// Session is the presentation state of one shopper.
type Session struct {
	Badge   *BadgeState
	Toaster *notifications.Toaster
}

// Sessions hands out one Session per session id. Its Collaborators method is
// the factory a cart.Registry uses to wire stores to the presentation.
type Sessions struct {
	toastOpts notifications.Options

	mu      sync.Mutex
	entries map[string]*Session
}

func NewSessions(toastOpts notifications.Options) *Sessions {
	return &Sessions{toastOpts: toastOpts, entries: make(map[string]*Session)}
}

// Get returns the session, creating it on first use.
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.entries[id]; ok {
		return sess
	}
	sess := &Session{
		Badge:   &BadgeState{},
		Toaster: notifications.NewToaster(s.toastOpts),
	}
	s.entries[id] = sess
	return sess
}

func (s *Sessions) Collaborators(id string) cart.Collaborators {
	sess := s.Get(id)
	return cart.Collaborators{Badge: sess.Badge, Notifier: sess.Toaster}
}

// Forget drops the presentation state of a session.
func (s *Sessions) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len reports how many sessions hold presentation state.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
