package storefront

import "sync"

// Badge is the cart counter shown in the page header.
type Badge struct {
	Count int  `json:"count"`
	Shown bool `json:"shown"`
}

// BadgeState holds the latest badge pushed by a cart store.
type BadgeState struct {
	mu    sync.RWMutex
	badge Badge
}

func (b *BadgeState) Update(count int, shown bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.badge = Badge{Count: count, Shown: shown}
}

func (b *BadgeState) State() Badge {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.badge
}
