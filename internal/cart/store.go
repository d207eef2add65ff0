package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
	opClear  = "clear"
	opLoad   = "load"
	opSave   = "save"
)

// StoreParams wires a Store to its storage and collaborators. Only Key and
// Storage are required.
type StoreParams struct {
	Key      string
	Storage  Storage
	Badge    Badge
	Notifier Notifier
	Metrics  Recorder
	Logger   *logger.Logger
	// LinkBaseURL is the messaging deep-link host, DefaultLinkBaseURL when empty.
	LinkBaseURL string
}

// Store is the authoritative cart: line items in insertion order, mirrored to
// Storage after every mutation.
type Store struct {
	mu sync.Mutex

	key         string
	storage     Storage
	badge       Badge
	notifier    Notifier
	metrics     Recorder
	logg        *logger.Logger
	linkBaseURL string

	items []LineItem
}

// Snapshot is a copy of the cart state with its derived totals.
type Snapshot struct {
	Items      []LineItem
	TotalItems int
	TotalPrice decimal.Decimal
}

// NewStore builds a store and loads whatever is persisted under params.Key.
// A missing or malformed value starts an empty cart; a failed read is
// returned so the saved cart is never overwritten by an empty one.
func NewStore(ctx context.Context, params StoreParams) (*Store, error) {
	if strings.TrimSpace(params.Key) == "" {
		return nil, fmt.Errorf("cart storage key required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}

	s := &Store{
		key:         params.Key,
		storage:     params.Storage,
		badge:       params.Badge,
		notifier:    params.Notifier,
		metrics:     params.Metrics,
		logg:        params.Logger,
		linkBaseURL: params.LinkBaseURL,
	}
	if s.badge == nil {
		s.badge = nopBadge{}
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.linkBaseURL == "" {
		s.linkBaseURL = DefaultLinkBaseURL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.items = items
	s.refreshBadge()
	return s, nil
}

func (s *Store) load(ctx context.Context) ([]LineItem, error) {
	ctx = s.logg.WithField(ctx, "cart_key", s.key)

	start := time.Now()
	raw, err := s.storage.Load(ctx, s.key)
	s.metrics.ObserveStorage(opLoad, time.Since(start))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.metrics.IncStorageFailure(opLoad)
		s.logg.Error(ctx, "cart.load_failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	items, err := decodeItems(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart.load_malformed")
		return nil, nil
	}
	return items, nil
}

// Key returns the storage key the cart is persisted under.
func (s *Store) Key() string {
	return s.key
}

// Add puts one unit of product in the cart: the quantity of an existing line
// is incremented, otherwise a line with quantity 1 is appended.
func (s *Store) Add(ctx context.Context, product Product) error {
	product = product.normalized()
	if err := product.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.items, product.ID); i >= 0 {
		s.items[i].Qty++
	} else {
		s.items = append(s.items, LineItem{
			ID:    product.ID,
			Name:  product.Name,
			Price: product.Price,
			Qty:   1,
		})
	}
	err := s.commit(ctx, opAdd)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, fmt.Sprintf("%s adicionado ao carrinho!", product.Name))
	return nil
}

// Remove deletes the line with the given id. Unknown ids are not an error;
// the cart is persisted either way.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.items, id); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	return s.commit(ctx, opRemove)
}

// UpdateQuantity sets the quantity of a line to max(1, qty). Unknown ids are
// ignored.
func (s *Store) UpdateQuantity(ctx context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateQuantityLocked(ctx, id, func(int) int { return qty })
}

// ChangeQuantity moves the quantity of a line by delta, clamped at 1. It
// never removes the line.
func (s *Store) ChangeQuantity(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateQuantityLocked(ctx, id, func(current int) int { return current + delta })
}

func (s *Store) updateQuantityLocked(ctx context.Context, id string, next func(current int) int) error {
	i := indexOf(s.items, id)
	if i < 0 {
		return nil
	}
	s.items[i].Qty = max(1, next(s.items[i].Qty))
	return s.commit(ctx, opUpdate)
}

// Clear empties the cart and persists the empty state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.commit(ctx, opClear)
}

// TotalItems returns the sum of quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// TotalPrice returns the sum of price × quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.items...)
}

// Snapshot returns the items and totals observed under a single lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:      append([]LineItem(nil), s.items...),
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
	}
}

// commit persists the current items and refreshes the badge. Must be called
// with s.mu held. A failed write leaves the in-memory cart as mutated.
func (s *Store) commit(ctx context.Context, op string) error {
	s.metrics.IncMutation(op)
	defer s.refreshBadge()

	payload, err := encodeItems(s.items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}

	start := time.Now()
	err = s.storage.Save(ctx, s.key, payload)
	s.metrics.ObserveStorage(opSave, time.Since(start))
	if err != nil {
		s.metrics.IncStorageFailure(opSave)
		ctx = s.logg.WithFields(ctx, map[string]any{"cart_key": s.key, "op": op})
		s.logg.Error(ctx, "cart.save_failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *Store) refreshBadge() {
	count := totalItems(s.items)
	s.badge.Update(count, count > 0)
}
