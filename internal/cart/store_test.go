package cart

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/errors"
)

const testKey = "mfg-cart"

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

type recordingBadge struct {
	mu      sync.Mutex
	updates []badgeUpdate
}

type badgeUpdate struct {
	count int
	shown bool
}

func (b *recordingBadge) Update(count int, shown bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, badgeUpdate{count: count, shown: shown})
}

func (b *recordingBadge) last() badgeUpdate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.updates[len(b.updates)-1]
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
}

type failingStorage struct {
	*MemoryStorage
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.MemoryStorage.Load(ctx, key)
}

func (f *failingStorage) Save(ctx context.Context, key string, payload []byte) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryStorage.Save(ctx, key, payload)
}

func newTestStore(t *testing.T, storage Storage) (*Store, *recordingBadge, *recordingNotifier) {
	t.Helper()
	badge := &recordingBadge{}
	notifier := &recordingNotifier{}
	s, err := NewStore(context.Background(), StoreParams{
		Key:      testKey,
		Storage:  storage,
		Badge:    badge,
		Notifier: notifier,
	})
	require.NoError(t, err)
	return s, badge, notifier
}

func TestNewStoreRequiresKeyAndStorage(t *testing.T) {
	_, err := NewStore(context.Background(), StoreParams{Storage: NewMemoryStorage()})
	assert.Error(t, err)

	_, err = NewStore(context.Background(), StoreParams{Key: testKey})
	assert.Error(t, err)
}

func TestAddSameProductTwice(t *testing.T) {
	ctx := context.Background()
	s, badge, notifier := newTestStore(t, NewMemoryStorage())

	rosary := Product{ID: "A", Name: "Rosário de Madeira", Price: price(t, "29.90")}
	require.NoError(t, s.Add(ctx, rosary))
	require.NoError(t, s.Add(ctx, rosary))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
	assert.Equal(t, 2, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(price(t, "59.80")), "total %s", s.TotalPrice())

	assert.Equal(t, badgeUpdate{count: 2, shown: true}, badge.last())
	assert.Equal(t, []string{
		"Rosário de Madeira adicionado ao carrinho!",
		"Rosário de Madeira adicionado ao carrinho!",
	}, notifier.messages)
}

func TestRepeatedAddsCountEveryCall(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())

	for n := 1; n <= 25; n++ {
		require.NoError(t, s.Add(ctx, Product{ID: "terco", Name: "Terço", Price: price(t, "12.5")}))
		assert.Equal(t, n, s.TotalItems())
		assert.Len(t, s.Items(), 1)
	}
}

func TestUpdateQuantityScenario(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())

	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: price(t, "10.00")}))
	require.NoError(t, s.Add(ctx, Product{ID: "B", Name: "B", Price: price(t, "5.00")}))
	require.NoError(t, s.UpdateQuantity(ctx, "A", 3))

	assert.Equal(t, 4, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(price(t, "35.00")), "total %s", s.TotalPrice())
}

func TestUpdateQuantityClampsToOne(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())
	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: price(t, "1")}))

	for _, q := range []int{0, -1, -100} {
		require.NoError(t, s.UpdateQuantity(ctx, "A", q))
		items := s.Items()
		require.Len(t, items, 1, "clamping must never remove the item")
		assert.Equal(t, 1, items[0].Qty, "qty for input %d", q)
	}
}

func TestUpdateQuantityUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{MemoryStorage: NewMemoryStorage()}
	s, _, _ := newTestStore(t, storage)

	require.NoError(t, s.UpdateQuantity(ctx, "missing", 4))
	require.NoError(t, s.ChangeQuantity(ctx, "missing", 1))
	assert.Equal(t, 0, storage.saves, "unknown ids must not persist")
	assert.Equal(t, 0, s.TotalItems())
}

func TestChangeQuantity(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())
	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: price(t, "2")}))

	require.NoError(t, s.ChangeQuantity(ctx, "A", 1))
	require.NoError(t, s.ChangeQuantity(ctx, "A", 1))
	assert.Equal(t, 3, s.TotalItems())

	require.NoError(t, s.ChangeQuantity(ctx, "A", -5))
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, badge, _ := newTestStore(t, NewMemoryStorage())
	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: price(t, "3")}))
	require.NoError(t, s.Add(ctx, Product{ID: "B", Name: "B", Price: price(t, "4")}))

	require.NoError(t, s.Remove(ctx, "A"))
	require.NoError(t, s.Remove(ctx, "A"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].ID)
	assert.Equal(t, badgeUpdate{count: 1, shown: true}, badge.last())
}

func TestRemovePreservesOrderOfRemaining(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())
	for _, id := range []string{"A", "B", "C", "D"} {
		require.NoError(t, s.Add(ctx, Product{ID: id, Name: id, Price: price(t, "1")}))
	}
	snapshotBefore := s.Items()

	require.NoError(t, s.Remove(ctx, "B"))

	ids := []string{}
	for _, item := range s.Items() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"A", "C", "D"}, ids)
	assert.Equal(t, "B", snapshotBefore[1].ID, "earlier copies must not be mutated")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	s, badge, _ := newTestStore(t, storage)
	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: price(t, "9.99")}))

	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, 0, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())
	assert.Equal(t, badgeUpdate{count: 0, shown: false}, badge.last())

	raw, err := storage.Load(ctx, testKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestAddRejectsInvalidProduct(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{MemoryStorage: NewMemoryStorage()}
	s, _, notifier := newTestStore(t, storage)

	cases := []Product{
		{ID: "", Name: "x", Price: price(t, "1")},
		{ID: "  ", Name: "x", Price: price(t, "1")},
		{ID: "A", Name: "", Price: price(t, "1")},
		{ID: "A", Name: "x", Price: price(t, "-0.01")},
	}
	for _, p := range cases {
		err := s.Add(ctx, p)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "product %+v: %v", p, err)
	}
	assert.Equal(t, 0, storage.saves)
	assert.Empty(t, notifier.messages)

	require.NoError(t, s.Add(ctx, Product{ID: "free", Name: "Santinho", Price: decimal.Zero}))
	assert.Equal(t, 1, s.TotalItems())
}

func TestSaveFailureSurfacesAndSkipsToast(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), saveErr: errors.New("quota exceeded")}
	s, badge, notifier := newTestStore(t, storage)

	err := s.Add(ctx, Product{ID: "A", Name: "A", Price: price(t, "1")})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	assert.ErrorIs(t, err, storage.saveErr)

	assert.Empty(t, notifier.messages, "toast only follows a persisted add")
	assert.Equal(t, 1, s.TotalItems(), "in-memory mutation stands")
	assert.Equal(t, badgeUpdate{count: 1, shown: true}, badge.last())
}

func TestInitializeFailsSoft(t *testing.T) {
	ctx := context.Background()

	cases := map[string]string{
		"not json":        `{{{`,
		"object":          `{"id":"A"}`,
		"missing id":      `[{"name":"x","price":1,"qty":1}]`,
		"zero qty":        `[{"id":"A","name":"x","price":1,"qty":0}]`,
		"negative price":  `[{"id":"A","name":"x","price":-1,"qty":1}]`,
		"duplicate ids":   `[{"id":"A","name":"x","price":1,"qty":1},{"id":"A","name":"x","price":1,"qty":1}]`,
		"price not a num": `[{"id":"A","name":"x","price":"abc","qty":1}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Save(ctx, testKey, []byte(payload)))

			s, badge, _ := newTestStore(t, storage)
			assert.Equal(t, 0, s.TotalItems())
			assert.Equal(t, badgeUpdate{count: 0, shown: false}, badge.last())
		})
	}


	t.Run("null", func(t *testing.T) {
		storage := NewMemoryStorage()
		require.NoError(t, storage.Save(ctx, testKey, []byte(`null`)))
		s, _, _ := newTestStore(t, storage)
		assert.Empty(t, s.Items())
	})
}

func TestInitializeLoadsPersistedCartAndBadge(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	require.NoError(t, storage.Save(ctx, testKey, []byte(`[{"id":"A","name":"Terço","price":29.9,"qty":2},{"id":"B","name":"Vela","price":"5.5","qty":1}]`)))

	s, badge, _ := newTestStore(t, storage)
	assert.Equal(t, 3, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(price(t, "65.30")), "total %s", s.TotalPrice())
	assert.Equal(t, badgeUpdate{count: 3, shown: true}, badge.last())
}

func TestPersistRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	first, _, _ := newTestStore(t, storage)

	require.NoError(t, first.Add(ctx, Product{ID: "A", Name: "Rosário de Madeira", Price: price(t, "29.90")}))
	require.NoError(t, first.Add(ctx, Product{ID: "B", Name: "Medalha", Price: price(t, "0.10")}))
	require.NoError(t, first.Add(ctx, Product{ID: "C", Name: "Bíblia", Price: price(t, "89.00")}))
	require.NoError(t, first.UpdateQuantity(ctx, "B", 7))
	require.NoError(t, first.Remove(ctx, "C"))

	restarted, _, _ := newTestStore(t, storage)

	before, after := first.Snapshot(), restarted.Snapshot()
	assertSameItems(t, before.Items, after.Items)
	assert.Equal(t, before.TotalItems, after.TotalItems)
	assert.True(t, before.TotalPrice.Equal(after.TotalPrice))
}

// assertSameItems compares line items with prices compared by value, since a
// reloaded decimal may carry a different exponent.
func assertSameItems(t *testing.T, want, got []LineItem) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Qty, got[i].Qty)
		assert.True(t, want[i].Price.Equal(got[i].Price), "price of %s: want %s, got %s", want[i].ID, want[i].Price, got[i].Price)
	}
}

func TestLoadFailureIsReturnedNotEmptied(t *testing.T) {
	ctx := context.Background()
	storage := &failingStorage{MemoryStorage: NewMemoryStorage()}
	require.NoError(t, storage.MemoryStorage.Save(ctx, testKey, []byte(`[{"id":"A","name":"Terço","price":29.9,"qty":5}]`)))

	storage.loadErr = errors.New("unreachable")
	rec := newCountingRecorder()
	_, err := NewStore(ctx, StoreParams{Key: testKey, Storage: storage, Metrics: rec})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, 1, rec.failures["load"])
	assert.Zero(t, storage.saves)

	storage.loadErr = nil
	s, _, _ := newTestStore(t, storage)
	assert.Equal(t, 5, s.TotalItems())
}

func TestTotalsMatchRecomputationUnderRandomOperations(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(6841))
	ids := []string{"A", "B", "C", "D", "E"}
	prices := map[string]decimal.Decimal{}
	for _, id := range ids {
		prices[id] = decimal.New(int64(rng.Intn(100000)), -2)
	}

	s, _, _ := newTestStore(t, NewMemoryStorage())
	model := map[string]int{}

	for step := 0; step < 2000; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(5) {
		case 0, 1:
			require.NoError(t, s.Add(ctx, Product{ID: id, Name: id, Price: prices[id]}))
			model[id]++
		case 2:
			require.NoError(t, s.Remove(ctx, id))
			delete(model, id)
		case 3:
			q := rng.Intn(11) - 3
			require.NoError(t, s.UpdateQuantity(ctx, id, q))
			if _, ok := model[id]; ok {
				model[id] = max(1, q)
			}
		case 4:
			if rng.Intn(50) == 0 {
				require.NoError(t, s.Clear(ctx))
				model = map[string]int{}
			}
		}

		wantItems := 0
		wantPrice := decimal.Zero
		for mid, qty := range model {
			wantItems += qty
			wantPrice = wantPrice.Add(prices[mid].Mul(decimal.NewFromInt(int64(qty))))
		}
		snap := s.Snapshot()
		require.Equal(t, wantItems, snap.TotalItems, "step %d", step)
		require.True(t, wantPrice.Equal(snap.TotalPrice), "step %d: want %s got %s", step, wantPrice, snap.TotalPrice)
		require.Len(t, snap.Items, len(model), "step %d", step)
		for _, item := range snap.Items {
			require.GreaterOrEqual(t, item.Qty, 1)
		}
	}
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestStore(t, NewMemoryStorage())
	unit := price(t, "1.10")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: unit}))
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, s.TotalItems())
	assert.True(t, s.TotalPrice().Equal(price(t, "55")))
}

type countingRecorder struct {
	nopRecorder
	mu        sync.Mutex
	mutations map[string]int
	checkouts map[string]int
	failures  map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{mutations: map[string]int{}, checkouts: map[string]int{}, failures: map[string]int{}}
}

func (c *countingRecorder) IncMutation(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutations[op]++
}

func (c *countingRecorder) IncCheckout(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkouts[outcome]++
}

func (c *countingRecorder) IncStorageFailure(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[op]++
}

func TestMetricsRecorded(t *testing.T) {
	ctx := context.Background()
	rec := newCountingRecorder()
	s, err := NewStore(ctx, StoreParams{Key: testKey, Storage: NewMemoryStorage(), Metrics: rec})
	require.NoError(t, err)

	require.NoError(t, s.Add(ctx, Product{ID: "A", Name: "A", Price: price(t, "1")}))
	require.NoError(t, s.UpdateQuantity(ctx, "A", 2))
	require.NoError(t, s.Remove(ctx, "A"))
	require.NoError(t, s.Clear(ctx))
	_, err = s.Checkout("5511999999999")
	require.ErrorIs(t, err, ErrEmptyCart)

	assert.Equal(t, map[string]int{"add": 1, "update": 1, "remove": 1, "clear": 1}, rec.mutations)
	assert.Equal(t, map[string]int{"empty": 1}, rec.checkouts)
	assert.Empty(t, rec.failures)
}
