package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products map[string]*Product
	orders   []*Order
}

func (f *fakeStore) GetProduct(_ context.Context, id string) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListOrderQuantities(_ context.Context, productID string) ([]OrderQty, error) {
	var out []OrderQty
	for _, o := range f.orders {
		if o.ProductID == productID {
			out = append(out, OrderQty{ID: o.ID, Qty: o.Quantity})
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrder(_ context.Context, id string) (*Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func newLedger(products map[string]*Product, orders ...*Order) *Ledger {
	return &Ledger{Store: &fakeStore{products: products, orders: orders}}
}

func TestEvaluateProposal(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		proposed  int
		credit    int
		orders    []OrderQty
		allowed   bool
		available int
	}{
		{"empty product full quantity", 10, 10, 0, nil, true, 10},
		{"empty product one unit", 10, 1, 0, nil, true, 10},
		{"empty product over total", 10, 11, 0, nil, false, 10},
		{"consumed reduces bound", 10, 6, 0, []OrderQty{{ID: "a", Qty: 4}}, true, 6},
		{"consumed rejects excess", 10, 7, 0, []OrderQty{{ID: "a", Qty: 4}}, false, 6},
		{"zero total rejects anything", 0, 1, 0, nil, false, 0},
		{"overbooked clamps to zero", 10, 1, 0, []OrderQty{{ID: "a", Qty: 13}}, false, 0},
		{"edit credit raises bound", 10, 8, 5, []OrderQty{{ID: "a", Qty: 5}}, true, 10},
		{"edit credit still bounded", 10, 11, 5, []OrderQty{{ID: "a", Qty: 5}}, false, 10},
		{"overbooked edit keeps own credit", 10, 5, 5, []OrderQty{{ID: "a", Qty: 5}, {ID: "b", Qty: 8}}, true, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := EvaluateProposal(tt.total, tt.proposed, tt.credit, tt.orders)
			assert.Equal(t, tt.allowed, ev.Allowed)
			assert.Equal(t, tt.available, ev.Available)
		})
	}
}

func TestEvaluateNoOrders(t *testing.T) {
	l := newLedger(map[string]*Product{"p1": {ID: "p1", Total: 10}})

	for q := 1; q <= 10; q++ {
		ev, err := l.Evaluate(context.Background(), "p1", q, "")
		require.NoError(t, err)
		assert.True(t, ev.Allowed, "quantity %d should fit total 10", q)
	}
	ev, err := l.Evaluate(context.Background(), "p1", 11, "")
	require.NoError(t, err)
	assert.False(t, ev.Allowed)
	assert.Equal(t, 10, ev.Available)
}

func TestEvaluateInvalidQuantity(t *testing.T) {
	l := newLedger(map[string]*Product{"p1": {ID: "p1", Total: 10}})

	for _, q := range []int{0, -3} {
		_, err := l.Evaluate(context.Background(), "p1", q, "")
		require.ErrorIs(t, err, ErrInvalidInput, "quantity %d", q)
	}
}

func TestEvaluateUnknownProduct(t *testing.T) {
	l := newLedger(map[string]*Product{})

	_, err := l.Evaluate(context.Background(), "missing", 1, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEvaluateEditCreditsOwnQuantity(t *testing.T) {
	l := newLedger(
		map[string]*Product{"p1": {ID: "p1", Total: 10}},
		&Order{ID: "o1", ProductID: "p1", Quantity: 5},
	)

	// the order's own 5 units come back: bound is (10-5)+5 = 10
	ev, err := l.Evaluate(context.Background(), "p1", 8, "o1")
	require.NoError(t, err)
	assert.True(t, ev.Allowed)
	assert.Equal(t, 10, ev.Available)

	ev, err = l.Evaluate(context.Background(), "p1", 11, "o1")
	require.NoError(t, err)
	assert.False(t, ev.Allowed)
}

func TestEvaluateEditSwitchingProductGetsNoCredit(t *testing.T) {
	l := newLedger(
		map[string]*Product{
			"p1": {ID: "p1", Total: 10},
			"p2": {ID: "p2", Total: 3},
		},
		&Order{ID: "o1", ProductID: "p1", Quantity: 5},
	)

	// o1's reservation on p1 earns nothing on p2
	ev, err := l.Evaluate(context.Background(), "p2", 4, "o1")
	require.NoError(t, err)
	assert.False(t, ev.Allowed)
	assert.Equal(t, 3, ev.Available)

	ev, err = l.Evaluate(context.Background(), "p2", 3, "o1")
	require.NoError(t, err)
	assert.True(t, ev.Allowed)
}

func TestEvaluateScenario(t *testing.T) {
	// product total=10, order A of 4 exists
	l := newLedger(
		map[string]*Product{"p1": {ID: "p1", Total: 10}},
		&Order{ID: "A", ProductID: "p1", Quantity: 4},
	)

	ev, err := l.Evaluate(context.Background(), "p1", 6, "")
	require.NoError(t, err)
	assert.True(t, ev.Allowed, "4+6=10 fits")

	ev, err = l.Evaluate(context.Background(), "p1", 7, "")
	require.NoError(t, err)
	assert.False(t, ev.Allowed)
	assert.Equal(t, 6, ev.Available)

	// editing A to 9: bound is (10-4)+4 = 10
	ev, err = l.Evaluate(context.Background(), "p1", 9, "A")
	require.NoError(t, err)
	assert.True(t, ev.Allowed)
	assert.Equal(t, 10, ev.Available)
}

func TestAvailable(t *testing.T) {
	l := newLedger(
		map[string]*Product{"p1": {ID: "p1", Total: 10}},
		&Order{ID: "a", ProductID: "p1", Quantity: 4},
		&Order{ID: "b", ProductID: "p1", Quantity: 3},
	)

	avail, err := l.Available(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, avail)

	_, err = l.Available(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestViolationMessage(t *testing.T) {
	assert.Equal(t, "Quantity exceeds available stock (6 available)", ViolationMessage(6))
}
