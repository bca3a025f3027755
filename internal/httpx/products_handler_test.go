package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
)

type fakeProductStore struct {
	products  map[string]*inventory.Product
	movements map[string][]inventory.StockMovement
	deleteErr error
}

func (f *fakeProductStore) CreateProduct(_ context.Context, p *inventory.Product) error {
	p.ID = productID
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) GetProduct(_ context.Context, id string) (*inventory.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	return p, nil
}

func (f *fakeProductStore) ListProducts(_ context.Context, _ string) ([]inventory.Product, error) {
	var out []inventory.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProductStore) UpdateProduct(_ context.Context, p *inventory.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return inventory.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductStore) DeleteProduct(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.products[id]; !ok {
		return inventory.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductStore) ListMovements(_ context.Context, productID string) ([]inventory.StockMovement, error) {
	return f.movements[productID], nil
}

type fakeAvailability struct {
	avail int
	err   error
}

func (f *fakeAvailability) Available(context.Context, string) (int, error) {
	return f.avail, f.err
}

func newProductsRouter(h *ProductsHandler) *chi.Mux {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestProductAvailability(t *testing.T) {
	store := &fakeProductStore{products: map[string]*inventory.Product{
		productID: {ID: productID, Name: "Widget", Total: 10},
	}}
	h := &ProductsHandler{Store: store, Ledger: &fakeAvailability{avail: 6}}

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID+"/availability", nil)
	w := httptest.NewRecorder()
	newProductsRouter(h).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		ProductID string `json:"produit_id"`
		Available int    `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, productID, resp.ProductID)
	assert.Equal(t, 6, resp.Available)
}

func TestProductAvailabilityNotFound(t *testing.T) {
	h := &ProductsHandler{
		Store:  &fakeProductStore{products: map[string]*inventory.Product{}},
		Ledger: &fakeAvailability{err: inventory.ErrNotFound},
	}

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID+"/availability", nil)
	w := httptest.NewRecorder()
	newProductsRouter(h).ServeHTTP(w, req)

	// a missing product is 404, never "0 available"
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "available")
}

func TestCreateProductRejectsNegativeTotal(t *testing.T) {
	store := &fakeProductStore{products: map[string]*inventory.Product{}}
	h := &ProductsHandler{Store: store, Ledger: &fakeAvailability{}}

	w := postJSON(t, newProductsRouter(h), "/products", map[string]any{
		"name":  "Widget",
		"total": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.products)
}

func TestDeleteProductWithOrders(t *testing.T) {
	store := &fakeProductStore{
		products:  map[string]*inventory.Product{productID: {ID: productID}},
		deleteErr: inventory.ErrProductReferenced,
	}
	h := &ProductsHandler{Store: store, Ledger: &fakeAvailability{}}

	req := httptest.NewRequest(http.MethodDelete, "/products/"+productID, nil)
	w := httptest.NewRecorder()
	newProductsRouter(h).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProductMovements(t *testing.T) {
	store := &fakeProductStore{
		products: map[string]*inventory.Product{productID: {ID: productID}},
		movements: map[string][]inventory.StockMovement{
			productID: {
				{ID: 1, ProductID: productID, EventType: inventory.EventOrderCreated, Quantity: 4},
				{ID: 2, ProductID: productID, EventType: inventory.EventOrderDeleted, Quantity: -4},
			},
		},
	}
	h := &ProductsHandler{Store: store, Ledger: &fakeAvailability{}}

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID+"/movements", nil)
	w := httptest.NewRecorder()
	newProductsRouter(h).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var ms []inventory.StockMovement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ms))
	require.Len(t, ms, 2)
	assert.Equal(t, -4, ms[1].Quantity)
}
