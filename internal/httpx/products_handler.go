package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
	"github.com/ariefcatur/go-inventory-api.git/internal/redisx"
)

type ProductStore interface {
	CreateProduct(ctx context.Context, p *inventory.Product) error
	GetProduct(ctx context.Context, id string) (*inventory.Product, error)
	ListProducts(ctx context.Context, userID string) ([]inventory.Product, error)
	UpdateProduct(ctx context.Context, p *inventory.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListMovements(ctx context.Context, productID string) ([]inventory.StockMovement, error)
}

type AvailabilityReader interface {
	Available(ctx context.Context, productID string) (int, error)
}

type ProductsHandler struct {
	Store  ProductStore
	Ledger AvailabilityReader
	Redis  *redis.Client
}

type productReq struct {
	Name       string  `json:"name" validate:"required"`
	PriceCents int     `json:"price_cents" validate:"gte=0"`
	Total      int     `json:"total" validate:"gte=0"`
	SupplierID *string `json:"supplier_id" validate:"omitempty,uuid"`
}

type availabilityResp struct {
	ProductID string `json:"produit_id"`
	Available int    `json:"available"`
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Get("/products", h.list)
	r.Post("/products", h.create)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.del)
	r.Get("/products/{id}/availability", h.availability)
	r.Get("/products/{id}/movements", h.movements)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p := &inventory.Product{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Total:      req.Total,
		SupplierID: req.SupplierID,
		UserID:     UserID(r.Context()),
	}
	if err := h.Store.CreateProduct(ctx, p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Store.ListProducts(ctx, UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Store.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req productReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	p := &inventory.Product{
		ID:         id,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Total:      req.Total,
		SupplierID: req.SupplierID,
	}
	if err := h.Store.UpdateProduct(ctx, p); err != nil {
		writeDomainError(w, err)
		return
	}
	// a changed total changes availability
	h.invalidate(ctx, id)
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) del(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteProduct(ctx, id); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidate(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

// availability is the read-only ledger figure, cache-aside in Redis.
func (h *ProductsHandler) availability(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	key := fmt.Sprintf(redisx.KeyAvailability, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	avail, err := h.Ledger.Available(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := availabilityResp{ProductID: id, Available: avail}
	if h.Redis != nil {
		b, _ := json.Marshal(resp)
		_ = h.Redis.Set(ctx, key, b, redisx.TTLAvailability).Err()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProductsHandler) movements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ms, err := h.Store.ListMovements(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (h *ProductsHandler) invalidate(ctx context.Context, productID string) {
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyAvailability, productID)).Err()
	}
}
