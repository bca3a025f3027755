package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
)

type SupplierStore interface {
	CreateSupplier(ctx context.Context, s *inventory.Supplier) error
	GetSupplier(ctx context.Context, id string) (*inventory.Supplier, error)
	ListSuppliers(ctx context.Context, userID string) ([]inventory.Supplier, error)
	UpdateSupplier(ctx context.Context, s *inventory.Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
}

type SuppliersHandler struct {
	Store SupplierStore
}

type supplierReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
}

func (h *SuppliersHandler) Register(r chi.Router) {
	r.Get("/suppliers", h.list)
	r.Post("/suppliers", h.create)
	r.Get("/suppliers/{id}", h.get)
	r.Put("/suppliers/{id}", h.update)
	r.Delete("/suppliers/{id}", h.del)
}

func (h *SuppliersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req supplierReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s := &inventory.Supplier{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		UserID: UserID(r.Context()),
	}
	if err := h.Store.CreateSupplier(ctx, s); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *SuppliersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ss, err := h.Store.ListSuppliers(ctx, UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

func (h *SuppliersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	s, err := h.Store.GetSupplier(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SuppliersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req supplierReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s := &inventory.Supplier{
		ID:    chi.URLParam(r, "id"),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := h.Store.UpdateSupplier(ctx, s); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SuppliersHandler) del(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.DeleteSupplier(ctx, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
