package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ariefcatur/go-inventory-api.git/internal/inventory"
	kafkax "github.com/ariefcatur/go-inventory-api.git/internal/kafka"
	"github.com/ariefcatur/go-inventory-api.git/internal/metrics"
	"github.com/ariefcatur/go-inventory-api.git/internal/redisx"
)

type OrderStore interface {
	CreateOrder(ctx context.Context, o *inventory.Order) (inventory.Evaluation, error)
	UpdateOrder(ctx context.Context, o *inventory.Order) (inventory.Evaluation, error)
	GetOrder(ctx context.Context, id string) (*inventory.Order, error)
	ListOrders(ctx context.Context, userID string) ([]inventory.Order, error)
	DeleteOrder(ctx context.Context, id string) (*inventory.Order, error)
}

type Publisher interface {
	Publish(topic string, key, value []byte, headers ...kafkago.Header)
}

// Evaluator is the read-only stock rule, used by the dry-run endpoint.
type Evaluator interface {
	Evaluate(ctx context.Context, productID string, proposed int, editingOrderID string) (inventory.Evaluation, error)
}

type OrdersHandler struct {
	Store    OrderStore
	Ledger   Evaluator
	Producer Publisher
	Redis    *redis.Client
	Service  string
}

type orderReq struct {
	ProductID    string `json:"produit_id" validate:"required,uuid"`
	Quantity     int    `json:"quantite" validate:"required,gt=0"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status" validate:"omitempty,oneof=Pending Processing Shipped Delivered Cancelled"`
}

type evaluateReq struct {
	ProductID      string `json:"produit_id" validate:"required,uuid"`
	Quantity       int    `json:"quantite" validate:"required,gt=0"`
	EditingOrderID string `json:"editing_order_id" validate:"omitempty,uuid"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.list)
	r.Post("/orders", h.create)
	r.Post("/orders/evaluate", h.evaluate)
	r.Get("/orders/{id}", h.get)
	r.Put("/orders/{id}", h.update)
	r.Delete("/orders/{id}", h.del)
}

// evaluate is a dry run: would this (product, quantity) pair be accepted?
// Nothing is written and no event is published.
func (h *OrdersHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ev, err := h.Ledger.Evaluate(ctx, req.ProductID, req.Quantity, req.EditingOrderID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req orderReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := inventory.Status(req.Status)
	if status == "" {
		status = inventory.StatusPending
	}
	o := &inventory.Order{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		CustomerName: req.CustomerName,
		Status:       status,
		UserID:       UserID(r.Context()),
	}
	ev, err := h.Store.CreateOrder(ctx, o)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ev.Allowed {
		h.rejected(r, o, ev)
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     inventory.ViolationMessage(ev.Available),
			"available": ev.Available,
		})
		return
	}

	metrics.LedgerDecisions.WithLabelValues("allowed").Inc()
	metrics.OrderWrites.WithLabelValues("create").Inc()
	h.publish(r, inventory.EventOrderCreated, inventory.TopicOrderCreated, o)
	h.invalidate(ctx, o.ProductID)
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) update(w http.ResponseWriter, r *http.Request) {
	var req orderReq
	if err := decodeValid(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := chi.URLParam(r, "id")
	prev, err := h.Store.GetOrder(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	o := &inventory.Order{
		ID:           id,
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		CustomerName: req.CustomerName,
		Status:       inventory.Status(req.Status),
		UserID:       prev.UserID,
		CreatedAt:    prev.CreatedAt,
	}
	ev, err := h.Store.UpdateOrder(ctx, o)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ev.Allowed {
		h.rejected(r, o, ev)
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     inventory.ViolationMessage(ev.Available),
			"available": ev.Available,
		})
		return
	}

	metrics.LedgerDecisions.WithLabelValues("allowed").Inc()
	metrics.OrderWrites.WithLabelValues("update").Inc()
	h.publish(r, inventory.EventOrderUpdated, inventory.TopicOrderUpdated, o)
	h.invalidate(ctx, o.ProductID)
	if prev.ProductID != o.ProductID {
		h.invalidate(ctx, prev.ProductID)
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.Store.ListOrders(ctx, UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) del(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.DeleteOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.OrderWrites.WithLabelValues("delete").Inc()
	h.publish(r, inventory.EventOrderDeleted, inventory.TopicOrderDeleted, o)
	h.invalidate(ctx, o.ProductID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) publish(r *http.Request, eventType, topic string, o *inventory.Order) {
	ev := inventory.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(inventory.OrderEventPayload{
			OrderID:   o.ID,
			ProductID: o.ProductID,
			Quantity:  o.Quantity,
			Status:    o.Status,
			UserID:    o.UserID,
		}),
	}
	h.Producer.Publish(topic, inventory.PartitionKey(o.ProductID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) rejected(r *http.Request, o *inventory.Order, ev inventory.Evaluation) {
	metrics.LedgerDecisions.WithLabelValues("rejected").Inc()
	env := inventory.Envelope{
		EventID:      uuid.NewString(),
		EventType:    inventory.EventStockRejected,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     h.Service,
		TraceID:      r.Header.Get("X-Request-Id"),
		Payload: kafkax.MustMarshal(inventory.StockRejectedPayload{
			ProductID: o.ProductID,
			Requested: o.Quantity,
			Available: ev.Available,
			UserID:    o.UserID,
		}),
	}
	h.Producer.Publish(inventory.TopicStockRejected, inventory.PartitionKey(o.ProductID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(inventory.EventStockRejected)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) invalidate(ctx context.Context, productID string) {
	if h.Redis != nil {
		_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyAvailability, productID)).Err()
	}
}
