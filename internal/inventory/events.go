package inventory

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated  = "OrderCreated"
	EventOrderUpdated  = "OrderUpdated"
	EventOrderDeleted  = "OrderDeleted"
	EventStockRejected = "StockRejected"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "inventory-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payload tipe per event ----

type OrderEventPayload struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"produit_id"`
	Quantity  int    `json:"quantite"`
	Status    Status `json:"status"`
	UserID    string `json:"user_id"`
}

type StockRejectedPayload struct {
	ProductID string `json:"produit_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	UserID    string `json:"user_id"`
}
