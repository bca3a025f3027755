package inventory

import "time"

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Total      int       `json:"total"` // declared stock; never decremented by order writes
	UserID     string    `json:"user_id"`
	SupplierID *string   `json:"supplier_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Order keeps the legacy wire names (quantite, produit_id) the front end
// already speaks.
type Order struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"produit_id"`
	Quantity     int       `json:"quantite"`
	CustomerName string    `json:"customer_name,omitempty"`
	Status       Status    `json:"status"` // lihat status.go
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// StockMovement is one row of the audit trail written by the audit consumer.
type StockMovement struct {
	ID         int64     `json:"id"`
	ProductID  string    `json:"produit_id"`
	OrderID    string    `json:"order_id,omitempty"`
	EventType  string    `json:"event_type"`
	Quantity   int       `json:"quantite"`
	RecordedAt time.Time `json:"recorded_at"`
}
