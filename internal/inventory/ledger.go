package inventory

import (
	"context"
	"fmt"
)

// OrderQty is the slice element the ledger sums over: one order's id and its
// reserved quantity against some product.
type OrderQty struct {
	ID  string `json:"id"`
	Qty int    `json:"quantite"`
}

// Evaluation is the ledger's answer for one proposed (product, quantity) pair.
// Available is the bound the proposal was compared against, so callers can
// render an exact message; a rejection is a normal result, not an error.
type Evaluation struct {
	Allowed   bool `json:"allowed"`
	Available int  `json:"available"`
}

// Reserved sums the quantities of every order currently against a product.
func Reserved(orders []OrderQty) int {
	n := 0
	for _, o := range orders {
		n += o.Qty
	}
	return n
}

// AvailableStock is how much of the declared total is still orderable.
// Overbooked products clamp to zero instead of going negative.
func AvailableStock(total int, orders []OrderQty) int {
	if avail := total - Reserved(orders); avail > 0 {
		return avail
	}
	return 0
}

// EvaluateProposal is the pure arithmetic of the stock rule.
//
// orders must be ALL orders referencing the product, including the one being
// edited (when there is one). editCredit is that order's original quantity
// when its product is unchanged by the edit, zero otherwise: since the order's
// own reservation is still inside the sum, adding its quantity back on top of
// the clamped availability credits it exactly once.
func EvaluateProposal(total, proposed, editCredit int, orders []OrderQty) Evaluation {
	bound := AvailableStock(total, orders) + editCredit
	return Evaluation{Allowed: proposed <= bound, Available: bound}
}

// ViolationMessage is the user-facing text for a rejected proposal.
func ViolationMessage(available int) string {
	return fmt.Sprintf("Quantity exceeds available stock (%d available)", available)
}

// LedgerStore is what the ledger needs from persistence.
type LedgerStore interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListOrderQuantities(ctx context.Context, productID string) ([]OrderQty, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
}

// Ledger decides whether a proposed order quantity fits the product's declared
// total, given every other order already against it. It is a read-then-decide
// check over a snapshot; the write path in Repo re-runs the same arithmetic
// under a row lock.
type Ledger struct {
	Store LedgerStore
}

// Evaluate checks proposed against productID's availability. editingOrderID
// is empty for a create; for an update it names the order being modified so
// its own reservation is credited back when the product is unchanged.
//
// A missing product is ErrNotFound, a non-positive quantity ErrInvalidInput;
// neither is ever reported as "0 available".
func (l *Ledger) Evaluate(ctx context.Context, productID string, proposed int, editingOrderID string) (Evaluation, error) {
	if proposed <= 0 {
		return Evaluation{}, fmt.Errorf("%w: quantite must be a positive integer", ErrInvalidInput)
	}

	p, err := l.Store.GetProduct(ctx, productID)
	if err != nil {
		return Evaluation{}, err
	}

	orders, err := l.Store.ListOrderQuantities(ctx, productID)
	if err != nil {
		return Evaluation{}, err
	}

	credit := 0
	if editingOrderID != "" {
		prev, err := l.Store.GetOrder(ctx, editingOrderID)
		if err != nil {
			return Evaluation{}, err
		}
		// moving the order to another product earns no credit there
		if prev.ProductID == productID {
			credit = prev.Quantity
		}
	}

	return EvaluateProposal(p.Total, proposed, credit, orders), nil
}

// Available is the read-only availability figure for one product.
func (l *Ledger) Available(ctx context.Context, productID string) (int, error) {
	p, err := l.Store.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	orders, err := l.Store.ListOrderQuantities(ctx, productID)
	if err != nil {
		return 0, err
	}
	return AvailableStock(p.Total, orders), nil
}
