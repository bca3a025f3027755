package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Order write path. Create/Update re-run the ledger arithmetic inside a
// transaction holding FOR UPDATE on the product row, so two concurrent writes
// against the same product cannot both pass the check. The read-only
// Ledger.Evaluate stays lock-free.

func (r *Repo) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	var customer *string
	err := r.DB.QueryRow(ctx, `
		SELECT id, produit_id, quantite, customer_name, status, user_id, created_at
		FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.ProductID, &o.Quantity, &customer, &o.Status, &o.UserID, &o.CreatedAt)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	if customer != nil {
		o.CustomerName = *customer
	}
	return &o, nil
}

func (r *Repo) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, produit_id, quantite, customer_name, status, user_id, created_at
		FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var customer *string
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Quantity, &customer, &o.Status, &o.UserID, &o.CreatedAt); err != nil {
			return nil, err
		}
		if customer != nil {
			o.CustomerName = *customer
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListOrderQuantities feeds the ledger: every order against one product.
func (r *Repo) ListOrderQuantities(ctx context.Context, productID string) ([]OrderQty, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, quantite FROM orders WHERE produit_id=$1`, productID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	defer rows.Close()

	var out []OrderQty
	for rows.Next() {
		var q OrderQty
		if err := rows.Scan(&q.ID, &q.Qty); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func listQuantitiesTx(ctx context.Context, tx pgx.Tx, productID string) ([]OrderQty, error) {
	rows, err := tx.Query(ctx, `SELECT id, quantite FROM orders WHERE produit_id=$1`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderQty
	for rows.Next() {
		var q OrderQty
		if err := rows.Scan(&q.ID, &q.Qty); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// lockProductTotal locks the product row and returns its declared total.
func lockProductTotal(ctx context.Context, tx pgx.Tx, productID string) (int, error) {
	var total int
	err := tx.QueryRow(ctx, `SELECT total FROM products WHERE id=$1 FOR UPDATE`, productID).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgInvalidTextRepr {
			return 0, fmt.Errorf("%w: product", ErrNotFound)
		}
		return 0, err
	}
	return total, nil
}

// CreateOrder inserts the order iff the proposed quantity fits what is still
// orderable. A rejection comes back as (Evaluation{Allowed:false}, nil) with
// nothing committed.
func (r *Repo) CreateOrder(ctx context.Context, o *Order) (Evaluation, error) {
	if o.Quantity <= 0 {
		return Evaluation{}, fmt.Errorf("%w: quantite must be a positive integer", ErrInvalidInput)
	}
	if o.Status == "" {
		o.Status = StatusPending
	}
	if !o.Status.Valid() {
		return Evaluation{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, o.Status)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Evaluation{}, err
	}
	defer tx.Rollback(ctx)

	total, err := lockProductTotal(ctx, tx, o.ProductID)
	if err != nil {
		return Evaluation{}, err
	}
	siblings, err := listQuantitiesTx(ctx, tx, o.ProductID)
	if err != nil {
		return Evaluation{}, err
	}

	ev := EvaluateProposal(total, o.Quantity, 0, siblings)
	if !ev.Allowed {
		return ev, nil // rollback via defer
	}

	o.ID = uuid.NewString()
	o.CreatedAt = time.Now().UTC()
	var customer any
	if o.CustomerName != "" {
		customer = o.CustomerName
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, produit_id, quantite, customer_name, status, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.ProductID, o.Quantity, customer, o.Status, o.UserID, o.CreatedAt,
	)
	if err != nil {
		return Evaluation{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

// UpdateOrder rewrites quantity, product, customer and status. When the
// product is unchanged the order's own reservation is credited back before
// the comparison; moving to another product is judged purely against that
// product's availability.
func (r *Repo) UpdateOrder(ctx context.Context, o *Order) (Evaluation, error) {
	if o.Quantity <= 0 {
		return Evaluation{}, fmt.Errorf("%w: quantite must be a positive integer", ErrInvalidInput)
	}
	if o.Status != "" && !o.Status.Valid() {
		return Evaluation{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, o.Status)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Evaluation{}, err
	}
	defer tx.Rollback(ctx)

	var prevProduct string
	var prevQty int
	var prevStatus Status
	err = tx.QueryRow(ctx, `SELECT produit_id, quantite, status FROM orders WHERE id=$1 FOR UPDATE`, o.ID).
		Scan(&prevProduct, &prevQty, &prevStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgInvalidTextRepr {
			return Evaluation{}, fmt.Errorf("%w: order", ErrNotFound)
		}
		return Evaluation{}, err
	}
	if o.Status == "" {
		o.Status = prevStatus
	}

	total, err := lockProductTotal(ctx, tx, o.ProductID)
	if err != nil {
		return Evaluation{}, err
	}
	siblings, err := listQuantitiesTx(ctx, tx, o.ProductID)
	if err != nil {
		return Evaluation{}, err
	}

	credit := 0
	if prevProduct == o.ProductID {
		credit = prevQty
	}
	ev := EvaluateProposal(total, o.Quantity, credit, siblings)
	if !ev.Allowed {
		return ev, nil
	}

	var customer any
	if o.CustomerName != "" {
		customer = o.CustomerName
	}
	_, err = tx.Exec(ctx, `
		UPDATE orders SET produit_id=$2, quantite=$3, customer_name=$4, status=$5
		WHERE id=$1`,
		o.ID, o.ProductID, o.Quantity, customer, o.Status,
	)
	if err != nil {
		return Evaluation{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Evaluation{}, err
	}
	return ev, nil
}

func (r *Repo) DeleteOrder(ctx context.Context, id string) (*Order, error) {
	o, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return o, nil
}
