package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// postgres error codes we translate into domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapLookupErr: no rows and malformed uuid text both mean "not there".
func mapLookupErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgInvalidTextRepr {
		return ErrNotFound
	}
	return err
}

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, u *User) error {
	if u.Name == "" || u.Email == "" || u.PasswordHash == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO users(id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if pgCode(err) == pgUniqueViolation {
		return fmt.Errorf("%w: email already registered", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE email=$1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return &u, nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE id=$1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return &u, nil
}

// ---- suppliers ----

func (r *Repo) CreateSupplier(ctx context.Context, s *Supplier) error {
	if s.Name == "" {
		return fmt.Errorf("%w: supplier name required", ErrInvalidInput)
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO suppliers(id, name, email, phone, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Email, s.Phone, s.UserID, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

func (r *Repo) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	var s Supplier
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, email, phone, user_id, created_at
		FROM suppliers WHERE id=$1`, id,
	).Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.UserID, &s.CreatedAt)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return &s, nil
}

func (r *Repo) ListSuppliers(ctx context.Context, userID string) ([]Supplier, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, email, phone, user_id, created_at
		FROM suppliers WHERE user_id=$1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.UserID, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateSupplier(ctx context.Context, s *Supplier) error {
	if s.Name == "" {
		return fmt.Errorf("%w: supplier name required", ErrInvalidInput)
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE suppliers SET name=$2, email=$3, phone=$4 WHERE id=$1`,
		s.ID, s.Name, s.Email, s.Phone,
	)
	if err != nil {
		return mapLookupErr(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteSupplier(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	if err != nil {
		return mapLookupErr(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- products ----

func (r *Repo) CreateProduct(ctx context.Context, p *Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.Total < 0 {
		return fmt.Errorf("%w: total cannot be negative", ErrInvalidInput)
	}
	p.ID = uuid.NewString()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, price_cents, total, user_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.PriceCents, p.Total, p.UserID, p.SupplierID, p.CreatedAt, p.UpdatedAt,
	)
	if pgCode(err) == pgForeignKeyViolation {
		return fmt.Errorf("%w: supplier", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, price_cents, total, user_id, supplier_id, created_at, updated_at
		FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &p.Name, &p.PriceCents, &p.Total, &p.UserID, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return &p, nil
}

func (r *Repo) ListProducts(ctx context.Context, userID string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, price_cents, total, user_id, supplier_id, created_at, updated_at
		FROM products WHERE user_id=$1 ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Total, &p.UserID, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateProduct(ctx context.Context, p *Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if p.Total < 0 {
		return fmt.Errorf("%w: total cannot be negative", ErrInvalidInput)
	}
	err := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$2, price_cents=$3, total=$4, supplier_id=$5, updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		p.ID, p.Name, p.PriceCents, p.Total, p.SupplierID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return mapLookupErr(err)
	}
	return nil
}

// DeleteProduct refuses to delete a product that still has orders: the orders
// table references products with ON DELETE RESTRICT.
func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if pgCode(err) == pgForeignKeyViolation {
		return ErrProductReferenced
	}
	if err != nil {
		return mapLookupErr(err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- audit trail ----

func (r *Repo) RecordMovement(ctx context.Context, m *StockMovement) error {
	if m.RecordedAt.IsZero() {
		m.RecordedAt = time.Now().UTC()
	}
	var orderID any
	if m.OrderID != "" {
		orderID = m.OrderID
	}
	return r.DB.QueryRow(ctx, `
		INSERT INTO stock_movements(product_id, order_id, event_type, quantity, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		m.ProductID, orderID, m.EventType, m.Quantity, m.RecordedAt,
	).Scan(&m.ID)
}

func (r *Repo) ListMovements(ctx context.Context, productID string) ([]StockMovement, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, product_id, COALESCE(order_id::text, ''), event_type, quantity, recorded_at
		FROM stock_movements WHERE product_id=$1 ORDER BY id`, productID)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	defer rows.Close()

	var out []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.OrderID, &m.EventType, &m.Quantity, &m.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
