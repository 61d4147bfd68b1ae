package orders

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

type Repo struct{ DB DB }

// Create persists the order and returns its id. Idempotent via idempotency_key:
// when the key already exists the stored order id is returned with existed=true.
// Concurrent creates with one key race on the unique index, not on a prior read.
func (r *Repo) Create(ctx context.Context, o Order) (orderID string, existed bool, err error) {
	var idem any
	if o.IdempotencyKey != "" {
		idem = o.IdempotencyKey
	}
	err = r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, order_number, idempotency_key, user_id, user_email, items, billing, payment,
		                   subtotal, shipping, tax, total, status, payment_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (idempotency_key) DO NOTHING
		RETURNING id`,
		uuid.NewString(), o.OrderNumber, idem, o.UserID, o.UserEmail, o.Items, o.Billing, o.Payment,
		o.Pricing.Subtotal.String(), o.Pricing.Shipping.String(), o.Pricing.Tax.String(), o.Pricing.Total.String(),
		string(o.Status), string(o.PaymentStatus), o.CreatedAt,
	).Scan(&orderID)
	if err == nil {
		return orderID, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) || o.IdempotencyKey == "" {
		return "", false, fmt.Errorf("insert order: %w", err)
	}

	// conflict: the key already names an order
	err = r.DB.QueryRow(ctx, `SELECT id FROM orders WHERE idempotency_key=$1`, o.IdempotencyKey).Scan(&orderID)
	if err != nil {
		return "", false, fmt.Errorf("load order by idempotency key: %w", err)
	}
	return orderID, true, nil
}

const orderColumns = `id, order_number, user_id, user_email, items, billing, payment,
	subtotal::text, shipping::text, tax::text, total::text, status, payment_status, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o                              Order
		subtotal, shipping, tax, total string
		status, payStatus              string
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.UserEmail, &o.Items, &o.Billing, &o.Payment,
		&subtotal, &shipping, &tax, &total, &status, &payStatus, &o.CreatedAt)
	if err != nil {
		return Order{}, err
	}
	o.Status, o.PaymentStatus = Status(status), PaymentStatus(payStatus)
	o.Pricing, err = parseBreakdown(subtotal, shipping, tax, total)
	return o, err
}

func parseBreakdown(subtotal, shipping, tax, total string) (pricing.Breakdown, error) {
	var b pricing.Breakdown
	for _, f := range []struct {
		dst *decimal.Decimal
		src string
	}{{&b.Subtotal, subtotal}, {&b.Shipping, shipping}, {&b.Tax, tax}, {&b.Total, total}} {
		d, err := decimal.NewFromString(f.src)
		if err != nil {
			return pricing.Breakdown{}, fmt.Errorf("decode pricing: %w", err)
		}
		*f.dst = d
	}
	return b, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// ListByUser returns the user's orders, most recent first.
func (r *Repo) ListByUser(ctx context.Context, userID string, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1
	                              ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves an order along the status graph. Snapshots are untouched.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var from string
	if err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&from); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	if !CanTransition(Status(from), to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, string(to)); err != nil {
		return Order{}, err
	}
	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return Order{}, err
	}
	return o, tx.Commit(ctx)
}
