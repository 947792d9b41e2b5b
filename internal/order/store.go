// Package order snapshots carts into orders and drives them through
// payment to settlement.
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/b8shield/commerce-api/internal/commission"
	"github.com/b8shield/commerce-api/internal/money"
	"github.com/b8shield/commerce-api/internal/pricing"
)

var (
	// ErrNotFound is returned when an order id does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrNotPaid is returned when settlement asks for an order that has
	// not been marked paid.
	ErrNotPaid = errors.New("order not paid")
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusPaid           Status = "paid"
	StatusCancelled      Status = "cancelled"
)

// Order is a priced snapshot of a cart at checkout. Totals are frozen
// here; later cart or campaign edits never reprice a placed order.
type Order struct {
	ID              string             `json:"id"`
	CartID          string             `json:"cartId"`
	Status          Status             `json:"status"`
	PaymentRef      string             `json:"paymentRef,omitempty"`
	Items           []pricing.CartLine `json:"items"`
	ShippingCountry string             `json:"shippingCountry"`

	Subtotal money.Amount `json:"subtotal"`
	Shipping money.Amount `json:"shipping"`
	Discount money.Amount `json:"discount"`
	Total    money.Amount `json:"total"`
	VAT      money.Amount `json:"vat"`

	DiscountCode     string `json:"discountCode,omitempty"`
	AffiliateClickID string `json:"affiliateClickId,omitempty"`

	CreatedAt time.Time  `json:"createdAt"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`
}

// Store is the Postgres-backed order repository.
type Store struct {
	Pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

const orderColumns = `
	id, cart_id, status, COALESCE(payment_ref, ''), items, shipping_country,
	subtotal, shipping, discount, total, vat,
	COALESCE(discount_code, ''), COALESCE(affiliate_click_id, ''),
	created_at, paid_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CartID, &o.Status, &o.PaymentRef, &o.Items, &o.ShippingCountry,
		&o.Subtotal, &o.Shipping, &o.Discount, &o.Total, &o.VAT,
		&o.DiscountCode, &o.AffiliateClickID,
		&o.CreatedAt, &o.PaidAt,
	)
	return o, err
}

// Insert writes a new order.
func (s *Store) Insert(ctx context.Context, o Order) error {
	if s == nil || s.Pool == nil {
		return errors.New("order store not configured")
	}
	const q = `
		INSERT INTO orders (
			id, cart_id, status, payment_ref, items, shipping_country,
			subtotal, shipping, discount, total, vat,
			discount_code, affiliate_click_id, created_at, paid_at
		) VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8,$9,$10,$11,NULLIF($12,''),NULLIF($13,''),$14,$15)`
	_, err := s.Pool.Exec(ctx, q,
		o.ID, o.CartID, o.Status, o.PaymentRef, o.Items, o.ShippingCountry,
		o.Subtotal, o.Shipping, o.Discount, o.Total, o.VAT,
		o.DiscountCode, o.AffiliateClickID, o.CreatedAt, o.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// ByID loads an order.
func (s *Store) ByID(ctx context.Context, id string) (Order, error) {
	if s == nil || s.Pool == nil {
		return Order{}, errors.New("order store not configured")
	}
	row := s.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, fmt.Errorf("query order: %w", err)
	}
	return o, nil
}

// MarkPaid transitions a pending order to paid, recording the payment
// reference. Returns ErrNotFound when the order is missing or already
// left the pending state.
func (s *Store) MarkPaid(ctx context.Context, id, paymentRef string, paidAt time.Time) (Order, error) {
	if s == nil || s.Pool == nil {
		return Order{}, errors.New("order store not configured")
	}
	tag, err := s.Pool.Exec(ctx,
		`UPDATE orders SET status = $2, payment_ref = $3, paid_at = $4
		 WHERE id = $1 AND status = $5`,
		id, StatusPaid, paymentRef, paidAt, StatusPendingPayment)
	if err != nil {
		return Order{}, fmt.Errorf("mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either missing or not pending; disambiguate for the caller.
		existing, err := s.ByID(ctx, id)
		if err != nil {
			return Order{}, err
		}
		if existing.Status == StatusPaid {
			return existing, nil
		}
		return Order{}, fmt.Errorf("order %s is %s, cannot mark paid", id, existing.Status)
	}
	return s.ByID(ctx, id)
}

// PaidOrder adapts a paid order to the shape settlement needs.
func (s *Store) PaidOrder(ctx context.Context, id string) (commission.PaidOrder, error) {
	o, err := s.ByID(ctx, id)
	if err != nil {
		return commission.PaidOrder{}, err
	}
	if o.Status != StatusPaid {
		return commission.PaidOrder{}, fmt.Errorf("order %s: %w", id, ErrNotPaid)
	}
	productIDs := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	return commission.PaidOrder{
		ID:               o.ID,
		PaymentRef:       o.PaymentRef,
		AffiliateCode:    o.DiscountCode,
		AffiliateClickID: o.AffiliateClickID,
		Total:            o.Total,
		Shipping:         o.Shipping,
		DiscountAmount:   o.Discount,
		ProductIDs:       productIDs,
	}, nil
}
