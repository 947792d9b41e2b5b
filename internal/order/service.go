package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/b8shield/commerce-api/internal/cart"
)

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	Get(ctx context.Context, id string) (cart.View, error)
	Delete(ctx context.Context, id string) error
}

// Orders is the persistence surface the service needs. Implemented by
// Store.
type Orders interface {
	Insert(ctx context.Context, o Order) error
	ByID(ctx context.Context, id string) (Order, error)
	MarkPaid(ctx context.Context, id, paymentRef string, paidAt time.Time) (Order, error)
}

// Service places orders from carts.
type Service struct {
	Carts  Carts
	Orders Orders
	Logger zerolog.Logger
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Checkout freezes a cart into a pending order and removes the cart
// session.
func (s *Service) Checkout(ctx context.Context, cartID string) (Order, error) {
	if s.Carts == nil || s.Orders == nil {
		return Order{}, errors.New("order service not configured")
	}
	view, err := s.Carts.Get(ctx, cartID)
	if err != nil {
		return Order{}, err
	}
	if len(view.Lines) == 0 {
		return Order{}, errors.New("cannot checkout an empty cart")
	}
	o := Order{
		ID:               uuid.NewString(),
		CartID:           view.ID,
		Status:           StatusPendingPayment,
		Items:            view.Lines,
		ShippingCountry:  view.ShippingCountry,
		Subtotal:         view.Totals.Subtotal,
		Shipping:         view.Totals.Shipping,
		Discount:         view.Totals.Discount,
		Total:            view.Totals.Total,
		VAT:              view.Totals.VAT,
		DiscountCode:     view.DiscountCode,
		AffiliateClickID: view.AffiliateClickID,
		CreatedAt:        s.now(),
	}
	if err := s.Orders.Insert(ctx, o); err != nil {
		return Order{}, err
	}
	if err := s.Carts.Delete(ctx, cartID); err != nil {
		// The order is placed; a stale cart session is only noise.
		s.Logger.Warn().Err(err).Str("cart_id", cartID).Msg("could not delete cart after checkout")
	}
	s.Logger.Info().
		Str("order_id", o.ID).
		Str("cart_id", cartID).
		Float64("total", o.Total).
		Str("discount_code", o.DiscountCode).
		Msg("order placed")
	return o, nil
}

// Get loads an order by id.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	if s.Orders == nil {
		return Order{}, errors.New("order service not configured")
	}
	return s.Orders.ByID(ctx, id)
}

// MarkPaid records a successful payment.
func (s *Service) MarkPaid(ctx context.Context, id, paymentRef string) (Order, error) {
	if s.Orders == nil {
		return Order{}, errors.New("order service not configured")
	}
	if paymentRef == "" {
		return Order{}, fmt.Errorf("payment reference is required")
	}
	return s.Orders.MarkPaid(ctx, id, paymentRef, s.now())
}
