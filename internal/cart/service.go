package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/b8shield/commerce-api/internal/affiliate"
	"github.com/b8shield/commerce-api/internal/money"
	"github.com/b8shield/commerce-api/internal/obs"
	"github.com/b8shield/commerce-api/internal/pricing"
	"github.com/b8shield/commerce-api/internal/shipping"
)

// Service owns cart mutations and total computation.
type Service struct {
	Sessions *SessionStore
	Codes    affiliate.Registry
	Rates    shipping.Rates
	VATRate  float64
	Logger   zerolog.Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// view computes the totals for a state. The discount amount re-derives
// from the stored percentage against the current subtotal.
func (s *Service) view(st State) View {
	discount := money.Amount(0)
	if st.hasCode() {
		discount = money.RoundUpCurrency(money.Percent(st.Subtotal(), st.DiscountPercentage))
	}
	totals := pricing.Compute(st.Lines, st.ShippingCountry, discount, s.Rates, s.VATRate)
	if totals.Clamped {
		s.Logger.Warn().
			Str("cart_id", st.ID).
			Float64("discount", discount).
			Float64("subtotal", totals.Subtotal).
			Msg("cart total floored at zero")
		if obs.NegativeTotalClampTotal != nil {
			obs.NegativeTotalClampTotal.Inc()
		}
	}
	return View{State: st, Totals: totals}
}

// Create opens a new empty cart for the given shipping country.
func (s *Service) Create(ctx context.Context, country string) (View, error) {
	if s.Sessions == nil {
		return View{}, errors.New("cart service not configured")
	}
	now := s.now()
	st := State{
		ID:              uuid.NewString(),
		ShippingCountry: country,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Sessions.Put(ctx, st); err != nil {
		return View{}, err
	}
	return s.view(st), nil
}

// Get returns a cart with computed totals.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	if s.Sessions == nil {
		return View{}, errors.New("cart service not configured")
	}
	st, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(st), nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*State) error) (View, error) {
	if s.Sessions == nil {
		return View{}, errors.New("cart service not configured")
	}
	st, err := s.Sessions.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := fn(&st); err != nil {
		return View{}, err
	}
	st.UpdatedAt = s.now()
	if err := s.Sessions.Put(ctx, st); err != nil {
		return View{}, err
	}
	return s.view(st), nil
}

// AddLine adds a product line, merging quantity into an existing line
// for the same product.
func (s *Service) AddLine(ctx context.Context, id string, line pricing.CartLine) (View, error) {
	return s.mutate(ctx, id, func(st *State) error {
		if line.ProductID == "" || line.Qty <= 0 {
			return errors.New("line needs a product id and a positive quantity")
		}
		for i := range st.Lines {
			if st.Lines[i].ProductID == line.ProductID {
				st.Lines[i].Qty += line.Qty
				st.Lines[i].UnitPrice = line.UnitPrice
				st.Lines[i].WeightGrams = line.WeightGrams
				return nil
			}
		}
		st.Lines = append(st.Lines, line)
		return nil
	})
}

// UpdateQty sets a line's quantity; zero removes the line.
func (s *Service) UpdateQty(ctx context.Context, id, productID string, qty int) (View, error) {
	return s.mutate(ctx, id, func(st *State) error {
		if qty < 0 {
			return errors.New("quantity cannot be negative")
		}
		for i := range st.Lines {
			if st.Lines[i].ProductID != productID {
				continue
			}
			if qty == 0 {
				st.Lines = append(st.Lines[:i], st.Lines[i+1:]...)
			} else {
				st.Lines[i].Qty = qty
			}
			return nil
		}
		return errors.New("product not in cart")
	})
}

// RemoveLine drops a product from the cart.
func (s *Service) RemoveLine(ctx context.Context, id, productID string) (View, error) {
	return s.UpdateQty(ctx, id, productID, 0)
}

// SetCountry changes the shipping destination.
func (s *Service) SetCountry(ctx context.Context, id, country string) (View, error) {
	return s.mutate(ctx, id, func(st *State) error {
		if country == "" {
			return errors.New("country is required")
		}
		st.ShippingCountry = country
		return nil
	})
}

// ApplyCode resolves an affiliate discount code and attaches it to the
// cart. Applying a second code replaces the first.
func (s *Service) ApplyCode(ctx context.Context, id, rawCode, clickID string) (View, error) {
	view, err := s.mutate(ctx, id, func(st *State) error {
		code := affiliate.NormalizeCode(rawCode)
		if code == "" {
			return affiliate.ErrInvalidCodeFormat
		}
		if s.Codes == nil {
			return errors.New("cart service not configured")
		}
		aff, err := s.Codes.ActiveByCode(ctx, code)
		if err != nil {
			return err
		}
		d := affiliate.ResolveDiscount(aff, st.Subtotal(), clickID)
		st.DiscountCode = aff.Code
		st.DiscountPercentage = d.Percentage
		st.AffiliateClickID = d.ClickID
		return nil
	})
	s.countApply(err)
	return view, err
}

// RemoveCode clears any applied discount code.
func (s *Service) RemoveCode(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(st *State) error {
		st.DiscountCode = ""
		st.DiscountPercentage = 0
		st.AffiliateClickID = ""
		return nil
	})
}

// Clear empties a cart's lines, keeping the session alive.
func (s *Service) Clear(ctx context.Context, id string) (View, error) {
	return s.mutate(ctx, id, func(st *State) error {
		st.Lines = nil
		return nil
	})
}

// Delete removes the session entirely, used after checkout.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.Sessions == nil {
		return errors.New("cart service not configured")
	}
	return s.Sessions.Delete(ctx, id)
}

func (s *Service) countApply(err error) {
	if obs.DiscountCodeApplyTotal == nil {
		return
	}
	switch {
	case err == nil:
		obs.DiscountCodeApplyTotal.WithLabelValues("applied").Inc()
	case errors.Is(err, affiliate.ErrInvalidCodeFormat):
		obs.DiscountCodeApplyTotal.WithLabelValues("invalid_format").Inc()
	case errors.Is(err, affiliate.ErrCodeNotFound):
		obs.DiscountCodeApplyTotal.WithLabelValues("not_found").Inc()
	case errors.Is(err, ErrNotFound):
		obs.DiscountCodeApplyTotal.WithLabelValues("cart_missing").Inc()
	default:
		obs.DiscountCodeApplyTotal.WithLabelValues("error").Inc()
	}
}
