package affiliate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Registry resolves affiliates by their normalized code. Implemented by
// Store in production; tests inject in-memory fakes.
type Registry interface {
	ActiveByCode(ctx context.Context, code string) (Affiliate, error)
}

// Store is the Postgres-backed affiliate registry.
type Store struct {
	Pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// ActiveByCode returns the active affiliate for the given code. The code
// must already be normalized; ErrCodeNotFound is returned for inactive
// or unknown codes.
func (s *Store) ActiveByCode(ctx context.Context, code string) (Affiliate, error) {
	if s == nil || s.Pool == nil {
		return Affiliate{}, errors.New("affiliate store not configured")
	}
	const q = `
		SELECT id, code, name, status, commission_rate, checkout_discount
		FROM affiliates
		WHERE code = $1 AND status = 'active'`
	var a Affiliate
	err := s.Pool.QueryRow(ctx, q, code).Scan(&a.ID, &a.Code, &a.Name, &a.Status, &a.CommissionRate, &a.CheckoutDiscount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Affiliate{}, ErrCodeNotFound
		}
		return Affiliate{}, fmt.Errorf("query affiliate by code: %w", err)
	}
	return a, nil
}

// ByID returns an affiliate regardless of status.
func (s *Store) ByID(ctx context.Context, id string) (Affiliate, error) {
	if s == nil || s.Pool == nil {
		return Affiliate{}, errors.New("affiliate store not configured")
	}
	const q = `
		SELECT id, code, name, status, commission_rate, checkout_discount
		FROM affiliates
		WHERE id = $1`
	var a Affiliate
	err := s.Pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.Code, &a.Name, &a.Status, &a.CommissionRate, &a.CheckoutDiscount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Affiliate{}, ErrCodeNotFound
		}
		return Affiliate{}, fmt.Errorf("query affiliate by id: %w", err)
	}
	return a, nil
}

// CreateInput captures the payload for registering an affiliate.
type CreateInput struct {
	Code             string  `json:"code" validate:"required,min=2,max=32"`
	Name             string  `json:"name" validate:"required,max=120"`
	CommissionRate   float64 `json:"commissionRate" validate:"gte=0,lte=100"`
	CheckoutDiscount float64 `json:"checkoutDiscount" validate:"gte=0,lte=100"`
}

// Create registers a new affiliate with a normalized unique code.
func (s *Store) Create(ctx context.Context, in CreateInput) (Affiliate, error) {
	if s == nil || s.Pool == nil {
		return Affiliate{}, errors.New("affiliate store not configured")
	}
	code := NormalizeCode(in.Code)
	if code == "" {
		return Affiliate{}, ErrInvalidCodeFormat
	}
	a := Affiliate{
		ID:               uuid.NewString(),
		Code:             code,
		Name:             strings.TrimSpace(in.Name),
		Status:           StatusActive,
		CommissionRate:   in.CommissionRate,
		CheckoutDiscount: in.CheckoutDiscount,
	}
	const q = `
		INSERT INTO affiliates (id, code, name, status, commission_rate, checkout_discount)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := s.Pool.Exec(ctx, q, a.ID, a.Code, a.Name, a.Status, a.CommissionRate, a.CheckoutDiscount); err != nil {
		return Affiliate{}, fmt.Errorf("insert affiliate: %w", err)
	}
	return a, nil
}

// SetStatus activates or deactivates an affiliate.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	if s == nil || s.Pool == nil {
		return errors.New("affiliate store not configured")
	}
	if status != StatusActive && status != StatusInactive {
		return fmt.Errorf("unknown affiliate status %q", status)
	}
	tag, err := s.Pool.Exec(ctx, `UPDATE affiliates SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update affiliate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCodeNotFound
	}
	return nil
}

// List returns all affiliates ordered by code.
func (s *Store) List(ctx context.Context) ([]Affiliate, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("affiliate store not configured")
	}
	rows, err := s.Pool.Query(ctx, `
		SELECT id, code, name, status, commission_rate, checkout_discount
		FROM affiliates
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list affiliates: %w", err)
	}
	defer rows.Close()
	var out []Affiliate
	for rows.Next() {
		var a Affiliate
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Status, &a.CommissionRate, &a.CheckoutDiscount); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
