package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/b8shield/commerce-api/internal/money"
)

// ErrRecordNotFound is returned when no ledger row exists for an order.
var ErrRecordNotFound = errors.New("commission record not found")

// Record is a settled commission ledger row. One row per paid order.
type Record struct {
	ID          string       `json:"id"`
	OrderID     string       `json:"orderId"`
	PaymentRef  string       `json:"paymentRef"`
	AffiliateID string       `json:"affiliateId"`
	CampaignID  string       `json:"campaignId,omitempty"`
	Breakdown   Breakdown    `json:"breakdown"`
	Payout      money.Amount `json:"payout"`
	SettledAt   time.Time    `json:"settledAt"`
}

// Ledger persists settled breakdowns.
type Ledger interface {
	ByOrderID(ctx context.Context, orderID string) (Record, error)
	Insert(ctx context.Context, rec Record) error
}

// Store is the Postgres-backed commission ledger.
type Store struct {
	Pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// ByOrderID loads the ledger row for an order. Settlement uses this as
// its idempotency check.
func (s *Store) ByOrderID(ctx context.Context, orderID string) (Record, error) {
	if s == nil || s.Pool == nil {
		return Record{}, errors.New("commission store not configured")
	}
	const q = `
		SELECT id, order_id, payment_ref, affiliate_id, COALESCE(campaign_id, ''), breakdown, payout, settled_at
		FROM commission_records
		WHERE order_id = $1`
	var rec Record
	err := s.Pool.QueryRow(ctx, q, orderID).Scan(
		&rec.ID, &rec.OrderID, &rec.PaymentRef, &rec.AffiliateID,
		&rec.CampaignID, &rec.Breakdown, &rec.Payout, &rec.SettledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrRecordNotFound
		}
		return Record{}, fmt.Errorf("query commission record: %w", err)
	}
	return rec, nil
}

// Insert writes a ledger row. The unique index on order_id turns a
// duplicate settle into a constraint error instead of a double payout.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	if s == nil || s.Pool == nil {
		return errors.New("commission store not configured")
	}
	const q = `
		INSERT INTO commission_records (id, order_id, payment_ref, affiliate_id, campaign_id, breakdown, payout, settled_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)`
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.Pool.Exec(ctx, q,
		rec.ID, rec.OrderID, rec.PaymentRef, rec.AffiliateID,
		rec.CampaignID, rec.Breakdown, rec.Payout, rec.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("insert commission record: %w", err)
	}
	return nil
}

// ListByAffiliate returns an affiliate's settled rows, newest first.
func (s *Store) ListByAffiliate(ctx context.Context, affiliateID string, limit int) ([]Record, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("commission store not configured")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	const q = `
		SELECT id, order_id, payment_ref, affiliate_id, COALESCE(campaign_id, ''), breakdown, payout, settled_at
		FROM commission_records
		WHERE affiliate_id = $1
		ORDER BY settled_at DESC
		LIMIT $2`
	rows, err := s.Pool.Query(ctx, q, affiliateID, limit)
	if err != nil {
		return nil, fmt.Errorf("list commission records: %w", err)
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.ID, &rec.OrderID, &rec.PaymentRef, &rec.AffiliateID,
			&rec.CampaignID, &rec.Breakdown, &rec.Payout, &rec.SettledAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
