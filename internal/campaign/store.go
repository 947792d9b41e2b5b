package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a campaign id does not exist.
var ErrNotFound = errors.New("campaign not found")

// Source lists the campaigns eligible for matching. Implemented by
// Store; tests inject slices directly.
type Source interface {
	ListActive(ctx context.Context, now time.Time) ([]Campaign, error)
}

// Store is the Postgres-backed campaign repository.
type Store struct {
	Pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

const campaignColumns = `
	id, name, status, code,
	affiliate_targeting, selected_affiliates,
	product_targeting, selected_products,
	affiliate_rate, customer_discount_rate,
	revenue_share, revenue_share_rate,
	start_date, end_date, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.Status, &c.Code,
		&c.AffiliateTargeting, &c.SelectedAffiliates,
		&c.ProductTargeting, &c.SelectedProducts,
		&c.AffiliateRate, &c.CustomerDiscountRate,
		&c.RevenueShare, &c.RevenueShareRate,
		&c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// ListActive returns campaigns whose status is active and whose window
// contains now. The temporal filter repeats in SQL what ActiveAt checks
// in memory so the settlement worker never loads long-dead campaigns.
func (s *Store) ListActive(ctx context.Context, now time.Time) ([]Campaign, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("campaign store not configured")
	}
	q := `SELECT ` + campaignColumns + `
		FROM campaigns
		WHERE status = 'active' AND start_date <= $1 AND end_date >= $1
		ORDER BY affiliate_rate DESC, created_at`
	rows, err := s.Pool.Query(ctx, q, now)
	if err != nil {
		return nil, fmt.Errorf("list active campaigns: %w", err)
	}
	defer rows.Close()
	var out []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// List returns all campaigns, newest first.
func (s *Store) List(ctx context.Context) ([]Campaign, error) {
	if s == nil || s.Pool == nil {
		return nil, errors.New("campaign store not configured")
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()
	var out []Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ByID loads a single campaign.
func (s *Store) ByID(ctx context.Context, id string) (Campaign, error) {
	if s == nil || s.Pool == nil {
		return Campaign{}, errors.New("campaign store not configured")
	}
	row := s.Pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		return Campaign{}, fmt.Errorf("query campaign: %w", err)
	}
	return c, nil
}

// CreateInput captures the admin payload for a new campaign. Campaigns
// start in draft and are activated through a status transition.
type CreateInput struct {
	Name                 string    `json:"name" validate:"required,max=160"`
	Code                 string    `json:"code" validate:"omitempty,min=2,max=32"`
	AffiliateTargeting   string    `json:"affiliateTargeting" validate:"required,oneof=all selected none"`
	SelectedAffiliates   []string  `json:"selectedAffiliates" validate:"omitempty,dive,uuid4"`
	ProductTargeting     string    `json:"productTargeting" validate:"required,oneof=all selected"`
	SelectedProducts     []string  `json:"selectedProducts"`
	AffiliateRate        float64   `json:"affiliateRate" validate:"gte=0,lte=100"`
	CustomerDiscountRate float64   `json:"customerDiscountRate" validate:"gte=0,lte=100"`
	RevenueShare         bool      `json:"revenueShare"`
	RevenueShareRate     float64   `json:"revenueShareRate" validate:"gte=0,lte=100"`
	StartDate            time.Time `json:"startDate" validate:"required"`
	EndDate              time.Time `json:"endDate" validate:"required"`
}

// Create inserts a draft campaign.
func (s *Store) Create(ctx context.Context, in CreateInput) (Campaign, error) {
	if s == nil || s.Pool == nil {
		return Campaign{}, errors.New("campaign store not configured")
	}
	affTargeting, err := ParseAffiliateTargeting(in.AffiliateTargeting)
	if err != nil {
		return Campaign{}, err
	}
	prodTargeting, err := ParseProductTargeting(in.ProductTargeting)
	if err != nil {
		return Campaign{}, err
	}
	if !in.EndDate.After(in.StartDate) {
		return Campaign{}, errors.New("end date must be after start date")
	}
	now := time.Now().UTC()
	c := Campaign{
		ID:                   uuid.NewString(),
		Name:                 strings.TrimSpace(in.Name),
		Status:               StatusDraft,
		Code:                 strings.ToUpper(strings.TrimSpace(in.Code)),
		AffiliateTargeting:   affTargeting,
		SelectedAffiliates:   in.SelectedAffiliates,
		ProductTargeting:     prodTargeting,
		SelectedProducts:     in.SelectedProducts,
		AffiliateRate:        in.AffiliateRate,
		CustomerDiscountRate: in.CustomerDiscountRate,
		RevenueShare:         in.RevenueShare,
		RevenueShareRate:     in.RevenueShareRate,
		StartDate:            in.StartDate.UTC(),
		EndDate:              in.EndDate.UTC(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	const q = `
		INSERT INTO campaigns (
			id, name, status, code,
			affiliate_targeting, selected_affiliates,
			product_targeting, selected_products,
			affiliate_rate, customer_discount_rate,
			revenue_share, revenue_share_rate,
			start_date, end_date, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	_, err = s.Pool.Exec(ctx, q,
		c.ID, c.Name, c.Status, c.Code,
		c.AffiliateTargeting, c.SelectedAffiliates,
		c.ProductTargeting, c.SelectedProducts,
		c.AffiliateRate, c.CustomerDiscountRate,
		c.RevenueShare, c.RevenueShareRate,
		c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return Campaign{}, fmt.Errorf("insert campaign: %w", err)
	}
	return c, nil
}

// Transition moves a campaign to a new lifecycle status, enforcing the
// allowed transitions.
func (s *Store) Transition(ctx context.Context, id string, to Status) (Campaign, error) {
	if s == nil || s.Pool == nil {
		return Campaign{}, errors.New("campaign store not configured")
	}
	current, err := s.ByID(ctx, id)
	if err != nil {
		return Campaign{}, err
	}
	if !CanTransition(current.Status, to) {
		return Campaign{}, fmt.Errorf("cannot transition campaign from %s to %s", current.Status, to)
	}
	tag, err := s.Pool.Exec(ctx,
		`UPDATE campaigns SET status = $2, updated_at = now() WHERE id = $1 AND status = $3`,
		id, to, current.Status)
	if err != nil {
		return Campaign{}, fmt.Errorf("update campaign status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Lost a race with a concurrent transition.
		return Campaign{}, fmt.Errorf("campaign %s changed status concurrently", id)
	}
	current.Status = to
	return current, nil
}
