// Package store persists pricing models, grant budgets and rate profiles in
// SQLite. Inputs are stored as JSON columns next to a totals snapshot taken at
// save time, so listings never need to recompute a roll-up.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/govsure/costroll/internal/budget"
	"github.com/govsure/costroll/internal/lineitem"
	"github.com/govsure/costroll/internal/pricing"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store wraps a migrated SQLite database.
type Store struct {
	db *sql.DB
}

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// PricingRecord is a saved pricing model.
type PricingRecord struct {
	ID        int64          `json:"id"`
	Model     pricing.Model  `json:"model"`
	Totals    pricing.Totals `json:"totals"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// PricingListItem is a row of the pricing model listing.
type PricingListItem struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Total     float64 `json:"total"`
	UpdatedAt string  `json:"updatedAt"`
}

// BudgetRecord is a saved grant budget.
type BudgetRecord struct {
	Budget    budget.Budget `json:"budget"`
	Total     float64       `json:"total"`
	CreatedAt string        `json:"createdAt"`
	UpdatedAt string        `json:"updatedAt"`
}

// RateProfile is a named set of pricing rates users can start from.
type RateProfile struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Settings pricing.Settings `json:"settings"`
	Notes    string           `json:"notes"`
}

// CreatePricingModel inserts m and returns its id.
func (s *Store) CreatePricingModel(ctx context.Context, m pricing.Model) (int64, error) {
	settingsJSON, itemsJSON, totalsJSON, err := encodePricing(m)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pricing_models (title, settings_json, items_json, totals_json)
		VALUES (?, ?, ?, ?)
	`, m.Title, settingsJSON, itemsJSON, totalsJSON)
	if err != nil {
		return 0, fmt.Errorf("insert pricing model: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read pricing model id: %w", err)
	}
	return id, nil
}

// UpdatePricingModel replaces the model stored under id.
func (s *Store) UpdatePricingModel(ctx context.Context, id int64, m pricing.Model) error {
	settingsJSON, itemsJSON, totalsJSON, err := encodePricing(m)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE pricing_models
		SET
			title = ?,
			settings_json = ?,
			items_json = ?,
			totals_json = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, m.Title, settingsJSON, itemsJSON, totalsJSON, id)
	if err != nil {
		return fmt.Errorf("update pricing model: %w", err)
	}
	return requireAffected(res, "update pricing model")
}

// GetPricingModel loads the model stored under id.
func (s *Store) GetPricingModel(ctx context.Context, id int64) (PricingRecord, error) {
	var (
		rec                                  PricingRecord
		settingsJSON, itemsJSON, totalsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, settings_json, items_json, totals_json, created_at, updated_at
		FROM pricing_models
		WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Model.Title, &settingsJSON, &itemsJSON, &totalsJSON, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return PricingRecord{}, ErrNotFound
	}
	if err != nil {
		return PricingRecord{}, fmt.Errorf("query pricing model: %w", err)
	}

	if err := json.Unmarshal([]byte(settingsJSON), &rec.Model.Settings); err != nil {
		return PricingRecord{}, fmt.Errorf("decode pricing settings: %w", err)
	}
	if rec.Model.Items, err = decodeItems(itemsJSON); err != nil {
		return PricingRecord{}, err
	}
	if err := json.Unmarshal([]byte(totalsJSON), &rec.Totals); err != nil {
		return PricingRecord{}, fmt.Errorf("decode pricing totals: %w", err)
	}
	return rec, nil
}

// ListPricingModels returns models whose title contains query, newest first.
func (s *Store) ListPricingModels(ctx context.Context, query string) ([]PricingListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, totals_json, updated_at
		FROM pricing_models
		WHERE (? = '' OR title LIKE ?)
		ORDER BY datetime(updated_at) DESC, id DESC
	`, query, search)
	if err != nil {
		return nil, fmt.Errorf("query pricing models: %w", err)
	}
	defer rows.Close()

	items := make([]PricingListItem, 0)
	for rows.Next() {
		var (
			item       PricingListItem
			totalsJSON string
		)
		if err := rows.Scan(&item.ID, &item.Title, &totalsJSON, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pricing model: %w", err)
		}
		item.Total = extractTotal(totalsJSON)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing models: %w", err)
	}
	return items, nil
}

// DeletePricingModel removes the model stored under id.
func (s *Store) DeletePricingModel(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pricing_models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pricing model: %w", err)
	}
	return requireAffected(res, "delete pricing model")
}

// SaveBudget upserts the budget for b.GrantID.
func (s *Store) SaveBudget(ctx context.Context, b budget.Budget) error {
	itemsJSON, err := json.Marshal(b.Items.Normalize())
	if err != nil {
		return fmt.Errorf("encode budget items: %w", err)
	}
	totalsJSON, err := json.Marshal(budget.Calculate(b))
	if err != nil {
		return fmt.Errorf("encode budget totals: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO budgets (grant_id, indirect_cost_rate, indirect_cost_base, narrative, items_json, totals_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(grant_id) DO UPDATE SET
			indirect_cost_rate = excluded.indirect_cost_rate,
			indirect_cost_base = excluded.indirect_cost_base,
			narrative = excluded.narrative,
			items_json = excluded.items_json,
			totals_json = excluded.totals_json,
			updated_at = CURRENT_TIMESTAMP
	`, b.GrantID, b.IndirectCostRate, b.IndirectCostBase, b.Narrative, string(itemsJSON), string(totalsJSON))
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// GetBudget loads the budget for grantID.
func (s *Store) GetBudget(ctx context.Context, grantID string) (BudgetRecord, error) {
	var (
		rec                   BudgetRecord
		itemsJSON, totalsJSON string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT grant_id, indirect_cost_rate, indirect_cost_base, narrative, items_json, totals_json, created_at, updated_at
		FROM budgets
		WHERE grant_id = ?
	`, grantID).Scan(
		&rec.Budget.GrantID,
		&rec.Budget.IndirectCostRate,
		&rec.Budget.IndirectCostBase,
		&rec.Budget.Narrative,
		&itemsJSON,
		&totalsJSON,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return BudgetRecord{}, ErrNotFound
	}
	if err != nil {
		return BudgetRecord{}, fmt.Errorf("query budget: %w", err)
	}

	if rec.Budget.Items, err = decodeItems(itemsJSON); err != nil {
		return BudgetRecord{}, err
	}
	rec.Total = extractTotal(totalsJSON)
	return rec, nil
}

// ListRateProfiles returns every rate profile ordered by name.
func (s *Store) ListRateProfiles(ctx context.Context) ([]RateProfile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, fringe_rate, overhead_rate, ganda_rate, fee_percentage, notes
		FROM rate_profiles
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query rate profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]RateProfile, 0)
	for rows.Next() {
		var p RateProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.Settings.FringeRate, &p.Settings.OverheadRate, &p.Settings.GandARate, &p.Settings.FeePercentage, &p.Notes); err != nil {
			return nil, fmt.Errorf("scan rate profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rate profiles: %w", err)
	}
	return profiles, nil
}

func encodePricing(m pricing.Model) (settingsJSON, itemsJSON, totalsJSON string, err error) {
	settings, err := json.Marshal(m.Settings)
	if err != nil {
		return "", "", "", fmt.Errorf("encode pricing settings: %w", err)
	}
	items, err := json.Marshal(m.Items.Normalize())
	if err != nil {
		return "", "", "", fmt.Errorf("encode pricing items: %w", err)
	}
	totals, err := json.Marshal(pricing.Calculate(m).Totals)
	if err != nil {
		return "", "", "", fmt.Errorf("encode pricing totals: %w", err)
	}
	return string(settings), string(items), string(totals), nil
}

func decodeItems(raw string) (lineitem.Store, error) {
	items := lineitem.Store{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode line items: %w", err)
	}
	return items, nil
}

// extractTotal reads the snapshot total, tolerating older snapshot shapes.
func extractTotal(totalsJSON string) float64 {
	var values map[string]any
	if err := json.Unmarshal([]byte(totalsJSON), &values); err != nil {
		return 0
	}
	for _, key := range []string{"total", "finalTotal"} {
		if total, ok := values[key].(float64); ok {
			return total
		}
	}
	return 0
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
