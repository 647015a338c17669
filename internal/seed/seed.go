package seed

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/govsure/costroll/internal/budget"
	"github.com/govsure/costroll/internal/lineitem"
	"github.com/govsure/costroll/internal/pricing"
)

const (
	demoPricingTitle = "Sample: IT modernization support"
	demoGrantID      = "DEMO-SF424A"
)

type rateProfile struct {
	name     string
	settings pricing.Settings
	notes    string
}

var rateProfiles = []rateProfile{
	{"Standard federal", pricing.Settings{FringeRate: 28, OverheadRate: 15, GandARate: 12, FeePercentage: 8}, "Typical mid-size services contractor."},
	{"Small business", pricing.Settings{FringeRate: 25, OverheadRate: 10, GandARate: 8, FeePercentage: 7}, "Lean indirect structure for set-aside bids."},
	{"Large prime", pricing.Settings{FringeRate: 32, OverheadRate: 22, GandARate: 14, FeePercentage: 9}, "Higher pools typical of large integrators."},
}

// Config contains the values required by startup seed.
type Config struct {
	Demo bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, p := range rateProfiles {
		if err := ensureRateProfile(ctx, tx, p, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	if cfg.Demo {
		if err := ensureDemoPricingModel(ctx, tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		if err := ensureDemoBudget(ctx, tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureRateProfile(ctx context.Context, tx *sql.Tx, p rateProfile, stats *Stats) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO rate_profiles (name, fringe_rate, overhead_rate, ganda_rate, fee_percentage, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`, p.name, p.settings.FringeRate, p.settings.OverheadRate, p.settings.GandARate, p.settings.FeePercentage, p.notes)
	if err != nil {
		return fmt.Errorf("insert rate profile %q: %w", p.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert rate profile %q: %w", p.name, err)
	}
	stats.Inserts += int(n)
	return nil
}

func demoPricingModel() pricing.Model {
	return pricing.Model{
		Title:    demoPricingTitle,
		Settings: rateProfiles[0].settings,
		Items: lineitem.Store{lineitem.Labor: {
			{ID: "demo-pm", Category: lineitem.Labor, Position: "Program Manager", Level: "Senior", Quantity: 520, Rate: 150},
			{ID: "demo-eng", Category: lineitem.Labor, Position: "Software Engineer", Level: "II", Quantity: 1040, Rate: 125},
		}},
	}
}

func demoBudget() budget.Budget {
	return budget.Budget{
		GrantID:          demoGrantID,
		IndirectCostRate: 10,
		Narrative:        "Project director at 50% effort with two community outreach trips.",
		Items: lineitem.Store{
			lineitem.Personnel: {{ID: "demo-director", Category: lineitem.Personnel, Description: "Project director", Quantity: 1040, Rate: 45, FederalAmount: 46800}},
			lineitem.Fringe:    {{ID: "demo-fringe", Category: lineitem.Fringe, Description: "Fringe at 30%", FederalAmount: 14040}},
			lineitem.Travel:    {{ID: "demo-travel", Category: lineitem.Travel, Description: "Outreach trips", Quantity: 2, Rate: 1500, FederalAmount: 3000}},
		},
	}
}

func ensureDemoPricingModel(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM pricing_models WHERE title = ? LIMIT 1)`, demoPricingTitle).Scan(&exists); err != nil {
		return fmt.Errorf("check demo pricing model existence: %w", err)
	}
	if exists {
		return nil
	}

	m := demoPricingModel()
	settingsJSON, err := json.Marshal(m.Settings)
	if err != nil {
		return fmt.Errorf("encode demo settings: %w", err)
	}
	itemsJSON, err := json.Marshal(m.Items)
	if err != nil {
		return fmt.Errorf("encode demo items: %w", err)
	}
	totalsJSON, err := json.Marshal(pricing.Calculate(m).Totals)
	if err != nil {
		return fmt.Errorf("encode demo totals: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pricing_models (title, settings_json, items_json, totals_json)
		VALUES (?, ?, ?, ?)
	`, m.Title, string(settingsJSON), string(itemsJSON), string(totalsJSON)); err != nil {
		return fmt.Errorf("insert demo pricing model: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureDemoBudget(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	b := demoBudget()
	itemsJSON, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("encode demo budget items: %w", err)
	}
	totalsJSON, err := json.Marshal(budget.Calculate(b))
	if err != nil {
		return fmt.Errorf("encode demo budget totals: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO budgets (grant_id, indirect_cost_rate, indirect_cost_base, narrative, items_json, totals_json)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(grant_id) DO NOTHING
	`, b.GrantID, b.IndirectCostRate, b.IndirectCostBase, b.Narrative, string(itemsJSON), string(totalsJSON))
	if err != nil {
		return fmt.Errorf("insert demo budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert demo budget: %w", err)
	}
	stats.Inserts += int(n)
	return nil
}
