package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/govsure/costroll/internal/db"
	"github.com/govsure/costroll/internal/migrations"
	"github.com/govsure/costroll/internal/store"
)

func newSeedTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newSeedTestDB(t)

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, Config{Demo: true})
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 5 {
				t.Fatalf("expected 5 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM rate_profiles`, nil, 3)
	assertCount(t, database, `SELECT COUNT(*) FROM pricing_models WHERE title = ?`, demoPricingTitle, 1)
	assertCount(t, database, `SELECT COUNT(*) FROM budgets WHERE grant_id = ?`, demoGrantID, 1)
}

func TestRunWithoutDemoOnlySeedsRateProfiles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newSeedTestDB(t)

	stats, err := Run(ctx, database, Config{})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if stats.Inserts != len(rateProfiles) {
		t.Fatalf("expected %d inserts, got %d", len(rateProfiles), stats.Inserts)
	}
	assertCount(t, database, `SELECT COUNT(*) FROM pricing_models`, nil, 0)
}

func TestSeededRecordsReadBackThroughStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database := newSeedTestDB(t)
	if _, err := Run(ctx, database, Config{Demo: true}); err != nil {
		t.Fatalf("run seed: %v", err)
	}

	s := store.New(database)
	models, err := s.ListPricingModels(ctx, "Sample")
	if err != nil {
		t.Fatalf("list pricing models: %v", err)
	}
	if len(models) != 1 {
		t.Fatalf("expected demo pricing model, got %+v", models)
	}
	if diff := models[0].Total - 370350.4896; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("demo total = %v, want 370350.4896", models[0].Total)
	}

	rec, err := s.GetBudget(ctx, demoGrantID)
	if err != nil {
		t.Fatalf("get demo budget: %v", err)
	}
	if diff := rec.Total - 70224; diff > 1e-6 || diff < -1e-6 {
		t.Fatalf("demo budget total = %v, want 70224", rec.Total)
	}

	profiles, err := s.ListRateProfiles(ctx)
	if err != nil {
		t.Fatalf("list rate profiles: %v", err)
	}
	if len(profiles) != 3 || profiles[0].Name != "Large prime" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
