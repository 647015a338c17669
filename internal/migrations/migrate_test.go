package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/govsure/costroll/internal/db"
)

func TestUpIsRepeatable(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	for i := 0; i < 2; i++ {
		if err := Up(ctx, database); err != nil {
			t.Fatalf("run migrations (iteration=%d): %v", i, err)
		}
	}

	v, err := Version(database)
	if err != nil {
		t.Fatalf("read version: %v", err)
	}
	if v != 3 {
		t.Fatalf("schema version = %d, want 3", v)
	}

	for _, table := range []string{"pricing_models", "budgets", "rate_profiles"} {
		var n int
		if err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n); err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		if n != 1 {
			t.Fatalf("table %s missing", table)
		}
	}
}
