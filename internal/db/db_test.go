package db

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_MemorySharesSchema(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, memoryPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if got := database.Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("max open connections = %d, want 1", got)
	}
	if _, err := database.ExecContext(ctx, `CREATE TABLE t (x INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := database.ExecContext(ctx, `INSERT INTO t (x) VALUES (1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func TestOpen_FileEnablesForeignKeys(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, filepath.Join(t.TempDir(), "fk.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	var on int
	if err := database.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if on != 1 {
		t.Fatalf("foreign_keys = %d, want 1", on)
	}
}
