package db_test

import (
	"context"
	"testing"

	dbfs "github.com/jobdeck/jobdeck/db"
	"github.com/jobdeck/jobdeck/internal/db"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Run again to ensure idempotency.
	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count < 1 {
		t.Fatalf("expected at least 1 migration recorded, got %d", count)
	}

	var name string
	r1 := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='deliveries'`)
	if err := r1.Scan(&name); err != nil {
		t.Fatalf("expected deliveries table exists: %v", err)
	}

	// Seed files should have populated the default taxonomy exactly once.
	var tags int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM tags WHERE code='python'`).Scan(&tags); err != nil {
		t.Fatalf("scan seeded tags: %v", err)
	}
	if tags != 1 {
		t.Fatalf("expected exactly one seeded python tag, got %d", tags)
	}
}
