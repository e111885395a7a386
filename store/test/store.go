package test

import (
	"context"
	"testing"

	"github.com/rayahq/raya/internal/profile"
	"github.com/rayahq/raya/store"
	"github.com/rayahq/raya/store/db"
)

// NewTestingStore creates a store backed by a fresh SQLite database in the
// test's temp directory.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	dir := t.TempDir()
	testProfile := &profile.Profile{
		Mode:   "dev",
		Data:   dir,
		Driver: "sqlite",
	}
	if err := testProfile.Validate(); err != nil {
		t.Fatalf("failed to validate profile: %v", err)
	}

	dbDriver, err := db.NewDBDriver(testProfile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}
	ts := store.New(dbDriver, testProfile)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	t.Cleanup(func() {
		_ = ts.Close()
	})
	return ts
}
