package sqlite

import (
	"context"
	"testing"

	"statsetl/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that the "sqlite" backend
// registered in init() goes through the newRepository hook and that
// wrappedRepo delegates Close.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	// Not parallel: swaps a package-level hook.
	ctx := context.Background()

	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		called bool
		gotCfg Config
		closed bool
		fake   = &Repository{}
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fake, func() { closed = true }, nil
	}

	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: "stats.db", Schema: "main"})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if !called {
		t.Fatalf("newRepository hook was not called")
	}
	if gotCfg.DSN != "stats.db" || gotCfg.Schema != "main" {
		t.Fatalf("hook cfg = %+v", gotCfg)
	}
	w, ok := repo.(*wrappedRepo)
	if !ok || w.Repository != fake {
		t.Fatalf("storage.New() = %T, want *wrappedRepo around the fake", repo)
	}

	repo.Close()
	if !closed {
		t.Fatalf("wrappedRepo.Close() did not invoke closeFn")
	}
}
