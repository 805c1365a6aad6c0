package postgres

import (
	"context"
	"errors"
	"testing"

	"statsetl/internal/storage"
)

// TestRegistrationUsesNewRepositoryHook verifies that storage.New("postgres")
// builds its Repository through the newRepository hook and that Close runs
// the returned cleanup.
func TestRegistrationUsesNewRepositoryHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var (
		gotCfg Config
		closed bool
		fake   = &Repository{}
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotCfg = cfg
		return fake, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{
		Kind:   "postgres",
		DSN:    "postgres://stats@localhost/stats",
		Schema: "almanac",
	})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if gotCfg.DSN != "postgres://stats@localhost/stats" || gotCfg.Schema != "almanac" {
		t.Fatalf("hook cfg = %+v", gotCfg)
	}
	if w, ok := repo.(*wrappedRepo); !ok || w.Repository != fake {
		t.Fatalf("storage.New() = %T; want *wrappedRepo around the fake", repo)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close did not invoke closeFn")
	}
}

func TestRegistrationPropagatesErrors(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	boom := errors.New("connection refused")
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		return nil, nil, boom
	}

	if _, err := storage.New(context.Background(), storage.Config{Kind: "postgres"}); !errors.Is(err, boom) {
		t.Fatalf("err=%v; want %v", err, boom)
	}
}

func TestDialectRegistered(t *testing.T) {
	d, err := storage.DialectFor("postgres")
	if err != nil {
		t.Fatalf("DialectFor: %v", err)
	}
	if d.MaxIdent != 63 {
		t.Fatalf("MaxIdent=%d; want 63", d.MaxIdent)
	}
	if got := d.DropTable("public.t"); got != `DROP TABLE IF EXISTS "public"."t";` {
		t.Fatalf("DropTable=%q", got)
	}
}
