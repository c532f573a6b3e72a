package repository

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/abrezinsky/snailderby/internal/models"
)

// newTestRepo creates a new in-memory repository for testing.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSeedEntrants_EmptyCatalog(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	n, err := repo.SeedEntrants(ctx, models.DefaultEntrants)
	if err != nil {
		t.Fatalf("SeedEntrants failed: %v", err)
	}
	if n != len(models.DefaultEntrants) {
		t.Errorf("expected %d inserted, got %d", len(models.DefaultEntrants), n)
	}

	entrants, err := repo.ListEntrants(ctx)
	if err != nil {
		t.Fatalf("ListEntrants failed: %v", err)
	}
	if len(entrants) != len(models.DefaultEntrants) {
		t.Fatalf("expected %d entrants, got %d", len(models.DefaultEntrants), len(entrants))
	}
	for i, e := range entrants {
		if e != models.DefaultEntrants[i] {
			t.Errorf("entrant %d = %+v, want %+v", i, e, models.DefaultEntrants[i])
		}
	}
}

func TestSeedEntrants_SkipsWhenPopulated(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertEntrant(ctx, models.Entrant{ID: 0, Name: "Solo", Trait: models.TraitLucky}); err != nil {
		t.Fatalf("UpsertEntrant failed: %v", err)
	}

	n, err := repo.SeedEntrants(ctx, models.DefaultEntrants)
	if err != nil {
		t.Fatalf("SeedEntrants failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected nothing inserted, got %d", n)
	}

	count, err := repo.CountEntrants(ctx)
	if err != nil {
		t.Fatalf("CountEntrants failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 entrant, got %d", count)
	}
}

func TestSeedEntrants_InvalidTraitRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entrants := []models.Entrant{
		{ID: 0, Name: "Good", Trait: models.TraitSteady},
		{ID: 1, Name: "Bad", Trait: "FLYING"},
	}
	_, err := repo.SeedEntrants(ctx, entrants)
	if !stderrors.Is(err, ErrInvalidTrait) {
		t.Fatalf("expected ErrInvalidTrait, got %v", err)
	}

	count, err := repo.CountEntrants(ctx)
	if err != nil {
		t.Fatalf("CountEntrants failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected rollback to leave 0 entrants, got %d", count)
	}
}

func TestUpsertEntrant_Updates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertEntrant(ctx, models.Entrant{ID: 3, Name: "Slowpoke", Trait: models.TraitSteady}); err != nil {
		t.Fatalf("UpsertEntrant failed: %v", err)
	}
	if err := repo.UpsertEntrant(ctx, models.Entrant{ID: 3, Name: "Zoomer", Trait: models.TraitSprinter, Description: "fast"}); err != nil {
		t.Fatalf("UpsertEntrant update failed: %v", err)
	}

	e, err := repo.GetEntrant(ctx, 3)
	if err != nil {
		t.Fatalf("GetEntrant failed: %v", err)
	}
	want := models.Entrant{ID: 3, Name: "Zoomer", Trait: models.TraitSprinter, Description: "fast"}
	if *e != want {
		t.Errorf("got %+v, want %+v", *e, want)
	}
}

func TestUpsertEntrant_InvalidTrait(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.UpsertEntrant(context.Background(), models.Entrant{ID: 0, Name: "X", Trait: ""})
	if !stderrors.Is(err, ErrInvalidTrait) {
		t.Errorf("expected ErrInvalidTrait, got %v", err)
	}
}

func TestUpsertEntrant_DuplicateName(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.UpsertEntrant(ctx, models.Entrant{ID: 0, Name: "Twin", Trait: models.TraitLucky}); err != nil {
		t.Fatalf("UpsertEntrant failed: %v", err)
	}
	if err := repo.UpsertEntrant(ctx, models.Entrant{ID: 1, Name: "Twin", Trait: models.TraitLucky}); err == nil {
		t.Error("expected unique constraint error for duplicate name")
	}
}

func TestGetEntrant_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetEntrant(context.Background(), 42)
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListEntrants_Empty(t *testing.T) {
	repo := newTestRepo(t)

	entrants, err := repo.ListEntrants(context.Background())
	if err != nil {
		t.Fatalf("ListEntrants failed: %v", err)
	}
	if len(entrants) != 0 {
		t.Errorf("expected empty catalog, got %d", len(entrants))
	}
}

func TestPingAndClose(t *testing.T) {
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if repo.DB() == nil {
		t.Fatal("expected DB handle")
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := repo.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail after Close")
	}

	empty := &Repository{}
	if err := empty.Close(); err != nil {
		t.Errorf("Close on empty repository failed: %v", err)
	}
}

func TestNew_BadPath(t *testing.T) {
	_, err := New("/nonexistent-dir/sub/snails.db")
	if err == nil {
		t.Error("expected error for unwritable path")
	}
}
