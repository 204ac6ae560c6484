package users

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoGetOrCreateIsStablePerPhone(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()

	first, created, err := repo.GetOrCreate(ctx, "+263771234567")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created || first.IsPremium {
		t.Fatalf("expected fresh non-premium user, got created=%v user=%+v", created, first)
	}

	again, created, err := repo.GetOrCreate(ctx, "+263771234567")
	if err != nil {
		t.Fatalf("GetOrCreate again: %v", err)
	}
	if created || again.ID != first.ID {
		t.Fatalf("expected same user, got created=%v id=%s want %s", created, again.ID, first.ID)
	}

	other, _, err := repo.GetOrCreate(ctx, "+263779999999")
	if err != nil {
		t.Fatalf("GetOrCreate other: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("expected distinct users per phone")
	}
}

func TestMemoryRepoFillContactKeepsExistingValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	user, _, _ := repo.GetOrCreate(ctx, "+1")

	if err := repo.FillContact(ctx, user.ID, "Jane", "jane@example.com"); err != nil {
		t.Fatalf("FillContact: %v", err)
	}
	if err := repo.FillContact(ctx, user.ID, "Other", "other@example.com"); err != nil {
		t.Fatalf("FillContact second: %v", err)
	}
	got, _ := repo.GetByID(ctx, user.ID)
	if got.Name != "Jane" || got.Email != "jane@example.com" {
		t.Fatalf("expected first contact kept, got %+v", got)
	}
}

func TestMemoryRepoSetPremiumUnknownUser(t *testing.T) {
	err := NewMemoryRepo().SetPremium(context.Background(), "missing", true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
