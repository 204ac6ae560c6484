package users

import (
	"context"
	"errors"
	"testing"
)

func TestServiceGetOrCreateRejectsBlankPhone(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, _, err := svc.GetOrCreate(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestServiceRememberContactOnlyFillsBlanks(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepo()
	svc := NewService(repo)
	user, _, _ := svc.GetOrCreate(ctx, "+1")

	if err := svc.RememberContact(ctx, user, " Jane Doe ", ""); err != nil {
		t.Fatalf("RememberContact: %v", err)
	}
	user, _ = svc.GetByID(ctx, user.ID)
	if user.Name != "Jane Doe" || user.Email != "" {
		t.Fatalf("unexpected user %+v", user)
	}

	if err := svc.RememberContact(ctx, user, "Someone Else", "jane@example.com"); err != nil {
		t.Fatalf("RememberContact second: %v", err)
	}
	user, _ = svc.GetByID(ctx, user.ID)
	if user.Name != "Jane Doe" || user.Email != "jane@example.com" {
		t.Fatalf("unexpected user after second call %+v", user)
	}
}

func TestServiceGrantPremium(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryRepo())
	user, _, _ := svc.GetOrCreate(ctx, "+1")
	if err := svc.GrantPremium(ctx, user.ID); err != nil {
		t.Fatalf("GrantPremium: %v", err)
	}
	user, _ = svc.GetByID(ctx, user.ID)
	if !user.IsPremium {
		t.Fatalf("expected premium user")
	}
}
