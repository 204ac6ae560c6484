package payments

import (
	"context"
	"errors"
	"testing"
)

type fakeEntitlements struct {
	granted []string
	err     error
}

func (f *fakeEntitlements) GrantPremium(_ context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.granted = append(f.granted, userID)
	return nil
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(context.Context, Transaction, string) error {
	return errors.New("gateway says no")
}

func newTestService(v Verifier) (*Service, *MemoryRepo, *fakeEntitlements) {
	repo := NewMemoryRepo()
	ent := &fakeEntitlements{}
	svc := NewService(repo, v, ent, nil, Merchant{Method: "EcoCash", MerchantCode: "123456", Currency: "USD"})
	return svc, repo, ent
}

func TestStartCreatesPendingTransaction(t *testing.T) {
	svc, repo, _ := newTestService(nil)

	tx, pkg, err := svc.Start(context.Background(), "user-1", " 2 ")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if pkg.ProductType != "premium_editable" || tx.AmountCents != 400 {
		t.Fatalf("unexpected package %+v tx %+v", pkg, tx)
	}
	stored, err := repo.GetByID(context.Background(), tx.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Status != StatusPending || stored.Currency != "USD" || stored.PaymentMethod != "EcoCash" {
		t.Fatalf("unexpected stored transaction %+v", stored)
	}
}

func TestStartRejectsUnknownPackage(t *testing.T) {
	svc, _, _ := newTestService(nil)
	for _, choice := range []string{"", "0", "4", "premium"} {
		if _, _, err := svc.Start(context.Background(), "user-1", choice); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("choice %q: expected ErrInvalidInput, got %v", choice, err)
		}
	}
}

func TestConfirmCompletesAndGrants(t *testing.T) {
	ctx := context.Background()
	svc, repo, ent := newTestService(nil)
	tx, _, _ := svc.Start(ctx, "user-1", "1")

	got, err := svc.Confirm(ctx, "user-1", tx.ID, "ECO123")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if got.Status != StatusCompleted || got.TransactionRef != "ECO123" {
		t.Fatalf("unexpected transaction %+v", got)
	}
	stored, _ := repo.GetByID(ctx, tx.ID)
	if stored.Status != StatusCompleted || stored.CompletedAt == nil {
		t.Fatalf("expected stored completion, got %+v", stored)
	}
	if len(ent.granted) != 1 || ent.granted[0] != "user-1" {
		t.Fatalf("expected premium granted, got %v", ent.granted)
	}

	// A retried confirmation converges without touching the stored reference.
	if _, err := svc.Confirm(ctx, "user-1", tx.ID, "OTHER"); err != nil {
		t.Fatalf("second Confirm: %v", err)
	}
	stored, _ = repo.GetByID(ctx, tx.ID)
	if stored.TransactionRef != "ECO123" {
		t.Fatalf("expected original reference kept, got %q", stored.TransactionRef)
	}
}

func TestConfirmVerificationFailures(t *testing.T) {
	ctx := context.Background()
	svc, _, ent := newTestService(nil)
	tx, _, _ := svc.Start(ctx, "user-1", "1")

	tests := []struct {
		name   string
		userID string
		txID   string
		ref    string
	}{
		{name: "no transaction in session", userID: "user-1", txID: "", ref: "ECO"},
		{name: "unknown transaction", userID: "user-1", txID: "missing", ref: "ECO"},
		{name: "someone else's transaction", userID: "user-2", txID: tx.ID, ref: "ECO"},
		{name: "blank reference", userID: "user-1", txID: tx.ID, ref: "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Confirm(ctx, tt.userID, tt.txID, tt.ref); !errors.Is(err, ErrVerificationFailed) {
				t.Fatalf("expected ErrVerificationFailed, got %v", err)
			}
		})
	}
	if len(ent.granted) != 0 {
		t.Fatalf("expected no entitlement change, got %v", ent.granted)
	}
}

func TestConfirmUsesVerifier(t *testing.T) {
	ctx := context.Background()
	svc, repo, ent := newTestService(rejectingVerifier{})
	tx, _, _ := svc.Start(ctx, "user-1", "3")

	if _, err := svc.Confirm(ctx, "user-1", tx.ID, "ECO"); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
	stored, _ := repo.GetByID(ctx, tx.ID)
	if stored.Status != StatusPending || len(ent.granted) != 0 {
		t.Fatalf("expected untouched transaction, got %+v granted=%v", stored, ent.granted)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[int64]string{300: "$3", 400: "$4", 450: "$4.50", 5: "$0.05"}
	for cents, want := range tests {
		if got := FormatAmount(cents); got != want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", cents, got, want)
		}
	}
}
