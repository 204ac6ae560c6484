package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cvbot-backend/internal/events"
	"cvbot-backend/internal/shared/metrics"
	"cvbot-backend/internal/shared/telemetry"
)

// Entitlements flips the premium flag once a payment is confirmed.
type Entitlements interface {
	GrantPremium(ctx context.Context, userID string) error
}

// Merchant holds the details echoed in payment instructions.
type Merchant struct {
	Method       string
	MerchantCode string
	Currency     string
}

type Service struct {
	Repo         Repo
	Verifier     Verifier
	Entitlements Entitlements
	Events       events.Publisher
	Merchant     Merchant
	Now          func() time.Time
}

func NewService(repo Repo, verifier Verifier, entitlements Entitlements, publisher events.Publisher, merchant Merchant) *Service {
	if verifier == nil {
		verifier = TrustingVerifier{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	if merchant.Currency == "" {
		merchant.Currency = "USD"
	}
	return &Service{
		Repo:         repo,
		Verifier:     verifier,
		Entitlements: entitlements,
		Events:       publisher,
		Merchant:     merchant,
		Now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start creates a pending transaction for the package the user picked.
func (s *Service) Start(ctx context.Context, userID, choice string) (Transaction, Package, error) {
	if s == nil || s.Repo == nil {
		return Transaction{}, Package{}, errors.New("payments service not configured")
	}
	pkg, ok := PackageByChoice(strings.TrimSpace(choice))
	if !ok {
		return Transaction{}, Package{}, fmt.Errorf("%w: unknown package %q", ErrInvalidInput, choice)
	}
	tx := Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		AmountCents:   pkg.AmountCents,
		Currency:      s.Merchant.Currency,
		PaymentMethod: s.Merchant.Method,
		Status:        StatusPending,
		ProductType:   pkg.ProductType,
		Description:   pkg.Name,
		CreatedAt:     s.Now(),
	}
	if err := s.Repo.Create(ctx, tx); err != nil {
		return Transaction{}, Package{}, fmt.Errorf("create transaction: %w", err)
	}
	metrics.IncPaymentStarted()
	return tx, pkg, nil
}

// Confirm verifies reference against the user's transaction, completes it and grants premium.
// Confirming an already completed transaction of the same user succeeds again without side effects
// beyond re-granting, so a retried turn converges. Missing, foreign or failed transactions and
// rejected references return ErrVerificationFailed.
func (s *Service) Confirm(ctx context.Context, userID, transactionID, reference string) (Transaction, error) {
	if s == nil || s.Repo == nil || s.Entitlements == nil {
		return Transaction{}, errors.New("payments service not configured")
	}
	if strings.TrimSpace(transactionID) == "" {
		metrics.IncPaymentRejected()
		return Transaction{}, fmt.Errorf("%w: no pending transaction", ErrVerificationFailed)
	}
	tx, err := s.Repo.GetByID(ctx, transactionID)
	if errors.Is(err, ErrNotFound) || (err == nil && (tx.UserID != userID || tx.Status == StatusFailed)) {
		metrics.IncPaymentRejected()
		return Transaction{}, fmt.Errorf("%w: transaction %s unavailable", ErrVerificationFailed, transactionID)
	}
	if err != nil {
		return Transaction{}, fmt.Errorf("load transaction: %w", err)
	}

	reference = strings.TrimSpace(reference)
	if tx.Status == StatusPending {
		if err := s.Verifier.Verify(ctx, tx, reference); err != nil {
			metrics.IncPaymentRejected()
			if errors.Is(err, ErrVerificationFailed) {
				return Transaction{}, err
			}
			return Transaction{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
		at := s.Now()
		if err := s.Repo.Complete(ctx, tx.ID, reference, at); err != nil {
			return Transaction{}, fmt.Errorf("complete transaction: %w", err)
		}
		tx.Status = StatusCompleted
		tx.TransactionRef = reference
		tx.CompletedAt = &at
	}

	if err := s.Entitlements.GrantPremium(ctx, userID); err != nil {
		return Transaction{}, fmt.Errorf("grant premium: %w", err)
	}
	metrics.IncPaymentCompleted()

	evt := events.New(events.TypePaymentCompleted, userID, map[string]any{
		"transaction_id": tx.ID,
		"product_type":   tx.ProductType,
		"amount_cents":   tx.AmountCents,
		"currency":       tx.Currency,
	})
	if err := s.Events.Publish(ctx, evt); err != nil {
		telemetry.Warn("event.publish_failed", map[string]any{"type": evt.Type, "error": err})
	}
	return tx, nil
}
