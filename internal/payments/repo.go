package payments

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("transaction not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrVerificationFailed = errors.New("payment verification failed")
)

type Repo interface {
	Create(ctx context.Context, tx Transaction) error
	GetByID(ctx context.Context, id string) (Transaction, error)
	// Complete marks a transaction completed. Completing an already completed transaction
	// keeps the original reference and timestamp.
	Complete(ctx context.Context, id, ref string, at time.Time) error
}
