package payments

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu  sync.RWMutex
	txs map[string]Transaction
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{txs: make(map[string]Transaction)}
}

func (r *MemoryRepo) Create(ctx context.Context, tx Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs[tx.ID] = tx
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Transaction, error) {
	if err := ctx.Err(); err != nil {
		return Transaction{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.txs[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (r *MemoryRepo) Complete(ctx context.Context, id, ref string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[id]
	if !ok {
		return ErrNotFound
	}
	if tx.Status == StatusCompleted {
		return nil
	}
	tx.Status = StatusCompleted
	tx.TransactionRef = ref
	tx.CompletedAt = &at
	r.txs[id] = tx
	return nil
}

// ListByUser returns a user's transactions. Used by tests and the integration harness.
func (r *MemoryRepo) ListByUser(userID string) []Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Transaction
	for _, tx := range r.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out
}
