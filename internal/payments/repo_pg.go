package payments

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, tx Transaction) error {
	const query = `
INSERT INTO transactions (id, user_id, amount_cents, currency, payment_method, status, product_type, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		tx.ID,
		tx.UserID,
		tx.AmountCents,
		tx.Currency,
		nullableString(tx.PaymentMethod),
		string(tx.Status),
		tx.ProductType,
		nullableString(tx.Description),
		tx.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Transaction, error) {
	const query = `
SELECT id, user_id, amount_cents, currency, payment_method, status, product_type, description,
       transaction_ref, created_at, completed_at
FROM transactions
WHERE id = $1
LIMIT 1`
	var (
		tx          Transaction
		status      string
		method      sql.NullString
		description sql.NullString
		ref         sql.NullString
		completedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.AmountCents,
		&tx.Currency,
		&method,
		&status,
		&tx.ProductType,
		&description,
		&ref,
		&tx.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	tx.Status = Status(status)
	tx.PaymentMethod = method.String
	tx.Description = description.String
	tx.TransactionRef = ref.String
	if completedAt.Valid {
		at := completedAt.Time
		tx.CompletedAt = &at
	}
	return tx, nil
}

func (r *PGRepo) Complete(ctx context.Context, id, ref string, at time.Time) error {
	const query = `
UPDATE transactions
SET status = 'completed', transaction_ref = $2, completed_at = $3
WHERE id = $1 AND status <> 'completed'`
	res, err := r.DB.ExecContext(ctx, query, id, nullableString(ref), at)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	// Zero rows: either already completed or missing.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
