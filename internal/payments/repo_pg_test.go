package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	tx := Transaction{
		ID:          "tx-1",
		UserID:      "user-1",
		AmountCents: 400,
		Currency:    "USD",
		Status:      StatusPending,
		ProductType: "premium_editable",
		Description: "Premium + Editable",
		CreatedAt:   time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(tx.ID, tx.UserID, tx.AmountCents, tx.Currency, nil, "pending", tx.ProductType, tx.Description, tx.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := (&PGRepo{DB: db}).Create(context.Background(), tx); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCompleteMissingTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE transactions").
		WithArgs("tx-404", "ECO", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err = (&PGRepo{DB: db}).Complete(context.Background(), "tx-404", "ECO", at)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDScansNullables(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("FROM transactions").
		WithArgs("tx-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "amount_cents", "currency", "payment_method", "status", "product_type",
			"description", "transaction_ref", "created_at", "completed_at",
		}).AddRow("tx-1", "user-1", int64(300), "USD", "EcoCash", "completed", "premium_templates", nil, "ECO1", now, now))

	tx, err := (&PGRepo{DB: db}).GetByID(context.Background(), "tx-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if tx.Status != StatusCompleted || tx.CompletedAt == nil || tx.TransactionRef != "ECO1" || tx.Description != "" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
}
