package documents

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrGenerationFailed wraps every failure that happens before the document is recorded.
	ErrGenerationFailed = errors.New("document generation failed")
)

// Repo defines persistence operations for produced documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	// ListRecent returns at most limit documents, newest first.
	ListRecent(ctx context.Context, userID string, limit int) ([]Document, error)
}
