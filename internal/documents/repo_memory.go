package documents

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Document
	byUser map[string][]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Document),
		byUser: make(map[string][]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[doc.ID]; exists {
		return ErrInvalidInput
	}
	doc.URL = ""
	r.byID[doc.ID] = clone(doc)
	r.byUser[doc.UserID] = append(r.byUser[doc.UserID], doc.ID)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.byID[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return clone(doc), nil
}

func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]), nil
}

func (r *MemoryRepo) ListRecent(ctx context.Context, userID string, limit int) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ids := r.byUser[userID]
	docs := make([]Document, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		docs = append(docs, clone(r.byID[ids[i]]))
	}
	r.mu.RUnlock()

	// Later inserts win ties between equal timestamps.
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

func clone(doc Document) Document {
	doc.Experience = append([]string(nil), doc.Experience...)
	doc.Education = append([]string(nil), doc.Education...)
	doc.Skills = append([]string(nil), doc.Skills...)
	return doc
}
