package templates

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu        sync.RWMutex
	templates map[int64]Template
}

// NewMemoryRepo returns a repo holding the given templates, or the seed catalog when none are given.
func NewMemoryRepo(items ...Template) *MemoryRepo {
	if len(items) == 0 {
		items = Seed
	}
	now := time.Now().UTC()
	r := &MemoryRepo{templates: make(map[int64]Template, len(items))}
	for _, t := range items {
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		r.templates[t.ID] = t
	}
	return r
}

func (r *MemoryRepo) ListActive(ctx context.Context, includePremium bool) ([]Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		if !t.IsActive || (t.IsPremium && !includePremium) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Template, error) {
	if err := ctx.Err(); err != nil {
		return Template{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return Template{}, ErrNotFound
	}
	return t, nil
}
