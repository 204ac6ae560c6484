package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	users   map[string]User
	byPhone map[string]string
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		users:   make(map[string]User),
		byPhone: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepo) GetOrCreate(ctx context.Context, phone string) (User, bool, error) {
	if err := ctx.Err(); err != nil {
		return User{}, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if id, ok := r.byPhone[phone]; ok {
		user := r.users[id]
		user.LastActive = now
		r.users[id] = user
		return user, false, nil
	}
	user := User{
		ID:          uuid.NewString(),
		PhoneNumber: phone,
		CreatedAt:   now,
		LastActive:  now,
	}
	r.users[user.ID] = user
	r.byPhone[phone] = user.ID
	return user, true, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) SetPremium(ctx context.Context, userID string, premium bool) error {
	return r.update(ctx, userID, func(u *User) { u.IsPremium = premium })
}

func (r *MemoryRepo) FillContact(ctx context.Context, userID, name, email string) error {
	return r.update(ctx, userID, func(u *User) {
		if u.Name == "" {
			u.Name = name
		}
		if u.Email == "" {
			u.Email = email
		}
	})
}

func (r *MemoryRepo) update(ctx context.Context, userID string, fn func(*User)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	r.users[userID] = user
	return nil
}
