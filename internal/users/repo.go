package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Repo interface {
	// GetOrCreate returns the user for phone, creating a non-premium user on first contact.
	// last_active is refreshed either way; created reports whether a row was inserted.
	GetOrCreate(ctx context.Context, phone string) (user User, created bool, err error)
	GetByID(ctx context.Context, userID string) (User, error)
	SetPremium(ctx context.Context, userID string, premium bool) error
	// FillContact sets name and email only where they are currently empty.
	FillContact(ctx context.Context, userID, name, email string) error
}
