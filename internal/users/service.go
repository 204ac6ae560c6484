package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// GetOrCreate provisions the user for an already-normalized phone number.
func (s *Service) GetOrCreate(ctx context.Context, phone string) (User, bool, error) {
	if s == nil || s.Repo == nil {
		return User{}, false, errors.New("users service not configured")
	}
	if strings.TrimSpace(phone) == "" {
		return User{}, false, fmt.Errorf("%w: phone number is required", ErrInvalidInput)
	}
	return s.Repo.GetOrCreate(ctx, phone)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID)
}

// GrantPremium marks the user as premium. Granting twice is harmless.
func (s *Service) GrantPremium(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	return s.Repo.SetPremium(ctx, userID, true)
}

// RememberContact copies the name and email from a finished document onto the user
// when the user has none yet.
func (s *Service) RememberContact(ctx context.Context, user User, name, email string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if (user.Name != "" || name == "") && (user.Email != "" || email == "") {
		return nil
	}
	return s.Repo.FillContact(ctx, user.ID, name, email)
}
