package templates

import (
	"context"
	"errors"
	"strings"
)

// Service answers catalog questions for a given entitlement.
type Service struct {
	Repo         Repo
	colorCapable map[string]struct{}
}

// NewService builds the catalog service. colorCapable lists template keys that offer a
// color palette choice to premium users.
func NewService(repo Repo, colorCapable []string) *Service {
	set := make(map[string]struct{}, len(colorCapable))
	for _, key := range colorCapable {
		if key = strings.TrimSpace(key); key != "" {
			set[key] = struct{}{}
		}
	}
	return &Service{Repo: repo, colorCapable: set}
}

// Available returns the active templates the user may choose from, ordered by id.
// The 1-based position in this list is the number the user types.
func (s *Service) Available(ctx context.Context, premium bool) ([]Template, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("templates service not configured")
	}
	return s.Repo.ListActive(ctx, premium)
}

// All returns every active template, used for the catalog listing.
func (s *Service) All(ctx context.Context) (free, premium []Template, err error) {
	all, err := s.Available(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	for _, t := range all {
		if t.IsPremium {
			premium = append(premium, t)
		} else {
			free = append(free, t)
		}
	}
	return free, premium, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Template, error) {
	if s == nil || s.Repo == nil {
		return Template{}, errors.New("templates service not configured")
	}
	return s.Repo.GetByID(ctx, id)
}

// OffersColor reports whether choosing t leads to the palette step.
func (s *Service) OffersColor(t Template) bool {
	if !t.IsPremium {
		return false
	}
	_, ok := s.colorCapable[t.Key]
	return ok
}
