package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cookiegallery/internal/domain/identity"
)

type Service struct {
	repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

type SaveRequest struct {
	DisplayName string
	PhoneNumber string
}

// Save upserts the caller's profile. Empty fields are stored as null.
func (s *Service) Save(ctx context.Context, caller identity.Identity, req SaveRequest) (Profile, error) {
	email := caller.Key()
	if email == "" {
		return Profile{}, ErrEmailRequired
	}

	profile := Profile{
		Email:       email,
		AuthUID:     caller.Subject,
		DisplayName: nullable(req.DisplayName),
		PhoneNumber: nullable(req.PhoneNumber),
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return Profile{}, fmt.Errorf("upsert customer %s: %w", email, err)
	}
	return profile, nil
}

func nullable(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
