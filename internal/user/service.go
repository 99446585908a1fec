package user

import (
	"context"
	"strings"
)

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, name, email string) (*User, error)
	Update(ctx context.Context, id int64, upd Update) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name, email string) (*User, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" {
		return nil, ErrEmailEmpty
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrNameEmpty
	}

	u := &User{
		Name:  strings.TrimSpace(name),
		Email: cleanEmail,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Update(ctx context.Context, id int64, upd Update) (*User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil && strings.TrimSpace(*upd.Name) != "" {
		existing.Name = strings.TrimSpace(*upd.Name)
	}

	if upd.Email != nil {
		cleanEmail := normalizeEmail(*upd.Email)
		if cleanEmail != "" && cleanEmail != existing.Email {
			existing.Email = cleanEmail
		}
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	return existing, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
