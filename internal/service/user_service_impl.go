package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/incidentboard/internal/access"
	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/repository"
)

type userService struct {
	users repository.UserRepo
}

func NewUserService(users repository.UserRepo) UserService {
	return &userService{users: users}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	list, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(list))
	for _, u := range list {
		out = append(out, *u)
	}
	return out, nil
}

// CreateUser stores u. An existing user with the same email is reused and
// its id copied into u, so seeding can run more than once.
func (s *userService) CreateUser(ctx context.Context, u *domain.User) error {
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidUser)
	}
	if _, ok := access.ParseRole(string(u.Role)); !ok {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}

	existing, err := s.users.GetByEmail(ctx, u.Email)
	switch {
	case err == nil:
		u.ID = existing.ID
		return nil
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return s.users.Create(ctx, u)
}
