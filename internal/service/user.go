package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

const (
	searchLimit  = 50
	roleCacheTTL = 5 * time.Minute
)

type UserService struct {
	users UserRepository
	cache Cache
}

func NewUserService(users UserRepository, cache Cache) *UserService {
	return &UserService{users: users, cache: cache}
}

func roleCacheKey(email string) string {
	return "role:" + model.NormalizeEmail(email)
}

// Upsert registers or refreshes a user keyed by email. Open by design:
// sign-in flows call it before any token-backed session exists.
func (s *UserService) Upsert(ctx context.Context, input *model.UpsertUserInput) (*model.User, error) {
	if model.NormalizeEmail(input.Email) == "" {
		return nil, fmt.Errorf("email is required: %w", errdefs.ErrInvalidArgument)
	}
	if input.Role == "" {
		input.Role = string(model.RoleStudent)
	}
	if !model.NormalizeRole(input.Role).IsValid() {
		return nil, fmt.Errorf("unknown role %q: %w", input.Role, errdefs.ErrInvalidArgument)
	}

	user, err := s.users.Upsert(ctx, input)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, roleCacheKey(user.Email))
	return user, nil
}

func (s *UserService) Search(ctx context.Context, searchText string) ([]*model.User, error) {
	return s.users.Search(ctx, searchText, searchLimit)
}

// GetRole returns the user's role, defaulting to "student" when no
// record exists. The default is for read-only role display only;
// authorization paths use lookupRole, which never defaults.
func (s *UserService) GetRole(ctx context.Context, email string) (model.Role, error) {
	key := roleCacheKey(email)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return model.Role(cached), nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return model.RoleStudent, nil
		}
		return "", err
	}

	s.cache.Set(ctx, key, []byte(user.Role), roleCacheTTL)
	return user.Role, nil
}

func (s *UserService) Update(ctx context.Context, idParam string, input *model.UpdateUserInput) (*model.User, error) {
	if _, err := requireAdmin(ctx, s.users); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fmt.Errorf("no user with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	if input.Email == nil && input.Name == nil && input.Phone == nil && input.Role == nil {
		return nil, fmt.Errorf("no valid fields to update: %w", errdefs.ErrInvalidArgument)
	}
	if input.Role != nil && !model.NormalizeRole(*input.Role).IsValid() {
		return nil, fmt.Errorf("unknown role %q: %w", *input.Role, errdefs.ErrInvalidArgument)
	}

	user, err := s.users.Update(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, roleCacheKey(user.Email))
	return user, nil
}

func (s *UserService) SetRole(ctx context.Context, idParam string, roleParam string) (*model.User, error) {
	if _, err := requireAdmin(ctx, s.users); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fmt.Errorf("no user with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	role := model.NormalizeRole(roleParam)
	if !role.IsValid() {
		return nil, fmt.Errorf("unknown role %q: %w", roleParam, errdefs.ErrInvalidArgument)
	}

	user, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, roleCacheKey(user.Email))
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, idParam string) error {
	if _, err := requireAdmin(ctx, s.users); err != nil {
		return err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return fmt.Errorf("no user with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	return s.users.Delete(ctx, id)
}
