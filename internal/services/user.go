package services

import (
	"context"

	"github.com/fitplanner/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	Delete(ctx context.Context, id int) error
}

// UserPatch carries the fields of a partial user update. Nil fields (and
// empty strings) leave the stored value untouched; the id and creation
// timestamp are never patchable.
type UserPatch struct {
	Name            *string
	Email           *string
	PasswordHash    *string
	ExperienceLevel *types.ExperienceLevel
	Goal            *types.Goal
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (types.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]types.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Create(ctx context.Context, user types.User) (types.User, error) {
	return s.repo.Create(ctx, user)
}

// Update applies a field-by-field merge of the patch onto the stored user.
func (s *UserService) Update(ctx context.Context, id int, patch UserPatch) (types.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	if patch.Name != nil && *patch.Name != "" {
		user.Name = *patch.Name
	}
	if patch.Email != nil && *patch.Email != "" {
		user.Email = *patch.Email
	}
	if patch.PasswordHash != nil && *patch.PasswordHash != "" {
		user.PasswordHash = *patch.PasswordHash
	}
	if patch.ExperienceLevel != nil && *patch.ExperienceLevel != "" {
		user.ExperienceLevel = *patch.ExperienceLevel
	}
	if patch.Goal != nil && *patch.Goal != "" {
		user.Goal = *patch.Goal
	}

	return s.repo.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
