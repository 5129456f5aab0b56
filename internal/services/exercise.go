package services

import (
	"context"

	"github.com/fitplanner/apiserver/types"
)

// ExerciseRepository defines persistence operations for catalog exercises.
type ExerciseRepository interface {
	List(ctx context.Context) ([]types.Exercise, error)
	Get(ctx context.Context, id int) (types.Exercise, error)
	Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error)
	Update(ctx context.Context, exercise types.Exercise) (types.Exercise, error)
	Delete(ctx context.Context, id int) error
}

// ExercisePatch carries the fields of a partial exercise update. Nil fields
// leave the stored value untouched.
type ExercisePatch struct {
	Name              *string
	Description       *string
	CaloriesPerMinute *int
	ExerciseType      *types.ExerciseType
}

func (p ExercisePatch) apply(exercise types.Exercise) types.Exercise {
	if p.Name != nil && *p.Name != "" {
		exercise.Name = *p.Name
	}
	if p.Description != nil {
		exercise.Description = *p.Description
	}
	if p.CaloriesPerMinute != nil {
		exercise.CaloriesPerMinute = *p.CaloriesPerMinute
	}
	if p.ExerciseType != nil && *p.ExerciseType != "" {
		exercise.ExerciseType = *p.ExerciseType
	}
	return exercise
}

// ExerciseService encapsulates exercise-catalog use-cases. The catalog is
// shared; no operation here is scoped to a user.
type ExerciseService struct {
	repo ExerciseRepository
}

func NewExerciseService(repo ExerciseRepository) *ExerciseService {
	return &ExerciseService{repo: repo}
}

func (s *ExerciseService) List(ctx context.Context) ([]types.Exercise, error) {
	return s.repo.List(ctx)
}

func (s *ExerciseService) Get(ctx context.Context, id int) (types.Exercise, error) {
	return s.repo.Get(ctx, id)
}

func (s *ExerciseService) Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	return s.repo.Create(ctx, exercise)
}

// Update applies a field-by-field merge of the patch onto the stored exercise.
func (s *ExerciseService) Update(ctx context.Context, id int, patch ExercisePatch) (types.Exercise, error) {
	exercise, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Exercise{}, err
	}
	return s.repo.Update(ctx, patch.apply(exercise))
}

func (s *ExerciseService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
