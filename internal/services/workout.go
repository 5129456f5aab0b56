package services

import (
	"context"

	"github.com/fitplanner/apiserver/types"
)

// WorkoutRepository defines persistence operations for workouts and their
// exercise links. Read, update, and delete are scoped by the owning user.
type WorkoutRepository interface {
	ListByUser(ctx context.Context, userID int) ([]types.Workout, error)
	Get(ctx context.Context, id, userID int) (types.Workout, error)
	Create(ctx context.Context, workout types.Workout) (types.Workout, error)
	Update(ctx context.Context, workout types.Workout) (types.Workout, error)
	Delete(ctx context.Context, id, userID int) error
	Link(ctx context.Context, workoutID, exerciseID int) error
	Unlink(ctx context.Context, workoutID, exerciseID int) error
	CreateExerciseLinked(ctx context.Context, workoutID int, exercise types.Exercise) (types.Exercise, error)
	ListExercises(ctx context.Context, workoutID int) ([]types.Exercise, error)
	GetExercise(ctx context.Context, workoutID, exerciseID int) (types.Exercise, error)
}

// WorkoutPatch carries the fields of a partial workout update. Nil fields
// leave the stored value untouched; the owner is never patchable.
type WorkoutPatch struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	WorkoutType     *types.WorkoutType
}

// WorkoutService encapsulates workout use-cases. Every operation takes the
// acting user's id and re-verifies ownership on each call; a workout owned
// by someone else is reported as not found.
type WorkoutService struct {
	repo      WorkoutRepository
	exercises ExerciseRepository
}

func NewWorkoutService(repo WorkoutRepository, exercises ExerciseRepository) *WorkoutService {
	return &WorkoutService{repo: repo, exercises: exercises}
}

func (s *WorkoutService) List(ctx context.Context, userID int) ([]types.Workout, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *WorkoutService) Get(ctx context.Context, id, userID int) (types.Workout, error) {
	return s.repo.Get(ctx, id, userID)
}

// Create stamps the owner from the acting user, ignoring any owner carried
// on the input.
func (s *WorkoutService) Create(ctx context.Context, workout types.Workout, userID int) (types.Workout, error) {
	workout.UserID = userID
	return s.repo.Create(ctx, workout)
}

// Update applies a field-by-field merge of the patch onto the stored workout.
func (s *WorkoutService) Update(ctx context.Context, id, userID int, patch WorkoutPatch) (types.Workout, error) {
	workout, err := s.repo.Get(ctx, id, userID)
	if err != nil {
		return types.Workout{}, err
	}

	if patch.Name != nil && *patch.Name != "" {
		workout.Name = *patch.Name
	}
	if patch.Description != nil {
		workout.Description = *patch.Description
	}
	if patch.DurationMinutes != nil {
		workout.DurationMinutes = *patch.DurationMinutes
	}
	if patch.WorkoutType != nil && *patch.WorkoutType != "" {
		workout.WorkoutType = *patch.WorkoutType
	}

	return s.repo.Update(ctx, workout)
}

func (s *WorkoutService) Delete(ctx context.Context, id, userID int) error {
	return s.repo.Delete(ctx, id, userID)
}

// AddExercise links an existing catalog exercise to the user's workout and
// returns it. A duplicate link is a conflict; a missing workout, a workout
// owned by someone else, or a missing exercise is not found.
func (s *WorkoutService) AddExercise(ctx context.Context, workoutID, userID, exerciseID int) (types.Exercise, error) {
	if _, err := s.repo.Get(ctx, workoutID, userID); err != nil {
		return types.Exercise{}, err
	}
	exercise, err := s.exercises.Get(ctx, exerciseID)
	if err != nil {
		return types.Exercise{}, err
	}
	if err := s.repo.Link(ctx, workoutID, exerciseID); err != nil {
		return types.Exercise{}, err
	}
	return exercise, nil
}

// CreateExercise creates a catalog exercise and links it to the user's
// workout atomically.
func (s *WorkoutService) CreateExercise(ctx context.Context, workoutID, userID int, exercise types.Exercise) (types.Exercise, error) {
	if _, err := s.repo.Get(ctx, workoutID, userID); err != nil {
		return types.Exercise{}, err
	}
	return s.repo.CreateExerciseLinked(ctx, workoutID, exercise)
}

func (s *WorkoutService) ListExercises(ctx context.Context, workoutID, userID int) ([]types.Exercise, error) {
	if _, err := s.repo.Get(ctx, workoutID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListExercises(ctx, workoutID)
}

func (s *WorkoutService) GetExercise(ctx context.Context, workoutID, userID, exerciseID int) (types.Exercise, error) {
	if _, err := s.repo.Get(ctx, workoutID, userID); err != nil {
		return types.Exercise{}, err
	}
	return s.repo.GetExercise(ctx, workoutID, exerciseID)
}

// UpdateExercise patches a catalog exercise, but only when it is linked to
// the user's workout.
func (s *WorkoutService) UpdateExercise(ctx context.Context, workoutID, userID, exerciseID int, patch ExercisePatch) (types.Exercise, error) {
	if _, err := s.repo.Get(ctx, workoutID, userID); err != nil {
		return types.Exercise{}, err
	}
	exercise, err := s.repo.GetExercise(ctx, workoutID, exerciseID)
	if err != nil {
		return types.Exercise{}, err
	}
	return s.exercises.Update(ctx, patch.apply(exercise))
}

// RemoveExercise unlinks the exercise from the user's workout. The catalog
// entry itself survives.
func (s *WorkoutService) RemoveExercise(ctx context.Context, workoutID, userID, exerciseID int) error {
	if _, err := s.repo.Get(ctx, workoutID, userID); err != nil {
		return err
	}
	return s.repo.Unlink(ctx, workoutID, exerciseID)
}
