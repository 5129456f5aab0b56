package handlers_test

import (
	"context"
	"sort"
	"time"

	"github.com/fitplanner/apiserver/internal/store"
	"github.com/fitplanner/apiserver/types"
)

// In-memory repositories mirroring the error semantics of internal/store.

type fakeUserRepo struct {
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]types.User, error) {
	users := make([]types.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	for _, existing := range r.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeExerciseRepo struct {
	nextID    int
	exercises map[int]types.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{nextID: 1, exercises: make(map[int]types.Exercise)}
}

func (r *fakeExerciseRepo) List(_ context.Context) ([]types.Exercise, error) {
	exercises := make([]types.Exercise, 0, len(r.exercises))
	for _, exercise := range r.exercises {
		exercises = append(exercises, exercise)
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].ID < exercises[j].ID })
	return exercises, nil
}

func (r *fakeExerciseRepo) Get(_ context.Context, id int) (types.Exercise, error) {
	exercise, ok := r.exercises[id]
	if !ok {
		return types.Exercise{}, store.ErrNotFound
	}
	return exercise, nil
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise types.Exercise) (types.Exercise, error) {
	exercise.ID = r.nextID
	r.nextID++
	exercise.CreatedAt = time.Now()
	r.exercises[exercise.ID] = exercise
	return exercise, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise types.Exercise) (types.Exercise, error) {
	if _, ok := r.exercises[exercise.ID]; !ok {
		return types.Exercise{}, store.ErrNotFound
	}
	r.exercises[exercise.ID] = exercise
	return exercise, nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id int) error {
	if _, ok := r.exercises[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakeWorkoutRepo struct {
	nextID    int
	workouts  map[int]types.Workout
	links     map[int]map[int]bool
	exercises *fakeExerciseRepo
}

func newFakeWorkoutRepo(exercises *fakeExerciseRepo) *fakeWorkoutRepo {
	return &fakeWorkoutRepo{
		nextID:    1,
		workouts:  make(map[int]types.Workout),
		links:     make(map[int]map[int]bool),
		exercises: exercises,
	}
}

func (r *fakeWorkoutRepo) ListByUser(ctx context.Context, userID int) ([]types.Workout, error) {
	workouts := make([]types.Workout, 0)
	for _, workout := range r.workouts {
		if workout.UserID != userID {
			continue
		}
		workout.Exercises = r.linkedExercises(workout.ID)
		workouts = append(workouts, workout)
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].ID < workouts[j].ID })
	return workouts, nil
}

func (r *fakeWorkoutRepo) Get(_ context.Context, id, userID int) (types.Workout, error) {
	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return types.Workout{}, store.ErrNotFound
	}
	workout.Exercises = r.linkedExercises(id)
	return workout, nil
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout types.Workout) (types.Workout, error) {
	workout.ID = r.nextID
	r.nextID++
	workout.CreatedAt = time.Now()
	workout.Exercises = []types.Exercise{}
	r.workouts[workout.ID] = workout
	return workout, nil
}

func (r *fakeWorkoutRepo) Update(_ context.Context, workout types.Workout) (types.Workout, error) {
	existing, ok := r.workouts[workout.ID]
	if !ok || existing.UserID != workout.UserID {
		return types.Workout{}, store.ErrNotFound
	}
	r.workouts[workout.ID] = workout
	return workout, nil
}

func (r *fakeWorkoutRepo) Delete(_ context.Context, id, userID int) error {
	workout, ok := r.workouts[id]
	if !ok || workout.UserID != userID {
		return store.ErrNotFound
	}
	delete(r.workouts, id)
	delete(r.links, id)
	return nil
}

func (r *fakeWorkoutRepo) Link(_ context.Context, workoutID, exerciseID int) error {
	if _, ok := r.workouts[workoutID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := r.exercises.exercises[exerciseID]; !ok {
		return store.ErrNotFound
	}
	if r.links[workoutID] == nil {
		r.links[workoutID] = make(map[int]bool)
	}
	if r.links[workoutID][exerciseID] {
		return store.ErrConflict
	}
	r.links[workoutID][exerciseID] = true
	return nil
}

func (r *fakeWorkoutRepo) Unlink(_ context.Context, workoutID, exerciseID int) error {
	if !r.links[workoutID][exerciseID] {
		return store.ErrNotFound
	}
	delete(r.links[workoutID], exerciseID)
	return nil
}

func (r *fakeWorkoutRepo) CreateExerciseLinked(ctx context.Context, workoutID int, exercise types.Exercise) (types.Exercise, error) {
	if _, ok := r.workouts[workoutID]; !ok {
		return types.Exercise{}, store.ErrNotFound
	}
	created, err := r.exercises.Create(ctx, exercise)
	if err != nil {
		return types.Exercise{}, err
	}
	if r.links[workoutID] == nil {
		r.links[workoutID] = make(map[int]bool)
	}
	r.links[workoutID][created.ID] = true
	return created, nil
}

func (r *fakeWorkoutRepo) ListExercises(_ context.Context, workoutID int) ([]types.Exercise, error) {
	return r.linkedExercises(workoutID), nil
}

func (r *fakeWorkoutRepo) GetExercise(_ context.Context, workoutID, exerciseID int) (types.Exercise, error) {
	if !r.links[workoutID][exerciseID] {
		return types.Exercise{}, store.ErrNotFound
	}
	exercise, ok := r.exercises.exercises[exerciseID]
	if !ok {
		return types.Exercise{}, store.ErrNotFound
	}
	return exercise, nil
}

func (r *fakeWorkoutRepo) linkedExercises(workoutID int) []types.Exercise {
	exercises := make([]types.Exercise, 0)
	for exerciseID := range r.links[workoutID] {
		if exercise, ok := r.exercises.exercises[exerciseID]; ok {
			exercises = append(exercises, exercise)
		}
	}
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].ID < exercises[j].ID })
	return exercises
}
