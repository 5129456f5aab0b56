package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitplanner/apiserver/types"
	"github.com/lib/pq"
)

// WorkoutRepository handles persistence for workouts and their exercise
// links. Reads are scoped by owning user in SQL, so a workout that exists
// but belongs to someone else is indistinguishable from a missing one.
type WorkoutRepository struct {
	db *sql.DB
}

func NewWorkoutRepository(db *sql.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) ListByUser(ctx context.Context, userID int) ([]types.Workout, error) {
	const query = `
		SELECT id, name, description, duration_minutes, workout_type, user_id, created_at
		FROM workouts
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]types.Workout, 0)
	ids := make([]int, 0)
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
		ids = append(ids, workout.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return workouts, nil
	}

	const linkQuery = `
		SELECT we.workout_id, e.id, e.name, e.description, e.calories_per_minute, e.exercise_type, e.created_at
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = ANY($1)
		ORDER BY e.id`
	linkRows, err := r.db.QueryContext(ctx, linkQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer linkRows.Close()

	byID := make(map[int]*types.Workout, len(workouts))
	for i := range workouts {
		byID[workouts[i].ID] = &workouts[i]
	}
	for linkRows.Next() {
		var workoutID int
		var exercise types.Exercise
		var description sql.NullString
		if err := linkRows.Scan(
			&workoutID,
			&exercise.ID,
			&exercise.Name,
			&description,
			&exercise.CaloriesPerMinute,
			&exercise.ExerciseType,
			&exercise.CreatedAt,
		); err != nil {
			return nil, err
		}
		exercise.Description = description.String
		if workout, ok := byID[workoutID]; ok {
			workout.Exercises = append(workout.Exercises, exercise)
		}
	}
	if err := linkRows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Get loads a workout owned by userID together with its linked exercises.
// Both reads happen inside one transaction so the ownership check and the
// link fetch observe the same snapshot.
func (r *WorkoutRepository) Get(ctx context.Context, id, userID int) (types.Workout, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return types.Workout{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const query = `
		SELECT id, name, description, duration_minutes, workout_type, user_id, created_at
		FROM workouts
		WHERE id = $1 AND user_id = $2`
	workout, err := scanWorkout(tx.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Workout{}, ErrNotFound
		}
		return types.Workout{}, err
	}

	workout.Exercises, err = listExercisesTx(ctx, tx, id)
	if err != nil {
		return types.Workout{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Workout{}, err
	}
	return workout, nil
}

func (r *WorkoutRepository) Create(ctx context.Context, workout types.Workout) (types.Workout, error) {
	workout.CreatedAt = time.Now()

	const query = `
		INSERT INTO workouts (name, description, duration_minutes, workout_type, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		workout.Name,
		workout.Description,
		workout.DurationMinutes,
		workout.WorkoutType,
		workout.UserID,
		workout.CreatedAt,
	).Scan(&workout.ID)
	if err != nil {
		return types.Workout{}, err
	}
	workout.Exercises = []types.Exercise{}
	return workout, nil
}

func (r *WorkoutRepository) Update(ctx context.Context, workout types.Workout) (types.Workout, error) {
	const query = `
		UPDATE workouts
		SET name = $1,
			description = $2,
			duration_minutes = $3,
			workout_type = $4
		WHERE id = $5 AND user_id = $6`
	result, err := r.db.ExecContext(
		ctx,
		query,
		workout.Name,
		workout.Description,
		workout.DurationMinutes,
		workout.WorkoutType,
		workout.ID,
		workout.UserID,
	)
	if err != nil {
		return types.Workout{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Workout{}, err
	}
	if affected == 0 {
		return types.Workout{}, ErrNotFound
	}
	return workout, nil
}

// Delete removes the workout. Link rows are removed by the schema's cascade
// rules; catalog exercises survive.
func (r *WorkoutRepository) Delete(ctx context.Context, id, userID int) error {
	const query = `DELETE FROM workouts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Link records that an exercise is part of a workout. A duplicate pair is
// reported as ErrConflict; a vanished workout or exercise as ErrNotFound.
func (r *WorkoutRepository) Link(ctx context.Context, workoutID, exerciseID int) error {
	const query = `
		INSERT INTO workout_exercises (workout_id, exercise_id)
		VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, workoutID, exerciseID); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Unlink removes a workout-exercise link. The catalog entry is untouched.
func (r *WorkoutRepository) Unlink(ctx context.Context, workoutID, exerciseID int) error {
	const query = `
		DELETE FROM workout_exercises
		WHERE workout_id = $1 AND exercise_id = $2`
	result, err := r.db.ExecContext(ctx, query, workoutID, exerciseID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateExerciseLinked inserts a catalog exercise and links it to the
// workout in one transaction, rolling back both on any failure.
func (r *WorkoutRepository) CreateExerciseLinked(ctx context.Context, workoutID int, exercise types.Exercise) (types.Exercise, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Exercise{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exercise.CreatedAt = time.Now()

	const insertQuery = `
		INSERT INTO exercises (name, description, calories_per_minute, exercise_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err = tx.QueryRowContext(
		ctx,
		insertQuery,
		exercise.Name,
		exercise.Description,
		exercise.CaloriesPerMinute,
		exercise.ExerciseType,
		exercise.CreatedAt,
	).Scan(&exercise.ID)
	if err != nil {
		return types.Exercise{}, err
	}

	const linkQuery = `
		INSERT INTO workout_exercises (workout_id, exercise_id)
		VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, linkQuery, workoutID, exercise.ID); err != nil {
		if isForeignKeyViolation(err) {
			return types.Exercise{}, ErrNotFound
		}
		return types.Exercise{}, err
	}

	if err := tx.Commit(); err != nil {
		return types.Exercise{}, err
	}
	return exercise, nil
}

func (r *WorkoutRepository) ListExercises(ctx context.Context, workoutID int) ([]types.Exercise, error) {
	const query = `
		SELECT e.id, e.name, e.description, e.calories_per_minute, e.exercise_type, e.created_at
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = $1
		ORDER BY e.id`
	rows, err := r.db.QueryContext(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]types.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetExercise returns the exercise only if it is linked to the workout.
func (r *WorkoutRepository) GetExercise(ctx context.Context, workoutID, exerciseID int) (types.Exercise, error) {
	const query = `
		SELECT e.id, e.name, e.description, e.calories_per_minute, e.exercise_type, e.created_at
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = $1 AND we.exercise_id = $2`
	exercise, err := scanExercise(r.db.QueryRowContext(ctx, query, workoutID, exerciseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Exercise{}, ErrNotFound
		}
		return types.Exercise{}, err
	}
	return exercise, nil
}

func listExercisesTx(ctx context.Context, tx *sql.Tx, workoutID int) ([]types.Exercise, error) {
	const query = `
		SELECT e.id, e.name, e.description, e.calories_per_minute, e.exercise_type, e.created_at
		FROM workout_exercises we
		JOIN exercises e ON e.id = we.exercise_id
		WHERE we.workout_id = $1
		ORDER BY e.id`
	rows, err := tx.QueryContext(ctx, query, workoutID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]types.Exercise, 0)
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}

func scanWorkout(row rowScanner) (types.Workout, error) {
	var workout types.Workout
	var description sql.NullString
	err := row.Scan(
		&workout.ID,
		&workout.Name,
		&description,
		&workout.DurationMinutes,
		&workout.WorkoutType,
		&workout.UserID,
		&workout.CreatedAt,
	)
	if err != nil {
		return types.Workout{}, err
	}
	workout.Description = description.String
	workout.Exercises = []types.Exercise{}
	return workout, nil
}
