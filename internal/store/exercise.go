package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fitplanner/apiserver/types"
)

// ExerciseRepository handles persistence for catalog exercises.
type ExerciseRepository struct {
	db *sql.DB
}

func NewExerciseRepository(db *sql.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) List(ctx context.Context) ([]types.Exercise, error) {
	const query = `
		SELECT id, name, description, calories_per_minute, exercise_type, created_at
		FROM exercises
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
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

func (r *ExerciseRepository) Get(ctx context.Context, id int) (types.Exercise, error) {
	const query = `
		SELECT id, name, description, calories_per_minute, exercise_type, created_at
		FROM exercises
		WHERE id = $1`
	exercise, err := scanExercise(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Exercise{}, ErrNotFound
		}
		return types.Exercise{}, err
	}
	return exercise, nil
}

func (r *ExerciseRepository) Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	exercise.CreatedAt = time.Now()

	const query = `
		INSERT INTO exercises (name, description, calories_per_minute, exercise_type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		exercise.Name,
		exercise.Description,
		exercise.CaloriesPerMinute,
		exercise.ExerciseType,
		exercise.CreatedAt,
	).Scan(&exercise.ID)
	if err != nil {
		return types.Exercise{}, err
	}
	return exercise, nil
}

func (r *ExerciseRepository) Update(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	const query = `
		UPDATE exercises
		SET name = $1,
			description = $2,
			calories_per_minute = $3,
			exercise_type = $4
		WHERE id = $5`
	result, err := r.db.ExecContext(
		ctx,
		query,
		exercise.Name,
		exercise.Description,
		exercise.CaloriesPerMinute,
		exercise.ExerciseType,
		exercise.ID,
	)
	if err != nil {
		return types.Exercise{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Exercise{}, err
	}
	if affected == 0 {
		return types.Exercise{}, ErrNotFound
	}
	return exercise, nil
}

// Delete removes the catalog entry. Link rows referencing it are removed by
// the schema's cascade rules.
func (r *ExerciseRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM exercises WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (types.Exercise, error) {
	var exercise types.Exercise
	var description sql.NullString
	err := row.Scan(
		&exercise.ID,
		&exercise.Name,
		&description,
		&exercise.CaloriesPerMinute,
		&exercise.ExerciseType,
		&exercise.CreatedAt,
	)
	if err != nil {
		return types.Exercise{}, err
	}
	exercise.Description = description.String
	return exercise, nil
}
