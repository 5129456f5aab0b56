package types

import "time"

// ExerciseType categorizes a catalog exercise.
type ExerciseType string

const (
	ExerciseCardio      ExerciseType = "cardio"
	ExerciseStrength    ExerciseType = "strength"
	ExerciseFlexibility ExerciseType = "flexibility"
)

// Valid reports whether the value is one of the known exercise types.
func (e ExerciseType) Valid() bool {
	switch e {
	case ExerciseCardio, ExerciseStrength, ExerciseFlexibility:
		return true
	}
	return false
}

// Exercise represents an entry in the shared exercise catalog.
// Exercises are not owned by any single user and may be linked into
// many workouts.
type Exercise struct {
	// ID is the unique identifier of the exercise.
	ID int `json:"id" db:"id"`

	// Name is the human-readable name of the exercise.
	Name string `json:"name" db:"name"`

	// Description optionally explains how the exercise is performed.
	Description string `json:"description" db:"description"`

	// CaloriesPerMinute is the estimated calorie burn rate. Always positive.
	CaloriesPerMinute int `json:"calories_per_minute" db:"calories_per_minute"`

	// ExerciseType categorizes the exercise.
	ExerciseType ExerciseType `json:"exercise_type" db:"exercise_type"`

	// CreatedAt is the timestamp at which the exercise was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
