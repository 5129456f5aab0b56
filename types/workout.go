package types

import "time"

// WorkoutType categorizes a workout.
type WorkoutType string

const (
	WorkoutStrength    WorkoutType = "strength"
	WorkoutCardio      WorkoutType = "cardio"
	WorkoutFlexibility WorkoutType = "flexibility"
)

// Valid reports whether the value is one of the known workout types.
func (w WorkoutType) Valid() bool {
	switch w {
	case WorkoutStrength, WorkoutCardio, WorkoutFlexibility:
		return true
	}
	return false
}

// Workout represents a training session owned by exactly one user.
// Only the owner may read, modify, or delete it.
type Workout struct {
	// ID is the unique identifier of the workout.
	ID int `json:"id" db:"id"`

	// Name is the human-readable name of the workout.
	Name string `json:"name" db:"name"`

	// Description optionally explains the workout.
	Description string `json:"description" db:"description"`

	// DurationMinutes is the planned length of the workout. Always positive.
	DurationMinutes int `json:"duration_minutes" db:"duration_minutes"`

	// WorkoutType categorizes the workout.
	WorkoutType WorkoutType `json:"workout_type" db:"workout_type"`

	// UserID identifies the owning user.
	UserID int `json:"user_id" db:"user_id"`

	// CreatedAt is the timestamp at which the workout was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Exercises holds the catalog exercises linked to this workout.
	// Populated on reads; membership order is not significant.
	Exercises []Exercise `json:"exercises"`
}
