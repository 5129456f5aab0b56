package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitplanner/apiserver/internal/services"
	"github.com/fitplanner/apiserver/internal/store"
	"github.com/fitplanner/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// WorkoutHandler provides HTTP handlers for workouts and their exercise
// links. Every route requires an authenticated user; workouts owned by
// someone else are reported as not found.
type WorkoutHandler struct {
	workoutService *services.WorkoutService
}

// NewWorkoutHandler constructs a handler with the provided service.
func NewWorkoutHandler(workoutService *services.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// WorkoutRouter registers workout routes on the given router.
func WorkoutRouter(r chi.Router, workoutService *services.WorkoutService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewWorkoutHandler(workoutService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListWorkouts)
	r.Post("/", handler.CreateWorkout)
	r.Route("/{workoutID}", func(r chi.Router) {
		r.Get("/", handler.GetWorkout)
		r.Put("/", handler.UpdateWorkout)
		r.Delete("/", handler.DeleteWorkout)
		r.Post("/add-exercise", handler.AddExercise)
		r.Route("/exercises", func(r chi.Router) {
			r.Post("/", handler.CreateExercise)
			r.Get("/", handler.ListExercises)
			r.Route("/{exerciseID}", func(r chi.Router) {
				r.Get("/", handler.GetExercise)
				r.Put("/", handler.UpdateExercise)
				r.Delete("/", handler.RemoveExercise)
			})
		})
	})
}

func (h *WorkoutHandler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}

	workouts, err := h.workoutService.List(r.Context(), current.ID)
	if err != nil {
		writeInternalError(w, "failed to list workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (h *WorkoutHandler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	id, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.Get(r.Context(), id, current.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		writeInternalError(w, "failed to fetch workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (h *WorkoutHandler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}

	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.Create(r.Context(), types.Workout{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		WorkoutType:     req.WorkoutType,
	}, current.ID)
	if err != nil {
		writeInternalError(w, "failed to create workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (h *WorkoutHandler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	id, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	patch, err := req.patch()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	workout, err := h.workoutService.Update(r.Context(), id, current.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		writeInternalError(w, "failed to update workout", err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (h *WorkoutHandler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	id, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workoutService.Delete(r.Context(), id, current.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		writeInternalError(w, "failed to delete workout", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddExercise links an existing catalog exercise, identified by the
// exercise_id query parameter, to the workout.
func (h *WorkoutHandler) AddExercise(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	workoutID, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rawExerciseID := strings.TrimSpace(r.URL.Query().Get("exercise_id"))
	exerciseID, err := strconv.Atoi(rawExerciseID)
	if err != nil || exerciseID < 1 {
		writeError(w, http.StatusBadRequest, "invalid exercise_id")
		return
	}

	exercise, err := h.workoutService.AddExercise(r.Context(), workoutID, current.ID, exerciseID)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, "exercise already linked to workout")
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workout or exercise not found")
			return
		}
		writeInternalError(w, "failed to link exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

// CreateExercise creates a catalog exercise and links it to the workout in
// one transaction.
func (h *WorkoutHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	workoutID, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.workoutService.CreateExercise(r.Context(), workoutID, current.ID, types.Exercise{
		Name:              req.Name,
		Description:       req.Description,
		CaloriesPerMinute: req.CaloriesPerMinute,
		ExerciseType:      req.ExerciseType,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		writeInternalError(w, "failed to create exercise", err)
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (h *WorkoutHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	workoutID, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exercises, err := h.workoutService.ListExercises(r.Context(), workoutID, current.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "workout not found")
			return
		}
		writeInternalError(w, "failed to list exercises", err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (h *WorkoutHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	workoutID, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	exerciseID, err := parseIDParam(r, "exerciseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.workoutService.GetExercise(r.Context(), workoutID, current.ID, exerciseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exercise not linked to workout")
			return
		}
		writeInternalError(w, "failed to fetch exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (h *WorkoutHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	workoutID, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	exerciseID, err := parseIDParam(r, "exerciseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req UpdateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	patch, err := req.patch()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.workoutService.UpdateExercise(r.Context(), workoutID, current.ID, exerciseID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exercise not linked to workout")
			return
		}
		writeInternalError(w, "failed to update exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (h *WorkoutHandler) RemoveExercise(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}
	workoutID, err := parseIDParam(r, "workoutID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	exerciseID, err := parseIDParam(r, "exerciseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.workoutService.RemoveExercise(r.Context(), workoutID, current.ID, exerciseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exercise not linked to workout")
			return
		}
		writeInternalError(w, "failed to unlink exercise", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WorkoutRequest is the payload for creating a workout. Any caller-supplied
// owner is ignored; the owner is always the authenticated user.
type WorkoutRequest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	DurationMinutes int               `json:"duration_minutes"`
	WorkoutType     types.WorkoutType `json:"workout_type"`
}

func (req *WorkoutRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.DurationMinutes < 1 {
		return errors.New("duration_minutes must be positive")
	}
	if !req.WorkoutType.Valid() {
		return errors.New("invalid workout type")
	}
	return nil
}

// UpdateWorkoutRequest represents a partial workout update.
type UpdateWorkoutRequest struct {
	Name            *string            `json:"name"`
	Description     *string            `json:"description"`
	DurationMinutes *int               `json:"duration_minutes"`
	WorkoutType     *types.WorkoutType `json:"workout_type"`
}

func (req UpdateWorkoutRequest) patch() (services.WorkoutPatch, error) {
	if req.DurationMinutes != nil && *req.DurationMinutes < 1 {
		return services.WorkoutPatch{}, errors.New("duration_minutes must be positive")
	}
	if req.WorkoutType != nil && *req.WorkoutType != "" && !req.WorkoutType.Valid() {
		return services.WorkoutPatch{}, errors.New("invalid workout type")
	}
	return services.WorkoutPatch{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		WorkoutType:     req.WorkoutType,
	}, nil
}
