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

// ExerciseHandler provides HTTP handlers for the shared exercise catalog.
type ExerciseHandler struct {
	exerciseService *services.ExerciseService
}

// NewExerciseHandler constructs a handler with the provided service.
func NewExerciseHandler(exerciseService *services.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// ExerciseRouter registers exercise-catalog routes on the given router.
// The catalog is shared, so no authentication applies here.
func ExerciseRouter(r chi.Router, exerciseService *services.ExerciseService) {
	handler := NewExerciseHandler(exerciseService)

	r.Post("/", handler.CreateExercise)
	r.Get("/", handler.ListExercises)
	r.Route("/{exerciseID}", func(r chi.Router) {
		r.Get("/", handler.GetExercise)
		r.Put("/", handler.UpdateExercise)
		r.Delete("/", handler.DeleteExercise)
	})
}

func (h *ExerciseHandler) ListExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.exerciseService.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list exercises", err)
		return
	}
	writeJSON(w, http.StatusOK, exercises)
}

func (h *ExerciseHandler) GetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "exerciseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exercise not found")
			return
		}
		writeInternalError(w, "failed to fetch exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (h *ExerciseHandler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	exercise, err := h.exerciseService.Create(r.Context(), types.Exercise{
		Name:              req.Name,
		Description:       req.Description,
		CaloriesPerMinute: req.CaloriesPerMinute,
		ExerciseType:      req.ExerciseType,
	})
	if err != nil {
		writeInternalError(w, "failed to create exercise", err)
		return
	}
	writeJSON(w, http.StatusCreated, exercise)
}

func (h *ExerciseHandler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "exerciseID")
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

	exercise, err := h.exerciseService.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exercise not found")
			return
		}
		writeInternalError(w, "failed to update exercise", err)
		return
	}
	writeJSON(w, http.StatusOK, exercise)
}

func (h *ExerciseHandler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "exerciseID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.exerciseService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exercise not found")
			return
		}
		writeInternalError(w, "failed to delete exercise", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExerciseRequest is the payload for creating a catalog exercise.
type ExerciseRequest struct {
	Name              string             `json:"name"`
	Description       string             `json:"description"`
	CaloriesPerMinute int                `json:"calories_per_minute"`
	ExerciseType      types.ExerciseType `json:"exercise_type"`
}

func (req *ExerciseRequest) validate() error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.CaloriesPerMinute < 1 {
		return errors.New("calories_per_minute must be positive")
	}
	if !req.ExerciseType.Valid() {
		return errors.New("invalid exercise type")
	}
	return nil
}

// UpdateExerciseRequest represents a partial catalog-exercise update.
type UpdateExerciseRequest struct {
	Name              *string             `json:"name"`
	Description       *string             `json:"description"`
	CaloriesPerMinute *int                `json:"calories_per_minute"`
	ExerciseType      *types.ExerciseType `json:"exercise_type"`
}

func (req UpdateExerciseRequest) patch() (services.ExercisePatch, error) {
	if req.CaloriesPerMinute != nil && *req.CaloriesPerMinute < 1 {
		return services.ExercisePatch{}, errors.New("calories_per_minute must be positive")
	}
	if req.ExerciseType != nil && *req.ExerciseType != "" && !req.ExerciseType.Valid() {
		return services.ExercisePatch{}, errors.New("invalid exercise type")
	}
	return services.ExercisePatch{
		Name:              req.Name,
		Description:       req.Description,
		CaloriesPerMinute: req.CaloriesPerMinute,
		ExerciseType:      req.ExerciseType,
	}, nil
}

func parseIDParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
