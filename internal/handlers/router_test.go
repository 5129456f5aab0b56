package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fitplanner/apiserver/internal/handlers"
	"github.com/fitplanner/apiserver/internal/services"
	"github.com/go-chi/chi/v5"
)

const (
	testSecret   = "test-secret"
	testTokenTTL = 15 * time.Minute
)

// testEnv wires the real routers and services over in-memory repositories,
// mirroring the wiring in internal/server.
type testEnv struct {
	router    *chi.Mux
	users     *fakeUserRepo
	exercises *fakeExerciseRepo
	workouts  *fakeWorkoutRepo
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	exercises := newFakeExerciseRepo()
	workouts := newFakeWorkoutRepo(exercises)

	userService := services.NewUserService(users)
	exerciseService := services.NewExerciseService(exercises)
	workoutService := services.NewWorkoutService(workouts, exercises)

	authMiddleware := handlers.RequireUser(userService, testSecret)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, testSecret, testTokenTTL)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UserRouter(r, userService, authMiddleware)
	})
	router.Route("/exercises", func(r chi.Router) {
		handlers.ExerciseRouter(r, exerciseService)
	})
	router.Route("/workouts", func(r chi.Router) {
		handlers.WorkoutRouter(r, workoutService, authMiddleware)
	})

	return &testEnv{
		router:    router,
		users:     users,
		exercises: exercises,
		workouts:  workouts,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// signup registers a user and returns the bearer token from the response
// header, stripped of its prefix.
func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"name":             "Test User",
		"email":            email,
		"password":         "p",
		"experience_level": "beginner",
		"goal":             "endurance",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup failed with %d: %s", rr.Code, rr.Body.String())
	}

	header := rr.Header().Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		t.Fatalf("expected bearer token in Authorization header, got %q", header)
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, value any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), value); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
}
