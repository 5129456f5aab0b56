package handlers_test

import (
	"net/http"
	"testing"
)

func TestGetOwnUser(t *testing.T) {
	env := newTestEnv()
	tok := env.signup(t, "a@x.com")

	rr := env.do(t, http.MethodGet, "/users/a@x.com", tok, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	decodeJSON(t, rr, &body)
	if body["email"] != "a@x.com" {
		t.Fatalf("unexpected email %v", body["email"])
	}
	if _, ok := body["password_hash"]; ok {
		t.Fatal("response must not contain the password digest")
	}
}

func TestGetOtherUserMasked(t *testing.T) {
	env := newTestEnv()
	env.signup(t, "a@x.com")
	tokB := env.signup(t, "b@x.com")

	rr := env.do(t, http.MethodGet, "/users/a@x.com", tokB, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other user's profile, got %d", rr.Code)
	}
}

func TestUpdateUserPartialPatch(t *testing.T) {
	env := newTestEnv()
	tok := env.signup(t, "a@x.com")

	rr := env.do(t, http.MethodPut, "/users/a@x.com", tok, map[string]any{
		"name": "Renamed",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body map[string]any
	decodeJSON(t, rr, &body)
	if body["name"] != "Renamed" {
		t.Fatalf("expected name to change, got %v", body["name"])
	}
	if body["email"] != "a@x.com" {
		t.Fatalf("email must be untouched, got %v", body["email"])
	}
	if body["experience_level"] != "beginner" || body["goal"] != "endurance" {
		t.Fatalf("unpatched fields must be untouched: %v", body)
	}
}

func TestUpdateUserPasswordRehash(t *testing.T) {
	env := newTestEnv()
	tok := env.signup(t, "a@x.com")

	rr := env.do(t, http.MethodPut, "/users/a@x.com", tok, map[string]any{
		"password": "new-password",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "a@x.com",
		"password": "p",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("old password must no longer work, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "a@x.com",
		"password": "new-password",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("new password must work, got %d", rr.Code)
	}
}

func TestUpdateOtherUserMasked(t *testing.T) {
	env := newTestEnv()
	env.signup(t, "a@x.com")
	tokB := env.signup(t, "b@x.com")

	rr := env.do(t, http.MethodPut, "/users/a@x.com", tokB, map[string]any{
		"name": "Hijacked",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv()
	tok := env.signup(t, "a@x.com")

	rr := env.do(t, http.MethodDelete, "/users/a@x.com", tok, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if len(env.users.users) != 0 {
		t.Fatalf("expected user row removed, %d remain", len(env.users.users))
	}
}

func TestListUsers(t *testing.T) {
	env := newTestEnv()
	env.signup(t, "a@x.com")
	env.signup(t, "b@x.com")

	rr := env.do(t, http.MethodGet, "/users", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var body []map[string]any
	decodeJSON(t, rr, &body)
	if len(body) != 2 {
		t.Fatalf("expected 2 users, got %d", len(body))
	}
	for _, user := range body {
		if _, ok := user["password_hash"]; ok {
			t.Fatal("listing must not contain password digests")
		}
	}
}
