package token

import (
	"errors"
	"testing"
	"time"
)

var testSecret = []byte("test-secret")

func TestIssueValidateRoundTrip(t *testing.T) {
	tok, err := Issue("a@x.com", testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := Validate(tok, testSecret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestValidateAcceptsBearerPrefix(t *testing.T) {
	tok, err := Issue("a@x.com", testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := Validate("Bearer "+tok, testSecret)
	if err != nil {
		t.Fatalf("validate with prefix: %v", err)
	}
	if subject != "a@x.com" {
		t.Fatalf("unexpected subject %q", subject)
	}
}

func TestValidatePrefixIsCaseSensitive(t *testing.T) {
	tok, err := Issue("a@x.com", testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// A lowercase prefix is not stripped, so the value cannot decode.
	if _, err := Validate("bearer "+tok, testSecret); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestValidateNearExpiry(t *testing.T) {
	tok, err := Issue("a@x.com", testSecret, 2*time.Second)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Still inside the ttl.
	if _, err := Validate(tok, testSecret); err != nil {
		t.Fatalf("expected token to validate before expiry, got %v", err)
	}
}

func TestValidateExpired(t *testing.T) {
	tok, err := Issue("a@x.com", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Validate(tok, testSecret); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	tok, err := Issue("a@x.com", testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Validate(tok, []byte("other-secret")); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestValidateGarbage(t *testing.T) {
	for _, raw := range []string{"", "Bearer ", "not-a-token", "Bearer not.a.token"} {
		if _, err := Validate(raw, testSecret); !errors.Is(err, ErrMalformed) {
			t.Fatalf("input %q: expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestValidateMissingSubject(t *testing.T) {
	tok, err := Issue("", testSecret, 15*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := Validate(tok, testSecret); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}
