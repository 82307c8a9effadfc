package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)

	token, expiresAt, err := tm.Generate("user-123", "marker-abc")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiry not in the future: %v", expiresAt)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: got %q want %q", claims.Subject, "user-123")
	}
	if claims.ID != "marker-abc" {
		t.Fatalf("marker mismatch: got %q want %q", claims.ID, "marker-abc")
	}
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", time.Nanosecond)

	token, _, err := tm.Generate("u1", "m1")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	_, err = tm.Parse(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("right-secret", time.Hour).Generate("u2", "m2")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	_, err = NewTokenManager("wrong-secret", time.Hour).Parse(token)
	if !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestParse_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := NewTokenManager("k", time.Hour).Parse("not.a.jwt")
	if !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestParse_TamperedToken(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("secret", time.Hour)
	token, _, err := tm.Generate("u3", "m3")
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := tm.Parse(tampered); !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken for tampered token, got %v", err)
	}
}
