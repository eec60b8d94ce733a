package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenSigner(t *testing.T) {
	signer := NewTokenSigner("test-secret")

	t.Run("round trip", func(t *testing.T) {
		token, exp, err := signer.Generate("sess-1", time.Hour)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if time.Until(exp) <= 0 {
			t.Fatalf("expiry in the past: %v", exp)
		}
		id, err := signer.Validate(token)
		if err != nil || id != "sess-1" {
			t.Fatalf("Validate = (%q, %v)", id, err)
		}
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token, _, _ := NewTokenSigner("other").Generate("sess-1", time.Hour)
		if _, err := signer.Validate(token); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("expired rejected", func(t *testing.T) {
		token, _, _ := signer.Generate("sess-1", -time.Minute)
		if _, err := signer.Validate(token); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty secret", func(t *testing.T) {
		if _, _, err := NewTokenSigner("").Generate("x", time.Hour); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestExtractToken(t *testing.T) {
	t.Run("bearer header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc")
		if tok, err := ExtractToken(r); err != nil || tok != "abc" {
			t.Fatalf("got (%q, %v)", tok, err)
		}
	})

	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "xyz"})
		if tok, err := ExtractToken(r); err != nil || tok != "xyz" {
			t.Fatalf("got (%q, %v)", tok, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ExtractToken(r); err != ErrNoToken {
			t.Fatalf("got %v", err)
		}
	})
}
