package utils

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	signed, err := NewAccessToken("test-secret", TokenClaims{UserID: 42, PlatformRole: "admin"}, 15)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	claims, err := ParseToken("test-secret", signed.Token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.UserID != 42 || claims.PlatformRole != "admin" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	signed, err := NewRefreshToken("secret-a", TokenClaims{UserID: 7}, 30)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseToken("secret-b", signed.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("secret", "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestHashTokenRaw_Deterministic(t *testing.T) {
	a := HashTokenRaw("some-refresh-token")
	b := HashTokenRaw("some-refresh-token")
	if a != b {
		t.Fatalf("hash is not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashTokenRaw("another-token") {
		t.Fatal("distinct tokens must not collide")
	}
}

func TestNewInviteToken(t *testing.T) {
	tok, err := NewInviteToken()
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	if len(tok) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(tok))
	}
	other, err := NewInviteToken()
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	if tok == other {
		t.Fatal("two tokens must differ")
	}
}
