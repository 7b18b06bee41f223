package auth

import (
	"testing"
	"time"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2-but-longer" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "hunter2-but-longer") {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() = true for wrong password")
	}
}

func TestTokenIssuer_AccessRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	token, err := issuer.IssueAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	claims, err := issuer.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != "user" {
		t.Errorf("Role = %q, want user", claims.Role)
	}
}

func TestTokenIssuer_RejectsRefreshAsAccess(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	refresh, err := issuer.IssueRefreshToken("user-1", "user")
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}

	if _, err := issuer.VerifyAccessToken(refresh); err == nil {
		t.Error("VerifyAccessToken() accepted a refresh token")
	}
	if _, err := issuer.VerifyRefreshToken(refresh); err != nil {
		t.Errorf("VerifyRefreshToken() error = %v", err)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a")
	other := NewTokenIssuer("secret-b")

	token, err := issuer.IssueAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	if _, err := other.VerifyAccessToken(token); err == nil {
		t.Error("VerifyAccessToken() accepted token signed with a different secret")
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret")

	past := time.Now().Add(-2 * AccessTokenTTL)
	issuer.now = func() time.Time { return past }
	token, err := issuer.IssueAccessToken("user-1", "user")
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.VerifyAccessToken(token); err == nil {
		t.Error("VerifyAccessToken() accepted an expired token")
	}
}
