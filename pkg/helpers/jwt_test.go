package helpers

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("a-secret", "r-secret", time.Minute, time.Hour)
	id := Identity{UserID: "u1", Email: "u1@example.com", Name: "U One"}

	tok, exp, err := m.GenerateAccessToken(id, "sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if d := time.Until(exp); d <= 0 || d > time.Minute {
		t.Errorf("expiry %v not within ttl", exp)
	}
	claims, err := m.ParseAccessToken(tok)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "u1@example.com" || claims.Name != "U One" || claims.SessionID != "sid-1" {
		t.Errorf("claims = %+v", claims)
	}
	if _, err := m.ParseRefreshToken(tok); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("a-secret", "r-secret", -time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken(Identity{UserID: "u1"}, "sid")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseAccessToken(tok); err == nil {
		t.Error("expired token accepted")
	}
}

func TestForeignSecretRejected(t *testing.T) {
	a := NewJWTManager("one", "one-r", time.Minute, time.Hour)
	b := NewJWTManager("two", "two-r", time.Minute, time.Hour)
	tok, _, _ := a.GenerateAccessToken(Identity{UserID: "u1"}, "sid")
	if _, err := b.ParseAccessToken(tok); err == nil {
		t.Error("token signed with another secret accepted")
	}
}
