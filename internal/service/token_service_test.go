package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Callmeduobgne/Luong-ban-hoa/internal/domain"
)

func testUser() domain.User {
	return domain.User{
		ID:       "u1",
		FullName: "Test User",
		Email:    "user@example.com",
		Phone:    "0912345678",
		Role:     domain.RoleUser,
		IsActive: true,
	}
}

func TestTokenService_GenerateParseAccess(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	pair, err := svc.GeneratePair(testUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected tokens")
	}
	if pair.ExpiresIn != 3600 {
		t.Fatalf("expected expires_in 3600, got %d", pair.ExpiresIn)
	}

	claims, err := svc.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "user@example.com" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_SecretsArePartitioned(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	pair, err := svc.GeneratePair(testUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	// Un refresh token no pasa como access token y viceversa.
	if _, err := svc.ParseAccessToken(pair.RefreshToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := svc.ParseRefreshToken(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	now := time.Now().UTC()
	claims := Claims{
		UserID: "u1",
		Email:  "user@example.com",
		Role:   domain.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "luong-ban-hoa",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	pair, err := svc.GeneratePair(testUser())
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	parts := strings.Split(pair.AccessToken, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three segments, got %d", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := svc.ParseAccessToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_MalformedToken(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := svc.ParseAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", token, err)
		}
	}
}
