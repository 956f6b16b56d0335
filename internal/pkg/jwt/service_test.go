package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

func TestHMACService_RoundTrip(t *testing.T) {
	svc := NewHMACService("secret", time.Hour)
	tok, err := svc.GenerateAdminToken("ops")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	c, err := svc.ValidateAdminToken(tok)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.Role != RoleAdmin || c.Subject != "ops" || c.ID == "" {
		t.Fatalf("unexpected claims %+v", c)
	}
}

func TestHMACService_Expired(t *testing.T) {
	svc := NewHMACService("secret", time.Minute)
	base := time.Now()
	svc.now = func() time.Time { return base }
	tok, err := svc.GenerateAdminToken("")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := svc.ValidateAdminToken(tok); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired, got %v", err)
	}
}

func TestHMACService_RejectsWrongSecretAndRole(t *testing.T) {
	tok, _ := NewHMACService("other", time.Hour).GenerateAdminToken("x")
	if _, err := NewHMACService("secret", time.Hour).ValidateAdminToken(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}

	userTok := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		Role: "employee",
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := userTok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewHMACService("secret", time.Hour).ValidateAdminToken(signed); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected not admin, got %v", err)
	}
}

func TestHMACService_NoSecret(t *testing.T) {
	if _, err := NewHMACService("", time.Hour).GenerateAdminToken("x"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected invalid, got %v", err)
	}
}
