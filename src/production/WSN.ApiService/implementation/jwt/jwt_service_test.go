package jwt

import (
	"testing"
	"time"

	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewService(api_models.Config{
		SecretKey:           "test-secret",
		AccessTokenDuration: time.Hour,
		Issuer:              "wsn-test",
	})

	pair, err := svc.GenerateToken("u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if pair.AccessToken == "" || pair.TokenID == "" {
		t.Fatalf("expected token and token id, got %+v", pair)
	}

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u1" {
		t.Fatalf("expected user id u1, got %s", claims.UserID)
	}
	if claims.TokenID != pair.TokenID {
		t.Fatalf("token id mismatch: %s vs %s", claims.TokenID, pair.TokenID)
	}
	if claims.Issuer != "wsn-test" {
		t.Fatalf("expected issuer wsn-test, got %s", claims.Issuer)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewService(api_models.Config{SecretKey: "secret-a", AccessTokenDuration: time.Hour})
	verifier := NewService(api_models.Config{SecretKey: "secret-b", AccessTokenDuration: time.Hour})

	pair, err := issuer.GenerateToken("u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ValidateAccessToken(pair.AccessToken); err == nil {
		t.Fatalf("expected validation failure with a different secret")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService(api_models.Config{SecretKey: "test-secret", AccessTokenDuration: -time.Minute})

	pair, err := svc.GenerateToken("u1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := svc.ValidateAccessToken(pair.AccessToken); err == nil {
		t.Fatalf("expected validation failure for expired token")
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService(api_models.Config{SecretKey: "test-secret", AccessTokenDuration: time.Hour})
	if _, err := svc.ValidateAccessToken("not.a.token"); err == nil {
		t.Fatalf("expected validation failure for malformed token")
	}
}
