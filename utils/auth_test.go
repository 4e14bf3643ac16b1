package utils

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWTToken("profile-1", "alex@example.com")
	if err != nil {
		t.Fatalf("GenerateJWTToken failed: %v", err)
	}

	claims, err := ParseJWTToken(token)
	if err != nil {
		t.Fatalf("ParseJWTToken failed: %v", err)
	}
	if claims.ProfileID != "profile-1" {
		t.Errorf("profile id = %q, want profile-1", claims.ProfileID)
	}
	if claims.Email != "alex@example.com" {
		t.Errorf("email = %q, want alex@example.com", claims.Email)
	}

	valid, email, err := ValidateTokenAndFetchEmail(token)
	if err != nil || !valid {
		t.Fatalf("ValidateTokenAndFetchEmail failed: valid=%v err=%v", valid, err)
	}
	if email != "alex@example.com" {
		t.Errorf("validated email = %q", email)
	}
}

func TestParseJWTTokenRejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret")
	if _, err := ParseJWTToken("not-a-token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestExtractNameFromEmail(t *testing.T) {
	if name := ExtractNameFromEmail("riley@example.com"); name != "riley" {
		t.Errorf("got %q, want riley", name)
	}
	if name := ExtractNameFromEmail("noatsign"); name != "noatsign" {
		t.Errorf("got %q, want noatsign", name)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !CheckPasswordHash("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateSecretHash(t *testing.T) {
	a := GenerateSecretHash("user", "client", "secret")
	b := GenerateSecretHash("user", "client", "secret")
	if a != b {
		t.Error("secret hash should be deterministic")
	}
	if a == GenerateSecretHash("other", "client", "secret") {
		t.Error("different usernames should hash differently")
	}
}

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, 6, 15, 18, 30, 45, 0, time.UTC)
	start := StartOfDay(ts)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("StartOfDay = %v, want midnight", start)
	}
	if !start.Before(ts) {
		t.Error("midnight should precede the timestamp")
	}
	if start.Day() != ts.Day() {
		t.Errorf("StartOfDay moved the date: %v", start)
	}
}
