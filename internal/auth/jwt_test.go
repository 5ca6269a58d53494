package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

const testSecret = "test-secret-key"

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.NewString()

	token, expiresAt, err := NewAccessToken(testSecret, "petcare-api", "petcare-clients", time.Hour, userID, Claims{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Roles:    []string{"Owner"},
	})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Errorf("expiry %v not about an hour out", expiresAt)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != userID {
		t.Errorf("subject = %q, want %q", claims.Subject, userID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "Owner" {
		t.Errorf("roles = %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	userID := uuid.NewString()
	seen := make(map[string]bool)

	for i := 0; i < 5; i++ {
		token, _, err := NewAccessToken(testSecret, "petcare-api", "petcare-clients", time.Hour, userID, Claims{})
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		claims, err := ParseToken(testSecret, token)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("token id %q issued twice", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewAccessToken(testSecret, "petcare-api", "petcare-clients", time.Hour, uuid.NewString(), Claims{})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	if _, err := ParseToken("another-secret", token); err == nil {
		t.Error("expected an error for a token signed with a different secret")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := NewAccessToken(testSecret, "petcare-api", "petcare-clients", -time.Minute, uuid.NewString(), Claims{})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	if _, err := ParseToken(testSecret, token); err == nil {
		t.Error("expected an error for an expired token")
	}
}
