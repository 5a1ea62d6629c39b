// ABOUTME: Unit tests for channel token generation and verification
// ABOUTME: Covers round trips, tampering, expiry and missing claims

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-key-for-channel-tokens")

func TestJWTVerifier_RoundTrip(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	for _, channelID := range []string{"webchat", "matrix", "emulator"} {
		token, err := verifier.Generate(channelID, time.Hour)
		if err != nil {
			t.Fatalf("Generate(%q) error = %v", channelID, err)
		}

		got, err := verifier.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if got != channelID {
			t.Errorf("Verify() = %q, want %q", got, channelID)
		}
	}
}

func TestJWTVerifier_NoExpiry(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token, err := verifier.Generate("webchat", 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	verifier.now = func() time.Time { return time.Now().Add(10 * 365 * 24 * time.Hour) }
	if _, err := verifier.Verify(token); err != nil {
		t.Errorf("Verify() error = %v, want nil", err)
	}
}

func TestJWTVerifier_Expired(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token, err := verifier.Generate("webchat", time.Minute)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	verifier.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTVerifier_Invalid(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	otherSecret, _ := NewJWTVerifier([]byte("different-secret")).Generate("webchat", time.Hour)
	foreignIssuer, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  "someone-else",
		Subject: "webchat",
	}).SignedString(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-jwt-token"},
		{"malformed JWT", "header.payload.signature"},
		{"wrong secret", otherSecret},
		{"wrong issuer", foreignIssuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestJWTVerifier_MissingSubject(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	if _, err := verifier.Generate("", time.Hour); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Generate(\"\") error = %v, want ErrMissingClaim", err)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Issuer: issuer}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Verify() error = %v, want ErrMissingClaim", err)
	}
}
