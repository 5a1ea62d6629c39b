// ABOUTME: HS256 bearer tokens issued to channel connectors
// ABOUTME: The "sub" claim names the channel that may post activities

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// issuer is stamped on generated tokens and required on verified ones.
const issuer = "picbot"

// TokenVerifier checks a bearer token and returns the channel it was issued to.
type TokenVerifier interface {
	Verify(token string) (channelID string, err error)
}

// JWTVerifier issues and verifies HS256 channel tokens.
type JWTVerifier struct {
	secret []byte
	now    func() time.Time
}

func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret, now: time.Now}
}

// Verify validates signature, expiry and issuer, then returns the "sub" claim.
func (v *JWTVerifier) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	channelID, err := parsed.Claims.GetSubject()
	if err != nil || channelID == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	return channelID, nil
}

// Generate signs a token for channelID. A zero expiresIn produces a token without expiry.
func (v *JWTVerifier) Generate(channelID string, expiresIn time.Duration) (string, error) {
	if channelID == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	now := v.now()
	claims := jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  channelID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if expiresIn > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(expiresIn))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
