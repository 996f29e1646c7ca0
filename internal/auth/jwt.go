// Package auth provides machine-to-machine authentication for the runner
// API: clients exchange their credentials for a short-lived JWT and present
// it as a bearer token on subsequent calls.
//
// JWT is stateless: the server verifies the HMAC signature with its secret,
// no session storage or DB lookup needed.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "code-runner"

// tokenLifetime is how long issued access tokens stay valid.
const tokenLifetime = time.Hour

// TokenService handles JWT creation and validation. It holds the HMAC secret
// used to sign and verify tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: RUNNER_JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; "sub" carries the client ID.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a new access token for the given clientID.
func (s *TokenService) Generate(clientID string) (string, error) {
	return s.GenerateWithDuration(clientID, tokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests and anywhere a non-standard lifetime is needed.
func (s *TokenService) GenerateWithDuration(clientID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the client ID from
// the "sub" claim.
//
// Pinning the algorithm with jwt.WithValidMethods prevents algorithm
// confusion attacks; pinning the issuer rejects tokens minted by other apps
// sharing the secret.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
