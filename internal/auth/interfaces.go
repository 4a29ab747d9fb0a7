package auth

import "time"

// TokenClaims are the verified contents of a bearer token
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-limited bearer tokens.
// Implementations: JWTService (HS256) and PasetoService (v4.local).
type TokenService interface {
	// Issue returns a token for subject, or an error wrapping ErrSigning
	Issue(subject string) (string, error)
	// Verify returns the claims, or ErrInvalidToken / ErrExpiredToken
	Verify(token string) (*TokenClaims, error)
}
