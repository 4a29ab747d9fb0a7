package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenUser struct {
	ID string `json:"id"`
}

// jwtClaims keeps the {"user":{"id":...}} payload next to the registered claims
type jwtClaims struct {
	User tokenUser `json:"user"`
	jwt.RegisteredClaims
}

// JWTService signs HS256 JWTs with a shared secret
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTService(secret []byte, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for iat, exp and expiry checks
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

func (s *JWTService) Issue(subject string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("%w: signing secret is not configured", ErrSigning)
	}
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrSigning)
	}

	now := s.now()
	claims := jwtClaims{
		User: tokenUser{ID: subject},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenStr string) (*TokenClaims, error) {
	if len(s.secret) == 0 || tokenStr == "" {
		return nil, ErrInvalidToken
	}

	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.User.ID
	}
	if subject == "" {
		return nil, ErrInvalidToken
	}

	result := &TokenClaims{
		Subject:   subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}
