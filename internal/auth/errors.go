package auth

import "errors"

var (
	// ErrUserExists is returned by Register when the email is already taken
	ErrUserExists = errors.New("User already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrUserNotFound means a valid token names a user that no longer exists
	ErrUserNotFound = errors.New("User not found")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrSigning      = errors.New("failed to sign token")

	ErrMalformedHash = errors.New("malformed password hash")
)

// IsAuthenticationError reports whether err means the bearer token is unusable
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpiredToken)
}
