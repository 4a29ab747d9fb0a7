package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redmonkez12/go-auth-api/internal/logging"
	"github.com/redmonkez12/go-auth-api/internal/user"
)

// RegisterInput is the body of POST /users
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"min=6,maxbytes=72"`
}

// LoginInput is the body of POST /auth
type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Token string `json:"token"`
}

// Service handles authentication business logic
type Service struct {
	directory user.Directory
	hasher    Hasher
	tokens    TokenService
	avatar    user.AvatarFunc
	logger    *logging.Logger
}

func NewService(
	directory user.Directory,
	hasher Hasher,
	tokens TokenService,
	avatar user.AvatarFunc,
	logger *logging.Logger,
) *Service {
	if avatar == nil {
		avatar = user.DefaultAvatar
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		directory: directory,
		hasher:    hasher,
		tokens:    tokens,
		avatar:    avatar,
		logger:    logger,
	}
}

// Register creates a user and returns a token for it
func (s *Service) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = user.NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return "", err
	}

	_, err := s.directory.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return "", ErrUserExists
	case !errors.Is(err, user.ErrNotFound):
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	passwordHash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.directory.Create(ctx, &user.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Avatar:       s.avatar(in.Email),
	})
	if err != nil {
		// lost the race against a concurrent registration
		if errors.Is(err, user.ErrDuplicateEmail) {
			return "", ErrUserExists
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", created.ID)
	return token, nil
}

// Login checks credentials and returns a token. An unknown email and a wrong
// password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = user.NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return "", err
	}

	found, err := s.directory.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, in.Password, found.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(found.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// Profile verifies the token and loads the user it names, without the hash
func (s *Service) Profile(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	u, err := s.directory.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return u.Profile(), nil
}
