/*
Package auth is the authentication collaborator for the inventory API.

Credentials are checked against a user store holding bcrypt hashes; a
successful login issues a signed HS256 session token. The stock engine
knows nothing about authentication - this package only guards the HTTP
surface.
*/
package auth

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both unknown users and wrong
	// passwords; callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound = errors.New("user not found")
)

type Credentials struct {
	Username string
	Password string
}

type User struct {
	ID       string
	Username string
	Name     string
	Role     string
}

// StoredUser is a user record with its password hash. Only stores see it.
type StoredUser struct {
	User
	PasswordHash string
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// UserStore resolves users for authentication.
type UserStore interface {
	UserByUsername(ctx context.Context, username string) (StoredUser, error)
}

// Service authenticates credentials and issues sessions.
type Service struct {
	store  UserStore
	secret string
	ttl    time.Duration
}

func NewService(store UserStore, secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = TokenExpiry
	}
	return &Service{store: store, secret: secret, ttl: ttl}
}

// Authenticate verifies credentials and returns a signed session.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Session, error) {
	stored, err := s.store.UserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(creds.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.ttl)
	token, err := GenerateToken(s.secret, stored.User, expiresAt)
	if err != nil {
		return Session{}, err
	}

	return Session{Token: token, ExpiresAt: expiresAt, User: stored.User}, nil
}

// Verify validates a session token and returns the user it names.
func (s *Service) Verify(tokenStr string) (User, error) {
	claims, err := ValidateToken(s.secret, tokenStr)
	if err != nil {
		return User{}, err
	}
	return User{
		ID:       claims.UserID,
		Username: claims.Username,
		Name:     claims.Name,
		Role:     claims.Role,
	}, nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
