package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rogerio-castellano/kasir/internal/auth"
	"github.com/rogerio-castellano/kasir/internal/models"
	"github.com/rogerio-castellano/kasir/internal/repo"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrWeakCredentials    = errors.New("username or password too short")
	ErrInvalidRole        = errors.New("invalid role")
)

type AuthService struct {
	users repo.UserRepository
}

func NewAuthService(users repo.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a regular user and returns an access token for it.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	user, err := s.CreateUser(ctx, username, password, models.RoleUser)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repo.ErrUserNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(user)
}

func (s *AuthService) CreateUser(ctx context.Context, username, password, role string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrMissingCredentials
	}
	if len(username) < minUsernameLen || len(password) < minPasswordLen {
		return models.User{}, ErrWeakCredentials
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return models.User{}, ErrInvalidRole
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.users.CreateUser(ctx, models.User{Username: username, PasswordHash: hash, Role: role})
}

// EnsureAdmin creates the admin account unless the username is already taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.CreateUser(ctx, username, password, models.RoleAdmin)
	if errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return false, nil
	}
	return err == nil, err
}
