package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/password"
	"chargehub/internal/repository"
)

// AuthService handles signup and login.
type AuthService struct {
	users  UserStore
	hasher password.Hasher
	tokens *TokenService
	logger *zap.Logger
}

// NewAuthService builds service.
func NewAuthService(users UserStore, hasher password.Hasher, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Signup registers a driver account and returns the user with a fresh token.
func (s *AuthService) Signup(ctx context.Context, email, plainPassword, fullName, phone string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", ErrInvalidInput
	}
	if len(plainPassword) < 8 {
		return nil, "", ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailTaken
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Phone:        strings.TrimSpace(phone),
		Role:         models.RoleDriver,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("driver registered", zap.Int64("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, plainPassword); err != nil {
		s.logger.Warn("invalid credentials", zap.String("email", email))
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the account for the authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
