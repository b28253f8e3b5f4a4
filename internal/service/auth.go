// Package service contains the business logic layer.
//
// Services accept primitives and return domain models plus typed apperror
// values; they know nothing about HTTP. Handlers above translate errors to
// status codes; repositories below own persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harulog/harulog/internal/apperror"
	"github.com/harulog/harulog/internal/auth"
	"github.com/harulog/harulog/internal/model"
	"github.com/harulog/harulog/internal/repository"
)

// Validation constants for user accounts.
const (
	MinPasswordLength = 8
	MaxUsernameLength = 50
	MaxEmailLength    = 255
)

// AuthService handles registration, login, and account maintenance.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all dependencies injected.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new active account.
//
// The email is normalized to lowercase. A duplicate-email check runs
// BEFORE hashing so a doomed request doesn't burn a bcrypt slot; the
// store's unique constraint still catches the race where two registrations
// for the same email interleave past the check.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or fewer", MaxUsernameLength))
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(email) > MaxEmailLength {
		return nil, apperror.ValidationFailed("email",
			fmt.Sprintf("email must be %d characters or fewer", MaxEmailLength))
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	taken, err := s.users.EmailExists(ctx, email, "")
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}
	if taken {
		return nil, apperror.Conflict("email already in use")
	}

	hash, err := s.passwords.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and issues an access token.
//
// Order matters: existence, then active status, then password. An unknown
// email and a wrong password produce identical 401 responses so the caller
// learns nothing about which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const badCredentials = "invalid email or password"

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		// Only a genuine miss reads as bad credentials. A store failure
		// must keep its cause so the HTTP layer reports 5xx, not 401.
		if errors.Is(err, apperror.ErrNotFound) {
			s.logger.Debug("login failed: unknown email")
			return "", apperror.Unauthenticated(badCredentials)
		}
		return "", fmt.Errorf("service/auth: fetching user by email: %w", err)
	}

	if !user.IsActive {
		return "", apperror.Forbidden("account is deactivated")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Debug("login failed: password mismatch", slog.String("userID", user.ID))
		return "", apperror.Unauthenticated(badCredentials)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return token, nil
}

// UpdateProfile changes username and/or email. Nil means "leave as is";
// at least one field must be supplied. Changing email re-checks uniqueness
// excluding the user themselves.
func (s *AuthService) UpdateProfile(ctx context.Context, user *model.User, username, email *string) (*model.User, error) {
	if username == nil && email == nil {
		return nil, apperror.ValidationFailed("", "nothing to update")
	}

	updated := *user

	if email != nil {
		newEmail := normalizeEmail(*email)
		if newEmail == "" {
			return nil, apperror.ValidationFailed("email", "email must not be empty")
		}
		if newEmail != user.Email {
			taken, err := s.users.EmailExists(ctx, newEmail, user.ID)
			if err != nil {
				return nil, fmt.Errorf("service/auth: checking email: %w", err)
			}
			if taken {
				return nil, apperror.Conflict("email already in use")
			}
			updated.Email = newEmail
		}
	}

	if username != nil {
		newUsername := strings.TrimSpace(*username)
		if newUsername == "" {
			return nil, apperror.ValidationFailed("username", "username must not be empty")
		}
		if len(newUsername) > MaxUsernameLength {
			return nil, apperror.ValidationFailed("username",
				fmt.Sprintf("username must be %d characters or fewer", MaxUsernameLength))
		}
		updated.Username = newUsername
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("service/auth: updating user %s: %w", user.ID, err)
	}

	return &updated, nil
}

// ChangePassword replaces the user's password after verifying the current
// one. A wrong current password is a validation failure, not an
// authentication failure: the caller already holds a valid token.
func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, currentPassword, newPassword string) error {
	if err := s.passwords.Verify(user.PasswordHash, currentPassword); err != nil {
		return apperror.ValidationFailed("current_password", "current password is incorrect")
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.passwords.Hash(ctx, newPassword)
	if err != nil {
		return fmt.Errorf("service/auth: hashing new password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("service/auth: storing new password for user %s: %w", user.ID, err)
	}

	s.logger.Info("password changed", slog.String("userID", user.ID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}
