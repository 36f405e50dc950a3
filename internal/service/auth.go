// Package service contains the business logic layer: it validates input,
// enforces ownership and privilege rules, and orchestrates repositories.
// Handlers translate HTTP to these calls; nothing here knows about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quizzmate/backend/internal/apperror"
	"github.com/quizzmate/backend/internal/auth"
	"github.com/quizzmate/backend/internal/model"
	"github.com/quizzmate/backend/internal/repository"
)

// AuthService handles registration, login/logout, and token resolution.
// It is an explicitly constructed value holding its store and token source
// — no package-level state.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *auth.TokenSource
	logger   *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *auth.TokenSource,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// LoginResult bundles what the login endpoint returns to the client.
type LoginResult struct {
	Username string
	Email    string
	Token    string
	IsAdmin  bool
}

// Register creates a new account. The repository seeds the default
// flashcards into the new deck in the same transaction as the user row.
func (s *AuthService) Register(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return apperror.ValidationFailed("", "All fields are required")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: auth.HashPassword(password),
	}
	if err := s.users.CreateWithSeededCards(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return err
		}
		s.logger.Error("registration failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", email),
	)
	return nil
}

// Login verifies credentials and issues a fresh session token. Each login
// mints a new session row, so concurrent logins from several devices are
// all valid at once.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("", "Email and password required")
	}

	user, err := s.users.VerifyCredentials(ctx, email, auth.HashPassword(password))
	if err != nil {
		// Wrong password and unknown email look identical to the caller.
		return nil, err
	}

	token, err := s.tokens.SessionToken()
	if err != nil {
		return nil, fmt.Errorf("issuing session token: %w", err)
	}
	if err := s.sessions.CreateSession(ctx, user.Email, token); err != nil {
		return nil, fmt.Errorf("storing session: %w", err)
	}

	s.logger.Info("user logged in", slog.String("email", user.Email))

	return &LoginResult{
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
		IsAdmin:  user.IsAdmin,
	}, nil
}

// Logout revokes every session for the email. Revoking nothing means the
// user was not logged in, which the endpoint reports as a client error.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.ValidationFailed("email", "Email is required")
	}

	count, err := s.sessions.DeleteSessionsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}
	if count == 0 {
		return apperror.ValidationFailed("email", "User not logged in")
	}

	s.logger.Info("user logged out",
		slog.String("email", email),
		slog.Int64("sessionsRevoked", count),
	)
	return nil
}

// IdentityFromToken resolves a bearer token to the identity it belongs
// to. A token whose session row points at a since-deleted user resolves
// to nothing, same as an unknown token.
func (s *AuthService) IdentityFromToken(ctx context.Context, token string) (*model.Identity, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("missing token")
	}

	email, err := s.sessions.EmailByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("unknown user")
		}
		return nil, fmt.Errorf("resolving identity: %w", err)
	}

	return &model.Identity{Username: user.Username, Email: user.Email}, nil
}

// IsAdmin re-reads the admin flag from the credential store. Deliberately
// not cached: privilege revocation must bite on the next request.
func (s *AuthService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking admin flag: %w", err)
	}
	return user.IsAdmin, nil
}
