// Package service holds the admin authentication flows and the content
// event publisher used by the HTTP handlers.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/utils"
)

// MinPasswordLength is the shortest password change-password accepts.
const MinPasswordLength = 6

// maxPasswordBytes is the longest input bcrypt hashes.
const maxPasswordBytes = 72

var (
	// ErrInvalidCredentials hides whether the username or the password
	// was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")
)

// AdminStore is the persistence AuthService needs.
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*model.AdminUser, error)
	GetByID(ctx context.Context, id uint64) (*model.AdminUser, error)
	TouchLastLogin(ctx context.Context, id uint64, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uint64, hash string) error
}

// AuthService verifies admin credentials and issues access tokens.
type AuthService struct {
	Admins    AdminStore
	Secret    string
	TTL       time.Duration
	Passwords utils.PasswordHasher
	Log       *slog.Logger
	Now       func() time.Time
}

// NewAuthService wires an AuthService with the real clock.
func NewAuthService(admins AdminStore, secret string, ttl time.Duration, bcryptCost int, log *slog.Logger) *AuthService {
	return &AuthService{
		Admins:    admins,
		Secret:    secret,
		TTL:       ttl,
		Passwords: utils.NewPasswordHasher(bcryptCost),
		Log:       log,
		Now:       time.Now,
	}
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Admin     model.AdminSummary
}

// Login checks username and password and issues a token for the admin.
// The username must match exactly. Recording last_login and upgrading a
// hash made at an outdated bcrypt cost are best effort and never fail the
// login.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	admin, err := s.Admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !s.Passwords.Verify(admin.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if s.Passwords.NeedsRehash(admin.PasswordHash) {
		s.rehash(ctx, admin.ID, password)
	}

	now := s.Now()
	tok, err := utils.NewAccessToken(s.Secret, model.Identity{ID: admin.ID, Username: admin.Username, Role: admin.Role}, s.TTL, now)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	if err := s.Admins.TouchLastLogin(ctx, admin.ID, now); err != nil {
		s.Log.Warn("record last login failed", "admin_id", admin.ID, "err", err)
	}

	return LoginResult{Token: tok.Token, ExpiresAt: tok.Exp, Admin: admin.Summary()}, nil
}

func (s *AuthService) rehash(ctx context.Context, id uint64, password string) {
	hash, err := s.Passwords.Hash(password)
	if err == nil {
		err = s.Admins.UpdatePasswordHash(ctx, id, hash)
	}
	if err != nil {
		s.Log.Warn("password rehash failed", "admin_id", id, "err", err)
		return
	}
	s.Log.Info("password rehashed", "admin_id", id, "cost", s.Passwords.Cost())
}

// Verify decodes a raw access token into the identity it carries.
func (s *AuthService) Verify(raw string) (model.Identity, error) {
	return utils.ParseAccessToken(s.Secret, raw, s.Now())
}

// Profile loads the public summary of the admin behind id.
func (s *AuthService) Profile(ctx context.Context, id uint64) (model.AdminSummary, error) {
	admin, err := s.Admins.GetByID(ctx, id)
	if err != nil {
		return model.AdminSummary{}, err
	}
	return admin.Summary(), nil
}

// ChangePassword replaces the admin's password after checking the current
// one. Tokens issued before the change stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, id uint64, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", ErrValidation)
	}
	if len(next) < MinPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters long", ErrValidation, MinPasswordLength)
	}
	if len(next) > maxPasswordBytes {
		return fmt.Errorf("%w: new password must be at most %d bytes long", ErrValidation, maxPasswordBytes)
	}

	admin, err := s.Admins.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.Passwords.Verify(admin.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	hash, err := s.Passwords.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Admins.UpdatePasswordHash(ctx, id, hash)
}
