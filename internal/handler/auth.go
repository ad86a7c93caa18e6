package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/middleware"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/service"
)

// Authenticator is the part of service.AuthService the auth endpoints use.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (service.LoginResult, error)
	Profile(ctx context.Context, id uint64) (model.AdminSummary, error)
	ChangePassword(ctx context.Context, id uint64, current, next string) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth Authenticator
}

func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login: check credentials and return an access token with the admin summary.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrValidation):
		return badRequest(c, "Username and password are required")
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	case err != nil:
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"admin":     res.Admin,
	})
}

// Verify: return the admin behind the bearer token. The identity comes from
// the token; the summary is read from the database so the response carries
// created_at.
func (h *AuthHandler) Verify(c echo.Context) error {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	profile, err := h.Auth.Profile(ctx, admin.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
	}
	if err != nil {
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "admin": profile})
}

// ChangePassword: replace the caller's password after checking the current one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	admin, ok := middleware.CurrentAdmin(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return badRequest(c, "Current password and new password are required")
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	err := h.Auth.ChangePassword(ctx, admin.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrValidation):
		return badRequest(c, validationMessage(err))
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Current password is incorrect"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
	case err != nil:
		return storageError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password changed successfully"})
}

// validationMessage strips the sentinel prefix from a wrapped ErrValidation
// and capitalises the rest for display.
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	if msg == "" {
		return "invalid input"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
