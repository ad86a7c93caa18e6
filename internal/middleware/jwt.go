package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
)

// TokenVerifier turns a raw access token into the identity it was issued
// for. *service.AuthService implements it.
type TokenVerifier interface {
	Verify(raw string) (model.Identity, error)
}

// JWTAuth validates the access token in the Authorization header and
// stores the decoded identity in the context. A missing token yields 401,
// a bad or expired one 403. The database is not consulted.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
			}
			id, err := v.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid or expired token"})
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}

// OptionalJWT stores the identity behind a valid access token and lets
// every other request through anonymously. Handlers use it to show admins
// content hidden from the public.
func OptionalJWT(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)); raw != "" {
				if id, err := v.Verify(raw); err == nil {
					setIdentity(c, id)
				}
			}
			return next(c)
		}
	}
}

// bearerToken returns the credentials part of "<scheme> <token>", or ""
// when the header does not have that shape.
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}
