// Package router builds the echo instance: global middleware, the error
// handler and every route of the API.
package router

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/config"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/handler"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/middleware"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/storage"
)

// Deps is everything the routes need. Redis may be nil.
type Deps struct {
	Config  config.Config
	DB      *sql.DB
	Redis   *redis.Client
	Tokens  middleware.TokenVerifier
	Auth    *handler.AuthHandler
	Content *handler.ContentHandler
	Upload  *handler.UploadHandler
	Log     *slog.Logger
}

// New returns an echo instance with global middleware and all routes
// registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(requestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	RegisterRoutes(e, d)
	return e
}

// RegisterRoutes registers health, static, auth, upload and content routes.
func RegisterRoutes(e *echo.Echo, d Deps) {
	health := &handler.HealthHandler{DB: d.DB}
	e.GET("/healthz", health.Health)
	e.Static(storage.PublicPrefix, d.Config.UploadDir)

	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.Tokens),
		middleware.RequireRole(middleware.AdminRoles...),
	}

	RegisterAuth(e, d, admin)
	e.POST("/api/upload", d.Upload.Upload, admin...)
	RegisterContent(e, d, admin)
}

// RegisterAuth mounts /api/auth. Login is public and rate limited; the
// rest needs a valid admin token.
func RegisterAuth(e *echo.Echo, d Deps, admin []echo.MiddlewareFunc) {
	g := e.Group("/api/auth")
	g.POST("/login", d.Auth.Login, middleware.RateLimit(d.Config.RateLimit, d.Redis, d.Log))
	g.GET("/verify", d.Auth.Verify, admin...)
	g.POST("/change-password", d.Auth.ChangePassword, admin...)
}

func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		msg := "Internal server error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("unhandled error", "method", c.Request().Method, "path", c.Request().URL.Path, "err", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, echo.Map{"error": msg})
		}
		if werr != nil {
			log.Warn("write error response", "err", werr)
		}
	}
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"ip", v.RemoteIP,
			}
			switch {
			case v.Error != nil && v.Status >= http.StatusInternalServerError:
				log.Error("request", append(attrs, "err", v.Error)...)
			case v.Status >= http.StatusBadRequest:
				log.Warn("request", attrs...)
			default:
				log.Info("request", attrs...)
			}
			return nil
		},
	})
}
