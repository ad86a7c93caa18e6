package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/middleware"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/service"
)

// dbTimeout bounds the database work of a single request.
const dbTimeout = 5 * time.Second

// Entity names used in events, cache namespaces and error messages.
const (
	EntityNews        = "news"
	EntityCareer      = "career"
	EntityProduct     = "product"
	EntityCertificate = "certificate"
	EntityGallery     = "gallery"
)

// ContentHandler serves the CRUD endpoints of every content entity.
type ContentHandler struct {
	News         *repository.NewsRepo
	Careers      *repository.CareerRepo
	Products     *repository.ProductRepo
	Certificates *repository.CertificateRepo
	Gallery      *repository.GalleryRepo
	Events       service.EventPublisher
	Log          *slog.Logger
	Now          func() time.Time
}

// NewContentHandler constructs a ContentHandler and panics if a repository
// is missing. A nil publisher drops events.
func NewContentHandler(news *repository.NewsRepo, careers *repository.CareerRepo, products *repository.ProductRepo,
	certs *repository.CertificateRepo, gallery *repository.GalleryRepo, events service.EventPublisher, log *slog.Logger) *ContentHandler {
	if news == nil || careers == nil || products == nil || certs == nil || gallery == nil {
		panic("nil repository passed to NewContentHandler")
	}
	if events == nil {
		events = service.NopPublisher{}
	}
	return &ContentHandler{
		News:         news,
		Careers:      careers,
		Products:     products,
		Certificates: certs,
		Gallery:      gallery,
		Events:       events,
		Log:          log,
		Now:          time.Now,
	}
}

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func invalidID(c echo.Context) error { return badRequest(c, "invalid id") }

func invalidBody(c echo.Context) error { return badRequest(c, "invalid request body") }

var labels = map[string]string{
	EntityNews:        "News",
	EntityCareer:      "Career",
	EntityProduct:     "Product",
	EntityCertificate: "Certificate",
	EntityGallery:     "Gallery image",
}

// label is the subject used in client-facing messages for entity.
func label(entity string) string {
	if l, ok := labels[entity]; ok {
		return l
	}
	return entity
}

// repoError maps a repository failure to its response: 404 for
// ErrNotFound, 500 with the underlying message otherwise.
func notFound(c echo.Context, entity string) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": label(entity) + " not found"})
}

// hidden reports whether an inactive row must look missing to the caller.
func hidden(c echo.Context, active bool) bool {
	return !active && !middleware.IsAdmin(c)
}

func (h *ContentHandler) repoError(c echo.Context, entity string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(c, entity)
	}
	h.Log.Error("content query failed", "entity", entity, "method", c.Request().Method, "path", c.Path(), "err", err)
	return storageError(c, err)
}

func storageError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error", "details": err.Error()})
}

func (h *ContentHandler) deleted(c echo.Context, entity string, id uint64) error {
	h.publish(c, entity, queue.ActionDeleted, id)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": label(entity) + " deleted successfully"})
}

// publish reports a content change without holding up the response.
// Failures are logged by the publisher.
func (h *ContentHandler) publish(c echo.Context, entity, action string, id uint64) {
	ev := queue.ContentChangedEvent{Entity: entity, Action: action, ID: id, OccurredAt: h.Now().UTC()}
	if admin, ok := middleware.CurrentAdmin(c); ok {
		ev.ActorID = admin.ID
		ev.Actor = admin.Username
	}
	ctx := context.WithoutCancel(c.Request().Context())
	go func() {
		ctx, cancel := context.WithTimeout(ctx, dbTimeout)
		defer cancel()
		if err := h.Events.Publish(ctx, ev); err != nil {
			h.Log.Debug("content event dropped", "entity", entity, "action", action, "id", id, "err", err)
		}
	}()
}

func requireText(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// blankIfSet reports whether an update explicitly clears a required field.
func blankIfSet(v *string) bool {
	return v != nil && strings.TrimSpace(*v) == ""
}

func parseBoolQuery(c echo.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
