package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/utils"
)

// ListNews handles GET /api/news, newest first.
func (h *ContentHandler) ListNews(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.News.List(ctx)
	if err != nil {
		return h.repoError(c, EntityNews, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetNews handles GET /api/news/:id.
func (h *ContentHandler) GetNews(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	n, err := h.News.GetByID(ctx, id)
	if err != nil {
		return h.repoError(c, EntityNews, err)
	}
	return c.JSON(http.StatusOK, n)
}

// FeaturedNews handles GET /api/news/featured.
func (h *ContentHandler) FeaturedNews(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	n, err := h.News.GetFeatured(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "No featured news"})
	}
	if err != nil {
		return h.repoError(c, EntityNews, err)
	}
	return c.JSON(http.StatusOK, n)
}

// CreateNews handles POST /api/news. A featured article replaces the
// current one.
func (h *ContentHandler) CreateNews(c echo.Context) error {
	var p model.NewsPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if !requireText(p.Title) {
		return badRequest(c, "title is required")
	}
	utils.SanitizeHTMLPtr(p.Content)

	n := model.News{Date: h.Now().Format("2006-01-02")}
	p.Apply(&n)

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.News.Create(ctx, &n); err != nil {
		return h.repoError(c, EntityNews, err)
	}
	h.publish(c, EntityNews, queue.ActionCreated, n.ID)
	return c.JSON(http.StatusCreated, n)
}

// UpdateNews handles PUT /api/news/:id. Only fields present in the body
// change.
func (h *ContentHandler) UpdateNews(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var p model.NewsPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if blankIfSet(p.Title) {
		return badRequest(c, "title cannot be empty")
	}
	utils.SanitizeHTMLPtr(p.Content)

	ctx, cancel := dbContext(c)
	defer cancel()
	n, err := h.News.Update(ctx, id, p)
	if err != nil {
		return h.repoError(c, EntityNews, err)
	}
	h.publish(c, EntityNews, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, n)
}

// DeleteNews handles DELETE /api/news/:id.
func (h *ContentHandler) DeleteNews(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.News.Delete(ctx, id); err != nil {
		return h.repoError(c, EntityNews, err)
	}
	return h.deleted(c, EntityNews, id)
}
