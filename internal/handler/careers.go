package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/utils"
)

// ListCareers handles GET /api/careers?active=true|false.
func (h *ContentHandler) ListCareers(c echo.Context) error {
	active, err := parseBoolQuery(c, "active")
	if err != nil {
		return badRequest(c, "active must be true or false")
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Careers.List(ctx, active)
	if err != nil {
		return h.repoError(c, EntityCareer, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetCareer handles GET /api/careers/:id.
func (h *ContentHandler) GetCareer(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	item, err := h.Careers.GetByID(ctx, id)
	if err != nil {
		return h.repoError(c, EntityCareer, err)
	}
	return c.JSON(http.StatusOK, item)
}

// CreateCareer handles POST /api/careers. New postings are active unless
// the body says otherwise.
func (h *ContentHandler) CreateCareer(c echo.Context) error {
	var p model.CareerPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if !requireText(p.Title) {
		return badRequest(c, "title is required")
	}
	utils.SanitizeHTMLPtr(p.Description)

	item := model.Career{DatePosted: h.Now().Format("2006-01-02"), IsActive: true}
	p.Apply(&item)

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Careers.Create(ctx, &item); err != nil {
		return h.repoError(c, EntityCareer, err)
	}
	h.publish(c, EntityCareer, queue.ActionCreated, item.ID)
	return c.JSON(http.StatusCreated, item)
}

// UpdateCareer handles PUT /api/careers/:id.
func (h *ContentHandler) UpdateCareer(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var p model.CareerPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if blankIfSet(p.Title) {
		return badRequest(c, "title cannot be empty")
	}
	utils.SanitizeHTMLPtr(p.Description)

	ctx, cancel := dbContext(c)
	defer cancel()
	item, err := h.Careers.Update(ctx, id, p)
	if err != nil {
		return h.repoError(c, EntityCareer, err)
	}
	h.publish(c, EntityCareer, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, item)
}

// DeleteCareer handles DELETE /api/careers/:id.
func (h *ContentHandler) DeleteCareer(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Careers.Delete(ctx, id); err != nil {
		return h.repoError(c, EntityCareer, err)
	}
	return h.deleted(c, EntityCareer, id)
}
