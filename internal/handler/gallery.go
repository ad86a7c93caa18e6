package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
)

// ListGallery handles GET /api/gallery (active slides only).
func (h *ContentHandler) ListGallery(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Gallery.List(ctx)
	if err != nil {
		return h.repoError(c, EntityGallery, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListAllGallery handles GET /api/gallery/all.
func (h *ContentHandler) ListAllGallery(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Gallery.ListAll(ctx)
	if err != nil {
		return h.repoError(c, EntityGallery, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetGalleryImage handles GET /api/gallery/:id.
func (h *ContentHandler) GetGalleryImage(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	item, err := h.Gallery.GetByID(ctx, id)
	if err != nil {
		return h.repoError(c, EntityGallery, err)
	}
	if hidden(c, item.IsActive) {
		return notFound(c, EntityGallery)
	}
	return c.JSON(http.StatusOK, item)
}

// CreateGalleryImage handles POST /api/gallery.
func (h *ContentHandler) CreateGalleryImage(c echo.Context) error {
	var p model.GalleryPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if !requireText(p.ImageURL) {
		return badRequest(c, "image_url is required")
	}

	item := model.GalleryImage{IsActive: true}
	p.Apply(&item)

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Gallery.Create(ctx, &item); err != nil {
		return h.repoError(c, EntityGallery, err)
	}
	h.publish(c, EntityGallery, queue.ActionCreated, item.ID)
	return c.JSON(http.StatusCreated, item)
}

// UpdateGalleryImage handles PUT /api/gallery/:id.
func (h *ContentHandler) UpdateGalleryImage(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var p model.GalleryPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if blankIfSet(p.ImageURL) {
		return badRequest(c, "image_url cannot be empty")
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	item, err := h.Gallery.Update(ctx, id, p)
	if err != nil {
		return h.repoError(c, EntityGallery, err)
	}
	h.publish(c, EntityGallery, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, item)
}

// DeleteGalleryImage handles DELETE /api/gallery/:id. Gallery rows are
// removed outright; use is_active to hide a slide instead.
func (h *ContentHandler) DeleteGalleryImage(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Gallery.Delete(ctx, id); err != nil {
		return h.repoError(c, EntityGallery, err)
	}
	return h.deleted(c, EntityGallery, id)
}
