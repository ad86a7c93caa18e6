package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
)

// ListCertificates handles GET /api/certificates (active only).
func (h *ContentHandler) ListCertificates(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Certificates.List(ctx)
	if err != nil {
		return h.repoError(c, EntityCertificate, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListAllCertificates handles GET /api/certificates/all, including
// deactivated rows.
func (h *ContentHandler) ListAllCertificates(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Certificates.ListAll(ctx)
	if err != nil {
		return h.repoError(c, EntityCertificate, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetCertificate handles GET /api/certificates/:id.
func (h *ContentHandler) GetCertificate(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	item, err := h.Certificates.GetByID(ctx, id)
	if err != nil {
		return h.repoError(c, EntityCertificate, err)
	}
	if hidden(c, item.IsActive) {
		return notFound(c, EntityCertificate)
	}
	return c.JSON(http.StatusOK, item)
}

// CreateCertificate handles POST /api/certificates.
func (h *ContentHandler) CreateCertificate(c echo.Context) error {
	var p model.CertificatePatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if !requireText(p.Title) {
		return badRequest(c, "title is required")
	}

	item := model.Certificate{IsActive: true}
	p.Apply(&item)

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Certificates.Create(ctx, &item); err != nil {
		return h.repoError(c, EntityCertificate, err)
	}
	h.publish(c, EntityCertificate, queue.ActionCreated, item.ID)
	return c.JSON(http.StatusCreated, item)
}

// UpdateCertificate handles PUT /api/certificates/:id. Setting is_active
// back to true restores a deleted certificate.
func (h *ContentHandler) UpdateCertificate(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var p model.CertificatePatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if blankIfSet(p.Title) {
		return badRequest(c, "title cannot be empty")
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	item, err := h.Certificates.Update(ctx, id, p)
	if err != nil {
		return h.repoError(c, EntityCertificate, err)
	}
	h.publish(c, EntityCertificate, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, item)
}

// DeleteCertificate handles DELETE /api/certificates/:id by deactivating
// the row.
func (h *ContentHandler) DeleteCertificate(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Certificates.Delete(ctx, id); err != nil {
		return h.repoError(c, EntityCertificate, err)
	}
	return h.deleted(c, EntityCertificate, id)
}
