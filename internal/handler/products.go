package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/queue"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/utils"
)

// ListProducts handles GET /api/products?category=.
func (h *ContentHandler) ListProducts(c echo.Context) error {
	ctx, cancel := dbContext(c)
	defer cancel()

	items, err := h.Products.List(ctx, strings.TrimSpace(c.QueryParam("category")))
	if err != nil {
		return h.repoError(c, EntityProduct, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetProduct handles GET /api/products/:id.
func (h *ContentHandler) GetProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	item, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return h.repoError(c, EntityProduct, err)
	}
	return c.JSON(http.StatusOK, item)
}

// CreateProduct handles POST /api/products.
func (h *ContentHandler) CreateProduct(c echo.Context) error {
	var p model.ProductPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if !requireText(p.Title) {
		return badRequest(c, "title is required")
	}
	utils.SanitizeHTMLPtr(p.Description)

	item := model.Product{IsActive: true}
	p.Apply(&item)

	ctx, cancel := dbContext(c)
	defer cancel()
	if err := h.Products.Create(ctx, &item); err != nil {
		return h.repoError(c, EntityProduct, err)
	}
	h.publish(c, EntityProduct, queue.ActionCreated, item.ID)
	return c.JSON(http.StatusCreated, item)
}

// UpdateProduct handles PUT /api/products/:id.
func (h *ContentHandler) UpdateProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	var p model.ProductPatch
	if err := c.Bind(&p); err != nil {
		return invalidBody(c)
	}
	if blankIfSet(p.Title) {
		return badRequest(c, "title cannot be empty")
	}
	utils.SanitizeHTMLPtr(p.Description)

	ctx, cancel := dbContext(c)
	defer cancel()
	item, err := h.Products.Update(ctx, id, p)
	if err != nil {
		return h.repoError(c, EntityProduct, err)
	}
	h.publish(c, EntityProduct, queue.ActionUpdated, id)
	return c.JSON(http.StatusOK, item)
}

// DeleteProduct handles DELETE /api/products/:id.
func (h *ContentHandler) DeleteProduct(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		return h.repoError(c, EntityProduct, err)
	}
	return h.deleted(c, EntityProduct, id)
}
