package router

import (
	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/handler"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/middleware"
)

type crudHandlers struct {
	list, get, create, update, remove echo.HandlerFunc
}

// RegisterContent mounts /api/{news,careers,products,certificates,gallery}.
// Reads are public and cached per entity. Inactive certificates and gallery
// images are only visible by id to admins. Writes require an admin token
// and drop that entity's cache when they succeed.
func RegisterContent(e *echo.Echo, d Deps, admin []echo.MiddlewareFunc) {
	h := d.Content

	// registered before /:id so the static segments win
	news := e.Group("/api/news")
	news.GET("/featured", h.FeaturedNews, middleware.ResponseCache(d.Config.Cache, d.Redis, handler.EntityNews))
	registerCRUD(news, d, admin, handler.EntityNews, crudHandlers{
		h.ListNews, h.GetNews, h.CreateNews, h.UpdateNews, h.DeleteNews,
	})

	registerCRUD(e.Group("/api/careers"), d, admin, handler.EntityCareer, crudHandlers{
		h.ListCareers, h.GetCareer, h.CreateCareer, h.UpdateCareer, h.DeleteCareer,
	})

	registerCRUD(e.Group("/api/products"), d, admin, handler.EntityProduct, crudHandlers{
		h.ListProducts, h.GetProduct, h.CreateProduct, h.UpdateProduct, h.DeleteProduct,
	})

	certs := e.Group("/api/certificates")
	certs.GET("/all", h.ListAllCertificates, admin...)
	registerCRUD(certs, d, admin, handler.EntityCertificate, crudHandlers{
		h.ListCertificates, h.GetCertificate, h.CreateCertificate, h.UpdateCertificate, h.DeleteCertificate,
	})

	gallery := e.Group("/api/gallery")
	gallery.GET("/all", h.ListAllGallery, admin...)
	registerCRUD(gallery, d, admin, handler.EntityGallery, crudHandlers{
		h.ListGallery, h.GetGalleryImage, h.CreateGalleryImage, h.UpdateGalleryImage, h.DeleteGalleryImage,
	})
}

func registerCRUD(g *echo.Group, d Deps, admin []echo.MiddlewareFunc, entity string, h crudHandlers) {
	cache := middleware.ResponseCache(d.Config.Cache, d.Redis, entity)
	optional := middleware.OptionalJWT(d.Tokens)
	write := append(append([]echo.MiddlewareFunc(nil), admin...),
		middleware.InvalidateCache(d.Config.Cache, d.Redis, entity, d.Log))

	g.GET("", h.list, cache)
	g.GET("/:id", h.get, optional, cache)
	g.POST("", h.create, write...)
	g.PUT("/:id", h.update, write...)
	g.DELETE("/:id", h.remove, write...)
}
