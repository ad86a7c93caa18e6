package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/storage"
)

// multipartOverhead is the allowance for boundaries and headers on top of
// the file size limit when capping the request body.
const multipartOverhead = 1 << 20

// UploadHandler stores files sent by the admin dashboard.
type UploadHandler struct {
	Uploader *storage.Uploader
	Log      *slog.Logger
}

func NewUploadHandler(u *storage.Uploader, log *slog.Logger) *UploadHandler {
	return &UploadHandler{Uploader: u, Log: log}
}

// Upload handles POST /api/upload with a single multipart file.
func (h *UploadHandler) Upload(c echo.Context) error {
	r := c.Request()
	r.Body = http.MaxBytesReader(c.Response(), r.Body, h.Uploader.MaxBytes+multipartOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		if bodyTooLarge(err) {
			return badRequest(c, h.Uploader.TooLargeMessage())
		}
		return badRequest(c, "No file uploaded")
	}
	defer func() { _ = form.RemoveAll() }()

	field, fh, err := storage.PickFile(form)
	if err != nil {
		return badRequest(c, "No file uploaded")
	}

	stored, err := h.Uploader.Save(field, fh)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return badRequest(c, h.Uploader.TooLargeMessage())
	case errors.Is(err, storage.ErrUnsupportedType):
		return badRequest(c, "Invalid file type. Only images and PDFs are allowed.")
	case err != nil:
		h.Log.Error("upload failed", "field", field, "file", fh.Filename, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Upload failed", "details": err.Error()})
	}

	resp := echo.Map{
		"success":      true,
		"url":          stored.URL,
		"filePath":     stored.URL,
		"path":         stored.URL,
		"filename":     stored.Filename,
		"originalName": stored.OriginalName,
		"size":         stored.Size,
		"mimetype":     stored.MimeType,
		"fieldName":    stored.FieldName,
	}
	if stored.ThumbnailURL != "" {
		resp["thumbnailUrl"] = stored.ThumbnailURL
	}
	return c.JSON(http.StatusOK, resp)
}

func bodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}
