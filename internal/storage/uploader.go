// Package storage writes uploaded files to the local upload directory.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var (
	// ErrNoFile means the multipart form carried no file.
	ErrNoFile = errors.New("no file uploaded")
	// ErrUnsupportedType means the declared MIME type is neither an image
	// nor a PDF.
	ErrUnsupportedType = errors.New("invalid file type. Only images and PDFs are allowed")
	// ErrTooLarge means the file exceeds the configured size limit.
	ErrTooLarge = errors.New("file too large")
)

// PublicPrefix is the URL prefix the upload directory is served under.
const PublicPrefix = "/uploads"

// preferredFields are tried in order before any other form field; admin
// forms have used both names over time.
var preferredFields = []string{"file", "image"}

// Uploader validates and stores uploaded files.
type Uploader struct {
	Dir            string
	MaxBytes       int64
	ThumbnailWidth int
	Log            *slog.Logger
	Now            func() time.Time
}

// NewUploader returns an Uploader writing below dir.
func NewUploader(dir string, maxBytes int64, thumbWidth int, log *slog.Logger) *Uploader {
	return &Uploader{Dir: dir, MaxBytes: maxBytes, ThumbnailWidth: thumbWidth, Log: log, Now: time.Now}
}

// Stored describes a file written by Save.
type Stored struct {
	URL          string
	Filename     string
	OriginalName string
	Size         int64
	MimeType     string
	FieldName    string
	ThumbnailURL string
}

// TooLargeMessage is the client-facing text for ErrTooLarge.
func (u *Uploader) TooLargeMessage() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB.", u.MaxBytes>>20)
}

// PickFile returns the first file of form, preferring the "file" and
// "image" fields.
func PickFile(form *multipart.Form) (string, *multipart.FileHeader, error) {
	if form == nil {
		return "", nil, ErrNoFile
	}
	for _, name := range preferredFields {
		if fhs := form.File[name]; len(fhs) > 0 {
			return name, fhs[0], nil
		}
	}
	for name, fhs := range form.File {
		if len(fhs) > 0 {
			return name, fhs[0], nil
		}
	}
	return "", nil, ErrNoFile
}

// Validate checks the declared type and the size of fh without touching
// the upload directory.
func (u *Uploader) Validate(fh *multipart.FileHeader) error {
	if fh.Size > u.MaxBytes {
		return ErrTooLarge
	}
	if !AllowedType(fh.Header.Get("Content-Type")) {
		return ErrUnsupportedType
	}
	return nil
}

// AllowedType reports whether a declared MIME type may be uploaded.
func AllowedType(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	return strings.HasPrefix(mime, "image/") || mime == "application/pdf"
}

// Save validates fh and writes it below Dir under a generated name.
func (u *Uploader) Save(field string, fh *multipart.FileHeader) (*Stored, error) {
	if err := u.Validate(fh); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := u.GenerateName(field, fh.Filename)
	dstPath := filepath.Join(u.Dir, name)
	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(dst, io.LimitReader(src, u.MaxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > u.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		if errors.Is(err, ErrTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	mime := fh.Header.Get("Content-Type")
	out := &Stored{
		URL:          path.Join(PublicPrefix, name),
		Filename:     name,
		OriginalName: fh.Filename,
		Size:         n,
		MimeType:     mime,
		FieldName:    field,
	}
	if thumb, ok := u.thumbnail(dstPath, name, mime); ok {
		out.ThumbnailURL = path.Join(PublicPrefix, thumb)
	}
	return out, nil
}

// GenerateName builds "<field>-<unix millis>-<random><ext>". The random
// part makes collisions negligible; no existence check is made.
func (u *Uploader) GenerateName(field, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	if field == "" {
		field = "file"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s-%d-%s%s", sanitizeField(field), u.Now().UnixMilli(), suffix, ext)
}

func sanitizeField(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// thumbnail writes a downscaled copy next to raster images. Failure is
// logged and never fails the upload.
func (u *Uploader) thumbnail(srcPath, name, mime string) (string, bool) {
	if u.ThumbnailWidth <= 0 {
		return "", false
	}
	switch strings.ToLower(mime) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif":
	default:
		return "", false
	}
	img, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		u.Log.Warn("thumbnail: decode failed", "file", name, "err", err)
		return "", false
	}
	if img.Bounds().Dx() <= u.ThumbnailWidth {
		return "", false
	}
	thumbName := "thumb-" + name
	resized := imaging.Resize(img, u.ThumbnailWidth, 0, imaging.Lanczos)
	if err := imaging.Save(resized, filepath.Join(u.Dir, thumbName)); err != nil {
		u.Log.Warn("thumbnail: save failed", "file", name, "err", err)
		return "", false
	}
	return thumbName, true
}
