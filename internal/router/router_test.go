package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/config"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/handler"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/model"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/repository"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/service"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/storage"
	"github.com/okimsz/CDI-Sakata-Inx-Corp-sub000/internal/testutil"
)

type testApp struct {
	e     *echo.Echo
	repos struct {
		news  *repository.NewsRepo
		certs *repository.CertificateRepo
	}
	uploadDir string
}

func newTestApp(t *testing.T, maxUpload int64) *testApp {
	t.Helper()
	db := testutil.TestDB(t)
	log := testutil.TestLogger()

	admins := repository.NewAdminRepo(db)
	_, err := admins.Create(context.Background(), "admin", "secret123", model.RoleAdmin, bcrypt.MinCost)
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:      "test-secret",
		JWTExpiry:      time.Hour,
		BcryptCost:     bcrypt.MinCost,
		UploadDir:      t.TempDir(),
		UploadMaxBytes: maxUpload,
		CORSOrigins:    []string{"*"},
	}

	auth := service.NewAuthService(admins, cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost, log)
	news := repository.NewNewsRepo(db)
	certs := repository.NewCertificateRepo(db)
	content := handler.NewContentHandler(news, repository.NewCareerRepo(db), repository.NewProductRepo(db),
		certs, repository.NewGalleryRepo(db), service.NopPublisher{}, log)

	app := &testApp{uploadDir: cfg.UploadDir}
	app.repos.news = news
	app.repos.certs = certs
	app.e = New(Deps{
		Config:  cfg,
		DB:      db,
		Tokens:  auth,
		Auth:    handler.NewAuthHandler(auth),
		Content: content,
		Upload:  handler.NewUploadHandler(storage.NewUploader(cfg.UploadDir, cfg.UploadMaxBytes, 0, log), log),
		Log:     log,
	})
	return app
}

func (a *testApp) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) login(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "admin", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Success bool               `json:"success"`
		Token   string             `json:"token"`
		Admin   model.AdminSummary `json:"admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.True(t, out.Success)
	require.NotEmpty(t, out.Token)
	assert.Equal(t, "admin", out.Admin.Username)
	return out.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestLogin(t *testing.T) {
	app := newTestApp(t, 1<<20)

	rec := app.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "nobody", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	// usernames match exactly
	rec = app.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": " admin", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "  ", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Username and password are required"}`, rec.Body.String())

	token := app.login(t)
	assert.NotContains(t, app.do(t, http.MethodGet, "/api/auth/verify", token, nil).Body.String(), "password")
}

func TestVerifyAndChangePassword(t *testing.T) {
	app := newTestApp(t, 1<<20)

	rec := app.do(t, http.MethodGet, "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/api/auth/verify", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token := app.login(t)
	rec = app.do(t, http.MethodGet, "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"admin"`)

	rec = app.do(t, http.MethodPost, "/api/auth/change-password", token,
		echo.Map{"currentPassword": "secret123", "newPassword": "12345"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/auth/change-password", token,
		echo.Map{"currentPassword": "nope", "newPassword": "newsecret"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/auth/change-password", token,
		echo.Map{"currentPassword": "secret123", "newPassword": "newsecret"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Password changed successfully"}`, rec.Body.String())

	rec = app.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "admin", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = app.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "admin", "password": "newsecret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMutationsRequireToken(t *testing.T) {
	app := newTestApp(t, 1<<20)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/news"},
		{http.MethodPut, "/api/careers/1"},
		{http.MethodDelete, "/api/products/1"},
		{http.MethodPost, "/api/certificates"},
		{http.MethodDelete, "/api/gallery/1"},
		{http.MethodGet, "/api/certificates/all"},
		{http.MethodGet, "/api/gallery/all"},
		{http.MethodPost, "/api/upload"},
	} {
		rec := app.do(t, tc.method, tc.path, "", echo.Map{"title": "x"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}

	rec := app.do(t, http.MethodGet, "/api/news", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestFeaturedNewsMovesOnUpdate(t *testing.T) {
	app := newTestApp(t, 1<<20)
	token := app.login(t)

	for i := 1; i <= 5; i++ {
		rec := app.do(t, http.MethodPost, "/api/news", token, echo.Map{
			"title":      fmt.Sprintf("Story %d", i),
			"date":       fmt.Sprintf("2026-01-0%d", i),
			"isFeatured": i == 3,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := app.do(t, http.MethodPut, "/api/news/5", token, echo.Map{"isFeatured": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[model.News](t, rec).IsFeatured)

	items := decode[[]model.News](t, app.do(t, http.MethodGet, "/api/news", "", nil))
	require.Len(t, items, 5)
	featured := map[uint64]bool{}
	for _, n := range items {
		featured[n.ID] = n.IsFeatured
	}
	assert.True(t, featured[5])
	assert.False(t, featured[3])

	rec = app.do(t, http.MethodGet, "/api/news/featured", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(5), decode[model.News](t, rec).ID)

	count, err := app.repos.news.CountFeatured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewsCRUD(t *testing.T) {
	app := newTestApp(t, 1<<20)
	token := app.login(t)

	rec := app.do(t, http.MethodPost, "/api/news", token, echo.Map{"summary": "no title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/news", token, echo.Map{
		"title":      "Launch",
		"content":    `<p>hello</p><script>alert(1)</script>`,
		"categories": "Company, Events",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.News](t, rec)
	assert.Equal(t, model.StringList{"Company", "Events"}, created.Categories)
	assert.NotContains(t, created.Content, "script")

	rec = app.do(t, http.MethodPut, fmt.Sprintf("/api/news/%d", created.ID), token, echo.Map{"summary": "updated"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[model.News](t, rec)
	assert.Equal(t, "updated", updated.Summary)
	assert.Equal(t, "Launch", updated.Title)

	rec = app.do(t, http.MethodPut, "/api/news/999", token, echo.Map{"summary": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"News not found"}`, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/api/news/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := fmt.Sprintf("/api/news/%d", created.ID)
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, path, "", nil).Code)
}

func TestCertificateSoftDelete(t *testing.T) {
	app := newTestApp(t, 1<<20)
	token := app.login(t)

	var id uint64
	for i := 1; i <= 2; i++ {
		rec := app.do(t, http.MethodPost, "/api/certificates", token, echo.Map{"title": fmt.Sprintf("ISO %d", i), "display_order": i})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		id = decode[model.Certificate](t, rec).ID
	}

	path := fmt.Sprintf("/api/certificates/%d", id)
	rec := app.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)

	public := decode[[]model.Certificate](t, app.do(t, http.MethodGet, "/api/certificates", "", nil))
	require.Len(t, public, 1)
	assert.NotEqual(t, id, public[0].ID)

	all := decode[[]model.Certificate](t, app.do(t, http.MethodGet, "/api/certificates/all", token, nil))
	assert.Len(t, all, 2)

	// the row is hidden from the public but still visible to admins by id
	rec = app.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Certificate not found"}`, rec.Body.String())
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, path, "garbage", nil).Code)

	rec = app.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[model.Certificate](t, rec).IsActive)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodDelete, path, token, nil).Code)
}

func TestCareersAndProductsFilters(t *testing.T) {
	app := newTestApp(t, 1<<20)
	token := app.login(t)

	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/careers", token,
		echo.Map{"title": "Chemist", "requirements": []string{"BSc", "2 years"}}).Code)
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/careers", token,
		echo.Map{"title": "Closed role", "is_active": false}).Code)

	all := decode[[]model.Career](t, app.do(t, http.MethodGet, "/api/careers", "", nil))
	assert.Len(t, all, 2)
	active := decode[[]model.Career](t, app.do(t, http.MethodGet, "/api/careers?active=true", "", nil))
	require.Len(t, active, 1)
	assert.Equal(t, model.StringList{"BSc", "2 years"}, active[0].Requirements)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/careers?active=maybe", "", nil).Code)

	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/products", token,
		echo.Map{"title": "UV ink", "category": "ink"}).Code)
	require.Equal(t, http.StatusCreated, app.do(t, http.MethodPost, "/api/products", token,
		echo.Map{"title": "Cleaner", "category": "chemicals"}).Code)
	inks := decode[[]model.Product](t, app.do(t, http.MethodGet, "/api/products?category=ink", "", nil))
	require.Len(t, inks, 1)
	assert.Equal(t, "UV ink", inks[0].Title)
}

func TestGalleryHardDelete(t *testing.T) {
	app := newTestApp(t, 1<<20)
	token := app.login(t)

	rec := app.do(t, http.MethodPost, "/api/gallery", token, echo.Map{"title": "Plant"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/gallery", token, echo.Map{"title": "Plant", "image_url": "/uploads/a.jpg"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[model.GalleryImage](t, rec).ID

	path := fmt.Sprintf("/api/gallery/%d", id)

	rec = app.do(t, http.MethodPut, path, token, echo.Map{"is_active": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Gallery image not found"}`, rec.Body.String())
	rec = app.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[model.GalleryImage](t, rec).IsActive)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, path, "", nil).Code)
	assert.Empty(t, decode[[]model.GalleryImage](t, app.do(t, http.MethodGet, "/api/gallery/all", token, nil)))
}

func multipartBody(t *testing.T, field, filename, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), size))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (a *testApp) upload(t *testing.T, token string, body *bytes.Buffer, ct string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set(echo.HeaderContentType, ct)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	app := newTestApp(t, 1<<20)
	token := app.login(t)

	body, ct := multipartBody(t, "file", "brochure.pdf", "application/pdf", 1024)
	rec := app.upload(t, token, body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[map[string]any](t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "brochure.pdf", out["originalName"])
	assert.Equal(t, "file", out["fieldName"])
	url, _ := out["url"].(string)
	require.True(t, strings.HasPrefix(url, "/uploads/file-"), url)
	assert.Equal(t, url, out["filePath"])

	_, err := os.Stat(filepath.Join(app.uploadDir, filepath.Base(url)))
	require.NoError(t, err)

	// served back as a static file
	req := httptest.NewRequest(http.MethodGet, url, nil)
	srec := httptest.NewRecorder()
	app.e.ServeHTTP(srec, req)
	assert.Equal(t, http.StatusOK, srec.Code)
	assert.Equal(t, 1024, srec.Body.Len())

	body, ct = multipartBody(t, "file", "notes.txt", "text/plain", 10)
	rec = app.upload(t, token, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadTooLarge(t *testing.T) {
	app := newTestApp(t, 1<<20)
	token := app.login(t)

	// over the file limit but under the body cap
	body, ct := multipartBody(t, "image", "big.png", "image/png", (1<<20)+512)
	rec := app.upload(t, token, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"File too large. Maximum size is 1MB."}`, rec.Body.String())

	// over the body cap
	body, ct = multipartBody(t, "image", "huge.png", "image/png", 3<<20)
	rec = app.upload(t, token, body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"File too large. Maximum size is 1MB."}`, rec.Body.String())

	entries, err := os.ReadDir(app.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnknownRouteUsesJSONError(t *testing.T) {
	app := newTestApp(t, 1<<20)
	rec := app.do(t, http.MethodGet, "/api/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, 1<<20)
	rec := app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
