package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/medyosystem/medyo-golang/internal/config"
)

const testJWTSecret = "test-secret"

// newTestHandlers wires a Handlers instance to a sqlmock database.
func newTestHandlers(t *testing.T) (*Handlers, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}

	h := &Handlers{
		DB: db,
		Cfg: &config.Config{
			JWTSecret: testJWTSecret,
			TokenTTL:  24 * time.Hour,
		},
	}
	return h, mock, db
}

// testRouter registers the handlers without the auth guard; the guard
// has its own tests in the middleware package.
func testRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)

	r.GET("/api/inventory", h.ListInventoryItems)
	r.POST("/api/inventory", h.CreateInventoryItem)
	r.GET("/api/inventory/summary", h.GetInventorySummary)
	r.GET("/api/inventory/:id", h.GetInventoryItem)
	r.PUT("/api/inventory/:id", h.UpdateInventoryItem)
	r.DELETE("/api/inventory/:id", h.DeleteInventoryItem)

	r.GET("/api/inventory/categories", h.GetCategories)
	r.POST("/api/inventory/categories", h.CreateCategory)
	r.PUT("/api/inventory/categories/:name", h.RenameCategory)
	r.DELETE("/api/inventory/categories/:name", h.DeleteCategory)

	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// registerForm builds the multipart body the register endpoint expects.
func registerForm(t *testing.T, fields map[string]string, avatar []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if avatar != nil {
		fw, err := mw.CreateFormFile("avatar", "avatar.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(avatar); err != nil {
			t.Fatalf("write avatar: %v", err)
		}
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func sqlmockTime() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func doRegister(r *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
