package handlers

import (
	"CareLink/middlewares"
	"CareLink/models"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asActor simulates a validated session for handler tests.
func asActor(actor models.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(middlewares.WithActor(c.Request.Context(), actor))
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func doctorActor() models.Actor {
	return models.Actor{ID: "doc-1", Role: models.RoleDoctor}
}

func TestRecordGetByIDRejectsMalformedID(t *testing.T) {
	h := NewRecordHandler(nil, t.TempDir())
	router := gin.New()
	router.GET("/api/records/:id", asActor(doctorActor()), h.GetByID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "invalid record ID", body["error"])
}

func TestRecordGetByIDRequiresSession(t *testing.T) {
	h := NewRecordHandler(nil, t.TempDir())
	router := gin.New()
	router.GET("/api/records/:id", h.GetByID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records/5f0c1a34-9d7e-4b6a-8f21-3c1f6a2b9d10", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDownloadAttachmentRejectsPathTraversal(t *testing.T) {
	h := NewRecordHandler(nil, t.TempDir())
	router := gin.New()
	router.GET("/api/records/download", asActor(doctorActor()), h.DownloadAttachment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records/download?filename=..%2Fsecrets.txt", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "invalid filename", body["error"])
}

func TestDownloadAttachmentMissingFile(t *testing.T) {
	h := NewRecordHandler(nil, t.TempDir())
	router := gin.New()
	router.GET("/api/records/download", asActor(doctorActor()), h.DownloadAttachment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records/download?filename=missing.pdf", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadAttachmentStreamsStoredFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scan.pdf"), []byte("pdf-bytes"), 0o644))

	h := NewRecordHandler(nil, dir)
	router := gin.New()
	router.GET("/api/records/download", asActor(doctorActor()), h.DownloadAttachment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/records/download?filename=scan.pdf", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pdf-bytes", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "scan.pdf")
}
