package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/weiwangfds/collegenotes/internal/errors"
	"github.com/weiwangfds/collegenotes/internal/response"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(), Recovery(), ErrorHandler())
	r.NoRoute(NoRoute())
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestErrorHandlerMapsKinds(t *testing.T) {
	r := newEngine()
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.ErrNoteNotFound) })
	r.GET("/invalid", func(c *gin.Context) { _ = c.Error(apperrors.Validation("year is required", "year")) })
	r.GET("/boom", func(c *gin.Context) { _ = c.Error(errors.New("db gone")) })

	tests := []struct {
		path    string
		status  int
		marker  string
		message string
	}{
		{"/missing", http.StatusNotFound, "fail", "Note not found"},
		{"/invalid", http.StatusBadRequest, "fail", "Validation failed: year is required"},
		{"/boom", http.StatusInternalServerError, "error", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.marker, body.Status)
			assert.Equal(t, tt.message, body.Message)
			assert.NotEmpty(t, body.RequestID)
			assert.Equal(t, body.RequestID, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestErrorBodyIsLocalized(t *testing.T) {
	r := newEngine()
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(apperrors.ErrNoteNotFound) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "笔记不存在", decode(t, w).Message)
}

func TestRecoveryAndNoRoute(t *testing.T) {
	r := newEngine()
	r.GET("/panic", func(c *gin.Context) { panic("unexpected") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", decode(t, w).Status)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decode(t, w).Message)
}

func TestRequestIDIsPropagated(t *testing.T) {
	r := newEngine()
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, response.GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}

func TestJSONBodyLoggingReadsOnlyThePrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	payload := `{"title":"` + strings.Repeat("x", 64<<10) + `"}`
	src := &countingReader{r: strings.NewReader(payload)}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/api/notes/1", io.NopCloser(src))
	c.Request.Header.Set("Content-Type", "application/json")

	logged := readJSONBody(c, 16)
	assert.Equal(t, payload[:16]+"...", logged)
	assert.Equal(t, 17, src.n)

	rest, err := io.ReadAll(c.Request.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(rest))
}
