package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/contact/export/csv", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestAllowedOriginGetsCredentials(t *testing.T) {
	r := newRouter(New([]string{"https://portal.example.com/"}))

	req := httptest.NewRequest(http.MethodGet, "/contact/export/csv", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://portal.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestUnknownOriginIsNotEchoed(t *testing.T) {
	r := newRouter(New([]string{"https://portal.example.com"}))

	req := httptest.NewRequest(http.MethodGet, "/contact/export/csv", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestWildcardAndPreflight(t *testing.T) {
	r := newRouter(WithOptions(Options{AllowedOrigins: []string{"*"}, MaxAgeSeconds: 60}))

	req := httptest.NewRequest(http.MethodOptions, "/contact/export/csv", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "60", w.Header().Get("Access-Control-Max-Age"))
}
