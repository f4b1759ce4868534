package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(origins []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAllowListedOrigin(t *testing.T) {
	w := serve([]string{"https://kickoff.example/"}, http.MethodGet, "https://kickoff.example")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://kickoff.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownOriginGetsNoAllowHeader(t *testing.T) {
	w := serve([]string{"https://kickoff.example"}, http.MethodGet, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuits(t *testing.T) {
	w := serve(nil, http.MethodOptions, "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
