package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", mw, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func hitFrom(r *gin.Engine, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	r := newLimitedRouter(RateLimit(0.0001, 3))

	for i := 0; i < 3; i++ {
		w := hitFrom(r, "10.1.0.1:5000")
		require.Equal(t, http.StatusOK, w.Code, "request %d", i)
	}

	w := hitFrom(r, "10.1.0.1:5000")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	r := newLimitedRouter(RateLimit(0.0001, 1))

	require.Equal(t, http.StatusOK, hitFrom(r, "10.2.0.1:5000").Code)
	require.Equal(t, http.StatusTooManyRequests, hitFrom(r, "10.2.0.1:5000").Code)

	// a different client ip gets its own bucket
	require.Equal(t, http.StatusOK, hitFrom(r, "10.2.0.2:5000").Code)
}
