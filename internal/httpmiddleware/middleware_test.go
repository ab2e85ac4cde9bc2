package httpmiddleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestTokenBucketRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewSimpleTokenBucket(2, 2)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "1.2.3.4")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "buckets are per key")

	now = now.Add(30 * time.Second)
	ok, _ = l.Allow(ctx, "1.2.3.4")
	assert.True(t, ok)
}

func TestTokenBucketEvictsFullBuckets(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	l := NewSimpleTokenBucket(2, 2)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = l.Allow(ctx, "a")
	_, _ = l.Allow(ctx, "b")

	now = start.Add(30 * time.Second)
	_, _ = l.Allow(ctx, "c")
	assert.Len(t, l.state, 3, "no sweep within the first minute")

	now = start.Add(50 * time.Second)
	_, _ = l.Allow(ctx, "drained")
	_, _ = l.Allow(ctx, "drained")

	now = start.Add(61 * time.Second)
	ok, _ := l.Allow(ctx, "drained")
	assert.False(t, ok, "drained bucket must survive the sweep")
	_, _ = l.Allow(ctx, "d")

	assert.Len(t, l.state, 2)
	assert.Contains(t, l.state, "drained")
	assert.Contains(t, l.state, "d")
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func serve(r *gin.Engine, method string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/x", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewSimpleTokenBucket(1, 1)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, nil).Code)

	open := gin.New()
	open.Use(RateLimit(failingLimiter{}))
	open.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(open, http.MethodGet, nil).Code)
}

func TestCORSSingleOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:5173"))
	r.DELETE("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	pre := serve(r, http.MethodOptions, http.Header{
		"Origin":                        {"http://localhost:5173"},
		"Access-Control-Request-Method": {"DELETE"},
	})
	assert.Equal(t, http.StatusNoContent, pre.Code)
	assert.Equal(t, "http://localhost:5173", pre.Header().Get("Access-Control-Allow-Origin"))

	other := serve(r, http.MethodOptions, http.Header{
		"Origin":                        {"http://evil.example"},
		"Access-Control-Request-Method": {"DELETE"},
	})
	assert.Empty(t, other.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDHeader)) })

	w := serve(r, http.MethodGet, nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = serve(r, http.MethodGet, http.Header{RequestIDHeader: {"abc"}})
	assert.Equal(t, "abc", w.Body.String())
}
