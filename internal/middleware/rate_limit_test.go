package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-erp/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/leaves/my",
		func(c *gin.Context) {
			c.Set("user_id", c.GetHeader("X-User"))
			c.Next()
		},
		middleware.RateLimitByUser(rate.Limit(0.001), 2),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/leaves/my", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("alice"))
	assert.Equal(t, http.StatusOK, call("alice"))
	assert.Equal(t, http.StatusTooManyRequests, call("alice"))

	// buckets are per user
	assert.Equal(t, http.StatusOK, call("bob"))

	// anonymous requests are not limited here
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, call(""))
	}
}

func TestKeyedRateLimiter_ReusesLimiter(t *testing.T) {
	k := middleware.NewKeyedRateLimiter(rate.Limit(1), 1)

	assert.Same(t, k.GetLimiter("a"), k.GetLimiter("a"))
	assert.NotSame(t, k.GetLimiter("a"), k.GetLimiter("b"))
}
