package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-erp/internal/middleware"
	"go-erp/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDAndContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/leaves/my", withIdentity, middleware.ContextLogger(zap.New(core)), func(c *gin.Context) {
		ctx := c.Request.Context()
		assert.Equal(t, "emp-1", contextutil.GetUserID(ctx))
		contextutil.GetLogger(ctx, zap.NewNop()).Info("listing leaves")
		c.Status(http.StatusOK)
	})

	t.Run("echoes caller request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/leaves/my", nil)
		req.Header.Set("X-Request-ID", "rid-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "rid-42", w.Header().Get("X-Request-ID"))
		entries := logs.TakeAll()
		if assert.Len(t, entries, 1) {
			fields := entries[0].ContextMap()
			assert.Equal(t, "rid-42", fields["request_id"])
			assert.Equal(t, "emp-1", fields["employee_id"])
		}
	})

	t.Run("mints a request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/my", nil))

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
}
