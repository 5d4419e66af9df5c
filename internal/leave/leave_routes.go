package leave

import (
	"go-erp/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouteDeps struct {
	RBAC      middleware.RBACService
	JWTSecret string
	Redis     *redis.Client
	Logger    *zap.Logger
	RateLimit gin.HandlerFunc
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, deps RouteDeps) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(deps.JWTSecret))
	if deps.RateLimit != nil {
		leaves.Use(deps.RateLimit)
	}
	if deps.Logger != nil {
		leaves.Use(middleware.ContextLogger(deps.Logger))
	}

	create := []gin.HandlerFunc{}
	if deps.Redis != nil {
		create = append(create, middleware.Idempotency(deps.Redis))
	}
	create = append(create, handler.Create)

	{
		leaves.GET("/my", handler.ListMine)
		leaves.GET("/casualLeaveAvailable", handler.CasualAvailable)
		leaves.GET("/balances", handler.Balances)
		leaves.POST("/validate", handler.Validate)
		leaves.POST("", create...)
		leaves.PATCH("/:id", handler.Update)
		leaves.PATCH("/:id/review", middleware.RBACAuthorize(deps.RBAC, "leave", "review"), handler.Review)
		leaves.DELETE("/:id", middleware.RBACFlag(deps.RBAC, "leave", "delete", CanDeleteAnyLeave), handler.Delete)
		leaves.GET("", middleware.RBACAuthorize(deps.RBAC, "leave", "read_all"), handler.List)
		leaves.GET("/export", middleware.RBACAuthorize(deps.RBAC, "leave", "read_all"), handler.Export)
	}
}
