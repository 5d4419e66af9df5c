package app

import (
	"database/sql"

	"go-erp/internal/config"
	"go-erp/internal/employee"
	"go-erp/internal/leave"
	"go-erp/internal/leave/accrual"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/middleware"
	"go-erp/internal/rbac"
	"go-erp/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	casualQuota := leave.NewCasualQuotaService(employeeRepo, rdb, leave.CasualQuotaConfig{
		DaysPerMonth: cfg.Leave.CasualDaysPerMonth,
		AnnualCap:    cfg.Leave.CasualAnnualCap,
		CacheTTL:     cfg.Leave.CasualCacheTTL,
	})
	leaveService := leave.NewService(db, leaveRepo, casualQuota,
		leave.WithPolicy(accrual.DefaultPolicy().WithTotals(cfg.Leave.QuotaOverrides)),
		leave.WithOutbox(outboxRepo),
	)

	// --- Handlers ---
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	{
		leave.RegisterRoutes(api, leaveHandler, leave.RouteDeps{
			RBAC:      rbacService,
			JWTSecret: cfg.JWTSecret,
			Redis:     rdb,
			Logger:    logger,
			RateLimit: middleware.RateLimitByUser(rate.Limit(cfg.HTTP.RatePerSecond), cfg.HTTP.RateBurst),
		})
	}

	return nil
}
