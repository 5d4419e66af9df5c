package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-erp/internal/config"
	"go-erp/internal/leave"
	"go-erp/internal/messaging/kafka"
	"go-erp/internal/messaging/kafka/producer"
	"go-erp/internal/shared/connection"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	outboxRetention      = 7 * 24 * time.Hour
	outboxPurgeSchedule  = "30 3 * * *"
	scheduledJobDeadline = time.Minute
)

func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	if err := cfg.RequireKafka(); err != nil {
		return err
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.DB.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler, err := newScheduler(ctx, cfg, redisClient, outboxRepo, logger)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	go producer.ProcessOutboxEvents(
		ctx,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.Kafka.PollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}

// newScheduler registers the periodic jobs. Casual quota accrues monthly, so
// the cached quotas are dropped on the accrual schedule and rebuilt lazily.
func newScheduler(
	ctx context.Context,
	cfg config.Config,
	rdb *redis.Client,
	outboxRepo kafka.OutboxRepository,
	logger *zap.Logger,
) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(cfg.Leave.CasualCacheSchedule, func() {
		jobCtx, cancel := context.WithTimeout(ctx, scheduledJobDeadline)
		defer cancel()

		n, err := leave.PurgeCasualQuotaCache(jobCtx, rdb)
		if err != nil {
			logger.Error("purge casual quota cache failed", zap.Error(err))
			return
		}
		logger.Info("casual quota cache purged", zap.Int("keys", n))
	})
	if err != nil {
		return nil, err
	}

	_, err = c.AddFunc(outboxPurgeSchedule, func() {
		jobCtx, cancel := context.WithTimeout(ctx, scheduledJobDeadline)
		defer cancel()

		n, err := outboxRepo.PurgeSent(jobCtx, outboxRetention)
		if err != nil {
			logger.Error("purge sent outbox events failed", zap.Error(err))
			return
		}
		logger.Info("sent outbox events purged", zap.Int64("rows", n))
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}
