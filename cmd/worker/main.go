package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"jobagent/internal/config"
	"jobagent/internal/database"
	"jobagent/internal/discovery"
	"jobagent/internal/mailer"
	"jobagent/internal/metrics"
	"jobagent/internal/scheduler"
	"jobagent/internal/tasks"
	"jobagent/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Println("database connection ready for worker")

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	registry := discovery.NewRegistry(
		discovery.NewRemotiveSource(cfg.Discovery.UserAgent),
		discovery.NewWeWorkRemotelySource(cfg.Discovery.UserAgent),
		discovery.NewRemoteCoSource(cfg.Discovery.UserAgent),
	)
	orchestrator := discovery.NewOrchestrator(
		db,
		registry,
		redisClient,
		logger,
		time.Duration(cfg.Discovery.AdapterTimeoutSeconds)*time.Second,
	)
	dispatcher := mailer.NewDispatcher(db, cfg.Email, logger)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	if cfg.Discovery.RescanHours > 0 {
		rescan := scheduler.New(db, asynqClient, logger, cfg.Discovery.RescanHours)
		if err := rescan.Start(context.Background()); err != nil {
			log.Fatalf("start rescan scheduler: %v", err)
		}
		defer rescan.Stop()
	}

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeSearchRun, worker.NewSearchTaskHandler(db, orchestrator, logger))
	mux.Handle(tasks.TypeEmailSend, worker.NewEmailTaskHandler(dispatcher, logger))

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
