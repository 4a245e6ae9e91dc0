package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"

	"jobagent/internal/api"
	"jobagent/internal/config"
	"jobagent/internal/database"
	"jobagent/internal/discovery"
	"jobagent/internal/letter"
	"jobagent/internal/lifecycle"
	"jobagent/internal/mailer"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	registry := discovery.NewRegistry(
		discovery.NewRemotiveSource(cfg.Discovery.UserAgent),
		discovery.NewWeWorkRemotelySource(cfg.Discovery.UserAgent),
		discovery.NewRemoteCoSource(cfg.Discovery.UserAgent),
	)

	var generator *letter.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		generator, err = letter.NewGenerator(context.Background(), db, cfg.LLM, logger)
		if err != nil {
			log.Fatalf("init cover letter generator: %v", err)
		}
		log.Printf("cover letter generator ready, model=%s", cfg.LLM.Model)
	} else {
		logger.Warn("GEMINI_API_KEY not set, cover letter generation disabled")
	}

	dispatcher := mailer.NewDispatcher(db, cfg.Email, logger)
	manager := lifecycle.NewManager(db, logger)

	router := api.NewRouter(cfg, logger)
	api.RegisterRoutes(router, api.Handlers{
		Jobs:         api.NewJobHandler(db, asynqClient, registry),
		Profile:      api.NewProfileHandler(db),
		Applications: api.NewApplicationHandler(manager),
		CoverLetters: api.NewCoverLetterHandler(db, generator),
		Emails:       api.NewEmailHandler(dispatcher, asynqClient),
		Analytics:    api.NewAnalyticsHandler(db),
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	log.Printf("api listening on %s", address)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
	}
}
