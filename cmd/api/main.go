package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stc-api/internal/chatbot"
	"github.com/noah-isme/stc-api/internal/config"
	"github.com/noah-isme/stc-api/internal/database"
	"github.com/noah-isme/stc-api/internal/handler"
	"github.com/noah-isme/stc-api/internal/middleware"
	"github.com/noah-isme/stc-api/internal/models"
	"github.com/noah-isme/stc-api/internal/repository"
	"github.com/noah-isme/stc-api/internal/router"
	"github.com/noah-isme/stc-api/internal/service"
	"github.com/noah-isme/stc-api/pkg/ai"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		_ = database.ClosePostgres(db)
	}()

	if err := db.AutoMigrate(&models.User{}, &models.Test{}, &models.Submission{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	probes := map[string]handler.HealthProbe{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		probes["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	} else {
		logger.Warn().Msg("redis url not set, mentor results will not be cached")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	generator, provider := questionGenerator(cfg, logger)

	submissionRepo := repository.NewSubmissionRepository(db)

	resultsService := service.NewMentorResultsService(submissionRepo, redisClient, cfg.ResultsCacheTTL, logger)
	assistantService := service.NewAssistantService(chatbot.New(cfg.ChatSignupURL), validate, logger)
	questionService := service.NewQuestionService(generator, provider, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv != "production"})
	router.Register(app, cfg, router.Dependencies{
		ResultsHandler:        handler.NewResultsHandler(resultsService, logger),
		ChatHandler:           handler.NewChatHandler(assistantService, logger),
		QuestionHandler:       handler.NewQuestionHandler(questionService, logger),
		HealthProbes:          probes,
		JWTMiddleware:         middleware.JWTProtected(cfg.JWTSecret),
		OptionalJWTMiddleware: middleware.JWTOptional(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func questionGenerator(cfg config.Config, logger zerolog.Logger) (ai.QuestionGenerator, string) {
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		generator, err := ai.NewOpenAIQuestionGenerator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.AIModel,
			Logger: logger,
		})
		if err == nil {
			return generator, "openai"
		}
		logger.Warn().Err(err).Msg("openai generator unavailable, using question bank")
	}
	return ai.NewQuestionBank(nil), "question_bank"
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
