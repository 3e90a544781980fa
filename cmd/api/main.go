package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/catalog"
	httpapi "server/internal/http"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/studio"
	"server/internal/vision"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	cat := catalog.Default()

	visionClient, err := vision.NewClient(vision.Options{
		APIKey:           cfg.GeminiAPIKey,
		BaseURL:          cfg.GeminiBaseURL,
		ValidationModel:  cfg.GeminiValidateModel,
		GenerationModel:  cfg.GeminiGenerateModel,
		Logger:           &logger,
		MaxRetries:       cfg.VisionMaxRetries,
		RetryDelay:       cfg.VisionRetryDelay,
		ValidateTimeout:  cfg.VisionValidateTimeout,
		GenerateTimeout:  cfg.VisionGenerateTimeout,
		StrictValidation: cfg.StrictValidation,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build vision client")
	}
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY is not set; generation requests will fail until it is provided")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := studio.NewManager(&logger, cfg.SessionMaxAge, cfg.SessionMaxIdle)
	sessions.StartCleanup(ctx, cfg.SessionCleanupInterval)

	svc := studio.NewService(cat, visionClient, sessions, &logger, nil)

	app := handlers.NewApp(&logger, cat, svc, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(app, httpapi.Options{
		DefaultLocale:  cfg.DefaultLocale,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimitPerMin,
		RatePer:        time.Minute,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
