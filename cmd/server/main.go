package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"cinegram/internal/auth"
	"cinegram/internal/config"
	"cinegram/internal/handler"
	"cinegram/internal/notify"
	"cinegram/internal/repository"
	"cinegram/internal/service"
	"cinegram/internal/tmdb"
)

func main() {
	log := zerolog.New(os.Stdout).With().
		Str("service", "cinegram").
		Timestamp().
		Logger()

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := repository.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	catalogRepo := repository.NewCatalogRepository(db)
	userRepo := repository.NewUserRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	watchlistRepo := repository.NewWatchlistRepository(db)

	tmdbClient := tmdb.NewClient(cfg.TMDBAPIKey)
	if cfg.TMDBBaseURL != "" {
		tmdbClient.SetBaseURL(cfg.TMDBBaseURL)
	}

	catalogSvc := service.NewCatalogService(tmdbClient, catalogRepo, cfg.DetailRecheckTTL)
	userSvc := service.NewUserService(userRepo)
	progressSvc := service.NewProgressService(progressRepo, catalogRepo)
	watchlistSvc := service.NewWatchlistService(watchlistRepo, catalogRepo)
	streamSvc := service.NewStreamService(cfg.EmbedBaseURL)
	backupSvc := service.NewBackupService(cfg.DBPath, cfg.BackupDir, log)

	verifier := auth.NewInitDataVerifier(cfg.TelegramBotToken)
	sessions := auth.NewSessionManager(cfg.JWTSecret)

	h := handler.NewHTTPHandler(
		userSvc, catalogSvc, progressSvc, watchlistSvc,
		streamSvc, backupSvc, verifier, sessions, cfg.AdminToken,
	)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(log))
	h.RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: router,
	}

	scheduler := service.NewScheduler(backupSvc, cfg.BackupTime, log)
	scheduler.Start()

	bot, err := notify.NewMiniAppBot(cfg.TelegramBotToken, cfg.WebAppURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create telegram bot")
	}
	go bot.Start()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr()).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")
	scheduler.Stop()
	bot.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
