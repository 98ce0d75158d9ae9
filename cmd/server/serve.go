package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"

	"github.com/Medard30/StudyLoop/internal/config"
	"github.com/Medard30/StudyLoop/internal/handler"
	"github.com/Medard30/StudyLoop/internal/media"
	"github.com/Medard30/StudyLoop/internal/metrics"
	"github.com/Medard30/StudyLoop/internal/middleware"
	"github.com/Medard30/StudyLoop/internal/router"
	"github.com/Medard30/StudyLoop/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the board over HTTP",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	middleware.InitLogger(cfg.LogLevel, "studyloop")
	log := middleware.Logger

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	metrics.Init(store.pool)

	cache := service.NewCacheService(cfg.RedisURL, cfg.FeedCacheTTL, log)
	defer cache.Close()

	uploads, err := media.NewStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}

	users := service.NewUserService(store.users, store.stats)
	author, err := users.EnsureAuthor(ctx, cfg.PlaceholderAuthor)
	if err != nil {
		return fmt.Errorf("placeholder author: %w", err)
	}

	engage := service.NewEngagementService(store.ledger, cache)
	posts := service.NewPostService(store.posts, store.replies, engage, cache, log)
	replies := service.NewReplyService(store.posts, store.replies, uploads, cfg.MaxUploadBytes(), cache, log)
	feed := service.NewFeedService(store.posts)

	var dbPinger handler.Pinger
	if store.pool != nil {
		dbPinger = store.pool
		if cache.Enabled() {
			go service.NewChangeWorker(store.pool, cache, log).Start(ctx)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      "StudyLoop",
		ServerHeader: "StudyLoop",
		// Multipart overhead on top of the largest allowed video.
		BodyLimit:    int(cfg.MaxUploadBytes()) + 1<<20,
		ErrorHandler: handler.ErrorHandler,
	})

	router.Setup(app, &router.Handlers{
		Post:       handler.NewPostHandler(posts, author.ID),
		Reply:      handler.NewReplyHandler(replies, author.ID),
		Engagement: handler.NewEngagementHandler(engage),
		Feed:       handler.NewFeedHandler(feed),
		Media:      handler.NewMediaHandler(uploads),
		Stats:      handler.NewStatsHandler(users),
		Health:     handler.NewHealthHandler(dbPinger, cache.Client()),
	}, router.Options{
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.IsProduction(),
		Metrics:       true,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Str("storage", cfg.StorageDriver).
		Str("author", author.Name).
		Msg("StudyLoop starting")

	return app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
}
