package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/Medard30/StudyLoop/internal/handler"
	"github.com/Medard30/StudyLoop/internal/metrics"
	"github.com/Medard30/StudyLoop/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Post       *handler.PostHandler
	Reply      *handler.ReplyHandler
	Engagement *handler.EngagementHandler
	Feed       *handler.FeedHandler
	Media      *handler.MediaHandler
	Stats      *handler.StatsHandler
	Health     *handler.HealthHandler
}

// Options tune the middleware stack.
type Options struct {
	CORSOrigins   string
	SecureCookies bool
	// Metrics mounts /metrics and the request instrumentation middleware.
	Metrics bool
}

// Setup configures the middleware stack and all routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, opts Options) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	if opts.Metrics {
		app.Use(metrics.Middleware())
	}
	app.Use(middleware.NewCORS(opts.CORSOrigins))
	app.Use(middleware.NewSession(opts.SecureCookies))

	// Health checks
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	if opts.Metrics {
		app.Get("/metrics", metrics.Handler())
	}

	feedLimit := middleware.NewFeedRateLimiter().Handler()
	toggleLimit := middleware.NewToggleRateLimiter().Handler()

	// Board
	app.Get("/", feedLimit, h.Post.List)
	app.Post("/new", middleware.NewPostRateLimiter().Handler(), h.Post.Create)
	app.Get("/post/:id", feedLimit, h.Post.Detail)
	app.Post("/post/:id/reply", middleware.NewReplyRateLimiter().Handler(), h.Reply.Create)

	// Engagement
	app.Post("/reply/:id/rate", toggleLimit, h.Engagement.Rate)
	app.Post("/reply/:id/report", toggleLimit, h.Engagement.Report)

	// Stored reply videos
	app.Get("/uploads/:name", h.Media.Serve)

	// API routes
	api := app.Group("/api")
	api.Get("/feed/delta", middleware.NewDeltaRateLimiter().Handler(), h.Feed.Delta)
	api.Get("/stats", middleware.NewStatsRateLimiter().Handler(), h.Stats.GetStats)
}
