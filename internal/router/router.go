package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/handler"
	"github.com/krishnakireeti-2k7/youtube-analytics-tool/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Analytics *handler.AnalyticsHandler
	Channel   *handler.ChannelHandler
	Chart     *handler.ChartHandler
	Health    *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(handler.MetricsMiddleware())
	app.Use(middleware.NewCORS(corsOrigins))

	analyticsLimit := middleware.NewAnalyticsRateLimiter().Handler()
	searchLimit := middleware.NewSearchRateLimiter().Handler()
	chartsLimit := middleware.NewChartsRateLimiter().Handler()

	// Health and metrics
	app.Get("/", h.Health.Root)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	app.Get("/analytics", analyticsLimit, h.Analytics.Analyze)

	// API routes
	api := app.Group("/api")

	// Channel routes. search is registered before :channelId routes.
	api.Get("/channels/search", searchLimit, h.Channel.Search)
	api.Get("/channels/:channelId/analytics", analyticsLimit, h.Analytics.AnalyzeChannel)
	api.Get("/channels/:channelId/charts/:kind", chartsLimit, h.Chart.Chart)
	api.Get("/channels/:channelId/history", searchLimit, h.Channel.History)
}
