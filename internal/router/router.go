package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/stc-api/internal/config"
	"github.com/noah-isme/stc-api/internal/handler"
	"github.com/noah-isme/stc-api/internal/middleware"
	"github.com/noah-isme/stc-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ResultsHandler  *handler.ResultsHandler
	ChatHandler     *handler.ChatHandler
	QuestionHandler *handler.QuestionHandler
	HealthProbes    map[string]handler.HealthProbe
	JWTMiddleware   fiber.Handler
	// OptionalJWTMiddleware identifies callers without requiring a token.
	OptionalJWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthProbes))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	optionalJWT := deps.OptionalJWTMiddleware
	if optionalJWT == nil {
		optionalJWT = func(c *fiber.Ctx) error { return c.Next() }
	}
	mentorOnly := middleware.RequireRole(middleware.AuthRoleMentor, middleware.AuthRoleAdmin)

	if deps.ResultsHandler != nil {
		deps.ResultsHandler.RegisterSubmissions(api.Group("/submissions", jwtMiddleware, mentorOnly))
		deps.ResultsHandler.RegisterResults(api.Group("/results", jwtMiddleware, mentorOnly))
	}

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions", jwtMiddleware, mentorOnly))
	}

	if deps.ChatHandler != nil {
		limit := cfg.ChatRateLimit
		window := cfg.ChatRateWindow
		if window <= 0 {
			window = time.Minute
		}
		chat := api.Group("/chat", optionalJWT, middleware.RateLimit("chat", limit, window))
		deps.ChatHandler.Register(chat)
	}
}
