package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/khoabkhn-byte/quizdesk-api/internal/config"
	"github.com/khoabkhn-byte/quizdesk-api/internal/handler"
	"github.com/khoabkhn-byte/quizdesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	UserHandler       *handler.UserHandler
	QuestionHandler   *handler.QuestionHandler
	TestHandler       *handler.TestHandler
	AssignmentHandler *handler.AssignmentHandler
	DashboardHandler  *handler.StudentDashboardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.UserHandler != nil {
		app.Post("/login", deps.UserHandler.Login)
		deps.UserHandler.Register(api.Group("/users"))
	}

	if deps.QuestionHandler != nil {
		deps.QuestionHandler.Register(api.Group("/questions", jwtMiddleware))
	}

	if deps.TestHandler != nil {
		deps.TestHandler.Register(api.Group("/tests", jwtMiddleware))
	}

	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(api.Group("", jwtMiddleware))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(api.Group("", jwtMiddleware))
	}
}
