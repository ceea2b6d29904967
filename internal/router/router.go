package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lentera-labs/campus-api/internal/config"
	"github.com/lentera-labs/campus-api/internal/handler"
	"github.com/lentera-labs/campus-api/internal/middleware"
	"github.com/lentera-labs/campus-api/internal/models"
	"github.com/lentera-labs/campus-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	ClassHandler       *handler.ClassHandler
	ApplicationHandler *handler.ApplicationHandler
	ActivityHandler    *handler.ActivityHandler
	GoalHandler        *handler.GoalHandler
	EvaluationHandler  *handler.EvaluationHandler
	FeedbackHandler    *handler.FeedbackHandler
	DashboardHandler   *handler.DashboardHandler
	AdminHandler       *handler.AdminHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.RegisterPublic(auth)

		me := api.Group("/me", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(me)
	}

	teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
	student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))

	if deps.ClassHandler != nil {
		deps.ClassHandler.RegisterTeacher(teacher.Group("/classes"))
		deps.ClassHandler.RegisterStudent(student.Group("/classes"))
	}

	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterStudent(student.Group("/applications"))
		deps.ApplicationHandler.RegisterTeacher(teacher.Group("/applications"))
	}

	if deps.ActivityHandler != nil {
		activities := api.Group("/activities", jwtMiddleware)
		deps.ActivityHandler.Register(activities)
		deps.ActivityHandler.RegisterTeacher(teacher.Group("/activities"))
	}

	if deps.GoalHandler != nil {
		deps.GoalHandler.RegisterTeacher(teacher.Group("/goals"))
		deps.GoalHandler.RegisterStudent(student.Group("/goals"))
	}

	if deps.EvaluationHandler != nil {
		deps.EvaluationHandler.RegisterTeacher(teacher.Group("/evaluations"))
	}

	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterStudent(student.Group("/feedback"))
		deps.FeedbackHandler.RegisterTeacher(teacher.Group("/feedback"))
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterTeacher(teacher)
		deps.DashboardHandler.RegisterStudent(student)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.AdminHandler.Register(admin)
	}
}
