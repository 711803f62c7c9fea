package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/resolvepro/complaint-service/internal/api/http/handlers"
	"github.com/resolvepro/complaint-service/internal/auth"
	"github.com/resolvepro/complaint-service/internal/domain"
	"github.com/resolvepro/complaint-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	Categories     *handlers.CategoriesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	MetricsPath    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/external", cfg.Auth.ExternalLogin)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.Me)

	api.Get("/categories", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Categories.List)

	complaints := api.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("/", auth.RequireRole(domain.RoleUser), cfg.Complaints.Create)
	complaints.Get("/", auth.RequireRole(domain.RoleUser), cfg.Complaints.ListMine)
	// registered before /:id so "assigned" is not parsed as an id
	complaints.Get("/assigned", auth.RequireRole(domain.RoleEngineer), cfg.Complaints.ListAssigned)
	complaints.Get("/:id", auth.RequireAuthenticated(), cfg.Complaints.Get)
	complaints.Put("/:id/status", auth.RequireRole(domain.RoleEngineer, domain.RoleAdmin), cfg.Complaints.UpdateStatus)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/complaints", cfg.Admin.ListComplaints)
	admin.Post("/complaints/:id/assign", cfg.Admin.AssignEngineer)
	admin.Post("/complaints/:id/response", cfg.Admin.AddResponse)
	admin.Get("/users/pending", cfg.Admin.ListPendingUsers)
	admin.Post("/users/:id/approve", cfg.Admin.ApproveUser)
	admin.Post("/users/:id/reject", cfg.Admin.RejectUser)
	admin.Get("/engineers", cfg.Admin.ListEngineers)
	admin.Get("/categories/:id/assignment-preview", cfg.Admin.PreviewAssignment)
}
