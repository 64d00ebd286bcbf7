package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aurelia-concierge/vetting-service/internal/api/http/handlers"
	"github.com/aurelia-concierge/vetting-service/internal/auth"
	"github.com/aurelia-concierge/vetting-service/internal/domain"
	"github.com/aurelia-concierge/vetting-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Vetting        *handlers.VettingHandler
	Admin          *handlers.AdminVettingHandler
	Directory      *handlers.DirectoryHandler
	DevAdmin       *handlers.DevAdminHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	authenticate := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", authenticate, cfg.Auth.Logout)
	authGroup.Get("/me", authenticate, auth.RequirePrincipal(), cfg.Auth.Me)

	anyOfficer := auth.RequireOfficer()
	vetting := app.Group("/vetting")
	vetting.Post("/login", cfg.Vetting.Login)
	vetting.Post("/applications", authenticate, auth.RequirePrincipal(), cfg.Vetting.SubmitApplication)
	vetting.Get("/applications", authenticate, anyOfficer, cfg.Vetting.ListApplications)
	vetting.Get("/applications/:id", authenticate, anyOfficer, cfg.Vetting.GetApplication)
	vetting.Patch("/applications/:id", authenticate, anyOfficer, cfg.Vetting.UpdateApplication)
	vetting.Get("/applications/:id/tasks", authenticate, anyOfficer, cfg.Vetting.ListTasks)
	vetting.Post("/applications/:id/tasks", authenticate,
		auth.RequireOfficer(domain.AccessLevelSupervisor, domain.AccessLevelManager), cfg.Vetting.CreateTask)
	vetting.Get("/tasks/:id", authenticate, anyOfficer, cfg.Vetting.GetTask)
	vetting.Patch("/tasks/:id", authenticate, anyOfficer, cfg.Vetting.UpdateTask)

	admin := app.Group("/admin/vetting", authenticate, auth.RequirePrincipal(), auth.RequireAdmin())
	admin.Get("/overview", cfg.Admin.Overview)
	admin.Get("/applications", cfg.Admin.ListApplications)
	admin.Get("/companies", cfg.Directory.ListCompanies)
	admin.Post("/companies", cfg.Directory.CreateCompany)
	admin.Get("/companies/:id", cfg.Directory.GetCompany)
	admin.Get("/officers", cfg.Directory.ListOfficers)
	admin.Post("/officers", cfg.Directory.CreateOfficer)

	devAdmin := app.Group("/dev-admin", authenticate, auth.RequireImpersonator())
	devAdmin.Post("/switch-user-type", cfg.DevAdmin.SwitchUserType)
}
