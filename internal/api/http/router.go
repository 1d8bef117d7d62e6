package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/e-wheels/workshop-service/internal/api/http/handlers"
	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Cases          *handlers.CasesHandler
	Attachments    *handlers.AttachmentsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)
	api.Get("/auth/me", cfg.Auth.Me)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/connected", cfg.Tickets.ListConnected)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/triage", auth.RequireRole(domain.RoleManager), cfg.Tickets.Triage)
	tickets.Post("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Get("/:id/history", cfg.Tickets.History)
	tickets.Post("/:id/attachments", cfg.Attachments.Upload)
	tickets.Get("/:id/attachments", cfg.Attachments.ListForTicket)

	cases := api.Group("/cases/:type")
	cases.Get("/:id/ticket", cfg.Tickets.FindByCase)
	cases.Post("/:id/status", auth.RequireRole(domain.RoleTechnician, domain.RoleManager), cfg.Cases.ChangeStatus)
	cases.Post("/:id/assign", auth.RequireRole(domain.RoleManager), cfg.Cases.AssignTechnician)
	cases.Get("/:id/history", cfg.Cases.History)
	cases.Get("/:id/attachments", cfg.Attachments.ListForCase)

	api.Get("/cases/vehicle/:id", cfg.Cases.GetVehicle)
	api.Get("/cases/battery/:id", cfg.Cases.GetBattery)
	api.Patch("/cases/vehicle/:id/notes", auth.RequireRole(domain.RoleTechnician, domain.RoleManager), cfg.Cases.UpdateVehicleNotes)
	api.Patch("/cases/battery/:id/notes", auth.RequireRole(domain.RoleTechnician, domain.RoleManager), cfg.Cases.UpdateBatteryNotes)

	api.Put("/attachments/:id", cfg.Attachments.Replace)
	api.Delete("/attachments/:id", auth.RequireRole(domain.RoleManager), cfg.Attachments.Delete)
}
