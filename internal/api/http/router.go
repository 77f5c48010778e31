package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	AgentTickets   *handlers.AgentTicketsHandler
	Rooms          *handlers.RoomsHandler
	Notifications  *handlers.NotificationsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	account := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole())
	account.Get("/me", cfg.Users.Me)
	account.Post("/password/change", cfg.Users.ChangePassword)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleUser, domain.RoleAdmin))
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Post("/:id/feedback", cfg.Tickets.CreateFeedback)

	// Messaging is open to every role; the service narrows access per ticket.
	conversation := app.Group("/tickets/:id", cfg.AuthMiddleware.Handle, auth.RequireRole())
	conversation.Post("/messages", cfg.Tickets.PostMessage)
	conversation.Post("/attachments", cfg.Tickets.AddAttachment)

	agent := app.Group("/agent", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent, domain.RoleAdmin))
	agent.Get("/tickets", cfg.AgentTickets.ListAssigned)
	agent.Get("/tickets/:id", cfg.AgentTickets.GetTicket)
	agent.Patch("/tickets/:id/status", cfg.AgentTickets.UpdateStatus)
	agent.Get("/tickets/:id/audits", cfg.AgentTickets.ListAudits)
	agent.Get("/feedback", cfg.AgentTickets.ListFeedback)

	rooms := app.Group("/rooms", cfg.AuthMiddleware.Handle, auth.RequireRole())
	rooms.Get("", cfg.Rooms.ListRooms)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireRole())
	notifications.Get("", cfg.Notifications.List)
	notifications.Patch("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	app.Get("/departments", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Admin.ListDepartments)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Post("/departments", cfg.Admin.CreateDepartment)
	admin.Post("/agents", cfg.Admin.CreateAgent)
	admin.Get("/agents", cfg.Admin.ListAgents)
}
