package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixora/helpdesk/internal/api/http/handlers"
	"github.com/fixora/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Tickets      *handlers.TicketsHandler
	Users        *handlers.UsersHandler
	Metrics      *handlers.MetricsHandler
	Slack        *handlers.SlackHandler
	TokenManager *auth.TokenManager
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", auth.ActorResolver(cfg.TokenManager))

	tickets := api.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/number/:ticket_number", cfg.Tickets.GetTicketByNumber)
	tickets.Get("/user/:user_id", cfg.Tickets.ListUserTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Patch("/:id/status", cfg.Tickets.ChangeStatus)
	tickets.Patch("/:id/assign", cfg.Tickets.AssignTicket)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Get("/:id/activities", cfg.Tickets.ListActivities)
	tickets.Post("/:id/classification", cfg.Tickets.ClassificationWebhook)

	users := api.Group("/users")
	users.Post("/", cfg.Users.CreateUser)
	users.Get("/", cfg.Users.ListUsers)
	users.Get("/email/:email", cfg.Users.GetUserByEmail)
	users.Get("/slack/:slack_user_id", cfg.Users.GetUserBySlackID)
	users.Get("/it-staff/list", cfg.Users.ListITStaff)
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Post("/:id/token", cfg.Users.IssueToken)

	metrics := api.Group("/metrics")
	metrics.Get("/dashboard", cfg.Metrics.Dashboard)
	metrics.Get("/tickets-by-category", cfg.Metrics.TicketsByCategory)
	metrics.Get("/tickets-by-status", cfg.Metrics.TicketsByStatus)
	metrics.Get("/tickets-by-priority", cfg.Metrics.TicketsByPriority)

	slack := api.Group("/slack")
	slack.Post("/events", cfg.Slack.Events)
	slack.Post("/commands", cfg.Slack.Commands)
}
