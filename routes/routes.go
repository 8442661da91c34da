package routes

import (
	"propertyinsights/handlers"
	"propertyinsights/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	app.Get("/version", handlers.HandleVersion)
	app.Get("/healthz", h.HandleHealth)

	api := app.Group("/api/v1")

	// --- Settings ---
	api.Get("/settings/api-key", h.HandleGetAPIKey)

	// --- Reports ---
	reports := api.Group("/reports")
	reports.Post("/", h.HandleGenerateReport)
	reports.Get("/current", h.HandleGetCurrentReport)
	reports.Get("/current/financials", h.HandleGetFinancials)

	// Everything below acts on the executive summary. The guard is attached
	// per route: a group middleware would also match /current itself.
	summary := middleware.ReportRequired(h.Session)
	reports.Get("/current/download", summary, h.HandleDownloadReport)
	reports.Get("/current/email", summary, h.HandleEmailReport)
	reports.Post("/current/podcast", summary, h.HandleConvertPodcast)
	reports.Delete("/current/podcast", summary, h.HandleClearPodcast)
	reports.Post("/current/read-aloud", summary, h.HandleReadAloud)
	reports.Get("/current/chat", summary, h.HandleGetChatHistory)
	reports.Post("/current/chat", summary, h.HandleAskChat)
}
