package handlers

import (
	"propertyinsights/services"
	"propertyinsights/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	Session *services.ReportSession
	Builder *services.ReportBuilder
	Keys    store.KeyStore
	Backend string
	Logger  *zap.Logger
}

func New(session *services.ReportSession, builder *services.ReportBuilder, keys store.KeyStore, backend string, logger *zap.Logger) *Handler {
	return &Handler{Session: session, Builder: builder, Keys: keys, Backend: backend, Logger: logger}
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}
