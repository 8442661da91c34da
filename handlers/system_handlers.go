package handlers

import (
	"runtime/debug"

	"propertyinsights/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HandleGetAPIKey returns the stored provider API key for form prefill.
// GET /api/v1/settings/api-key
func (h *Handler) HandleGetAPIKey(c *fiber.Ctx) error {
	key, err := h.Keys.Get(c.UserContext(), store.APIKeyName)
	if err != nil {
		h.Logger.Error("Failed to read API key", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, "Failed to read stored API key")
	}
	return ok(c, fiber.Map{"apiKey": key})
}

// HandleHealth reports liveness and key store reachability.
// GET /healthz
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if err := h.Keys.Ping(c.UserContext()); err != nil {
		h.Logger.Warn("Key store health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": "Key store unavailable: " + err.Error(),
		})
	}
	return ok(c, fiber.Map{"status": "ok", "llm": h.Backend})
}

// HandleVersion prints the build information.
// GET /version
func HandleVersion(c *fiber.Ctx) error {
	info, found := debug.ReadBuildInfo()
	if !found {
		return c.Status(fiber.StatusInternalServerError).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}
