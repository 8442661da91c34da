package handlers

import (
	"errors"

	"propertyinsights/models"
	"propertyinsights/services"
	"propertyinsights/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleGetChatHistory lists the chat turns for the current summary.
// GET /api/v1/reports/current/chat?page=1&pageSize=50
func (h *Handler) HandleGetChatHistory(c *fiber.Ctx) error {
	items, pagination := utils.Paginate(h.Session.History(), c.QueryInt("page", 1), c.QueryInt("pageSize", 50))
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       items,
		"pagination": pagination,
	})
}

// HandleAskChat answers a question from the current summary.
// POST /api/v1/reports/current/chat
func (h *Handler) HandleAskChat(c *fiber.Ctx) error {
	var req models.ChatQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	reply, err := h.Session.Ask(c.UserContext(), req.Question)
	switch {
	case err == nil:
		return ok(c, reply)
	case errors.Is(err, services.ErrEmptyQuestion):
		return fail(c, fiber.StatusBadRequest, "Question must not be empty")
	case errors.Is(err, services.ErrNoReport):
		return fail(c, fiber.StatusConflict, "Please generate a report first to enable chat.")
	case errors.Is(err, services.ErrStaleGeneration):
		return fail(c, fiber.StatusConflict, "The report changed while the question was being answered.")
	default:
		// The apology is already part of the history; hand it back too.
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get a response from the assistant.",
			"data":    reply,
		})
	}
}
