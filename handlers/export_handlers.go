package handlers

import (
	"errors"
	"strings"

	"propertyinsights/models"
	"propertyinsights/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Read-aloud actions.
const (
	ActionToggle   = "toggle"
	ActionStop     = "stop"
	ActionFinish   = "finish"
	ActionListen   = "listen"
	ActionUnlisten = "unlisten"
)

// HandleDownloadReport sends the summary as a plain-text attachment.
// GET /api/v1/reports/current/download
func (h *Handler) HandleDownloadReport(c *fiber.Ctx) error {
	body, err := services.DownloadContent(h.Session.Summary())
	if err != nil {
		return fail(c, fiber.StatusConflict, "No report content to download.")
	}
	c.Attachment(services.DownloadFilename)
	c.Set(fiber.HeaderContentType, services.DownloadContentType)
	return c.Send(body)
}

// HandleEmailReport builds a mailto link carrying the summary.
// GET /api/v1/reports/current/email
func (h *Handler) HandleEmailReport(c *fiber.Ctx) error {
	link, err := services.BuildMailtoLink(h.Session.Summary())
	switch {
	case errors.Is(err, services.ErrMailtoTooLong):
		return fail(c, fiber.StatusUnprocessableEntity, services.MailtoFallbackMessage)
	case err != nil:
		return fail(c, fiber.StatusConflict, "No report content to email.")
	}
	return ok(c, fiber.Map{"mailto": link})
}

// HandleConvertPodcast converts the summary to audio, reusing cached audio.
// POST /api/v1/reports/current/podcast
func (h *Handler) HandleConvertPodcast(c *fiber.Ctx) error {
	audio, cached, err := h.Session.Podcast(c.UserContext())
	switch {
	case errors.Is(err, services.ErrNoReport):
		return fail(c, fiber.StatusConflict, "No report content to convert.")
	case errors.Is(err, services.ErrStaleGeneration):
		return fail(c, fiber.StatusConflict, "The report changed while the podcast was being generated.")
	case err != nil:
		h.Logger.Error("Podcast generation failed", zap.Error(err))
		return fail(c, fiber.StatusBadGateway, "Failed to generate podcast: "+err.Error())
	}
	return ok(c, fiber.Map{"audioDataUri": audio.AudioDataURI, "cached": cached})
}

// HandleClearPodcast drops the cached audio.
// DELETE /api/v1/reports/current/podcast
func (h *Handler) HandleClearPodcast(c *fiber.Ctx) error {
	h.Session.ClearPodcast()
	return c.JSON(fiber.Map{"success": true, "message": "Podcast cleared"})
}

// HandleReadAloud drives narration of the summary.
// POST /api/v1/reports/current/read-aloud
func (h *Handler) HandleReadAloud(c *fiber.Ctx) error {
	var req models.ReadAloudRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	ctx := c.UserContext()
	narrator := h.Session.Narrator()
	var err error
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case ActionToggle, "":
		_, err = h.Session.ToggleReadAloud(ctx)
	case ActionStop:
		narrator.Stop()
	case ActionFinish:
		narrator.Finished()
	case ActionListen:
		err = narrator.StartListening(ctx)
	case ActionUnlisten:
		err = narrator.StopListening()
	default:
		return fail(c, fiber.StatusBadRequest, "Unknown read-aloud action: "+req.Action)
	}

	if errors.Is(err, services.ErrNoReport) {
		return fail(c, fiber.StatusConflict, "No report content or speech synthesizer available.")
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Speech Error: " + err.Error(),
			"data":    narrationState(narrator),
		})
	}
	return ok(c, narrationState(narrator))
}

func narrationState(n *services.Narrator) fiber.Map {
	return fiber.Map{"state": n.State(), "listening": n.Listening()}
}
