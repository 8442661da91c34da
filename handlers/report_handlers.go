package handlers

import (
	"errors"
	"strings"

	"propertyinsights/models"
	"propertyinsights/services"
	"propertyinsights/store"
	"propertyinsights/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	MsgPriceNotPositive = "Property price must be a positive number."
	MsgAPIKeyRequired   = "PaTMa API Key is required."
)

// validateReportRequest normalises the postcode in place and returns the
// per-field validation messages.
func validateReportRequest(req *models.ReportRequest) map[string]string {
	errs := make(map[string]string)
	postcode, msg := utils.ValidatePostcode(req.Postcode)
	if msg != "" {
		errs["postcode"] = msg
	} else {
		req.Postcode = postcode
	}
	if req.PropertyPrice <= 0 {
		errs["propertyPrice"] = MsgPriceNotPositive
	}
	req.APIKey = strings.TrimSpace(req.APIKey)
	if req.APIKey == "" {
		errs["apiKey"] = MsgAPIKeyRequired
	}
	return errs
}

// HandleGenerateReport aggregates provider data, generates the executive
// summary and installs the result as the current report.
// POST /api/v1/reports
func (h *Handler) HandleGenerateReport(c *fiber.Ctx) error {
	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if errs := validateReportRequest(&req); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  errs,
		})
	}

	ctx := c.UserContext()
	if err := h.Keys.Set(ctx, store.APIKeyName, req.APIKey); err != nil {
		h.Logger.Warn("Failed to persist API key", zap.Error(err))
	}

	id := h.Session.Begin()
	h.Logger.Info("Generating report",
		zap.Int64("generation", id),
		zap.String("postcode", req.Postcode),
		zap.String("api_key", utils.MaskSecret(req.APIKey)),
	)

	report, err := h.Builder.Build(ctx, id, req.Postcode, req.PropertyPrice)
	if err != nil {
		h.Session.Fail(id)
		cause := err
		var stageErr *services.StageError
		if errors.As(err, &stageErr) {
			h.Logger.Error("Report generation failed", zap.String("stage", stageErr.Stage), zap.Error(stageErr.Err))
			cause = stageErr.Err
		}
		return fail(c, fiber.StatusBadGateway, "Failed to generate report: "+cause.Error())
	}

	if !h.Session.Complete(id, report) {
		return fail(c, fiber.StatusConflict, "A newer report request superseded this one.")
	}
	h.Builder.Announce(ctx, report)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": report})
}

// HandleGetCurrentReport returns the report on display.
// GET /api/v1/reports/current
func (h *Handler) HandleGetCurrentReport(c *fiber.Ctx) error {
	report := h.Session.Current()
	if report == nil {
		return fail(c, fiber.StatusNotFound, "No report has been generated")
	}
	return ok(c, report)
}

// HandleGetFinancials returns the financial model of the current report.
// GET /api/v1/reports/current/financials
func (h *Handler) HandleGetFinancials(c *fiber.Ctx) error {
	report := h.Session.Current()
	if report == nil || report.Financials == nil {
		return fail(c, fiber.StatusNotFound, "No financial model available")
	}
	return ok(c, report.Financials)
}
