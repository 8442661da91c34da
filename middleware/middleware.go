package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NoReportMessage is returned by ReportRequired when nothing has been generated yet.
const NoReportMessage = "No report content available. Generate a report first."

// SummarySource exposes the executive summary currently on display.
type SummarySource interface {
	Summary() string
}

// ReportRequired rejects requests while there is no executive summary.
func ReportRequired(source SummarySource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if source.Summary() == "" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": NoReportMessage})
		}
		return c.Next()
	}
}

// RequestLogger logs one line per request with its status and latency.
func RequestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", append(fields, zap.Error(err))...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
		return err
	}
}
