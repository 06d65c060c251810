package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"inventory/internal/apperr"
)

// productErrorStatus maps a product operation error to its HTTP status.
// Only a missing record has its own status; every other failure is a 500
// carrying the raw store message.
func productErrorStatus(err error) int {
	if apperr.Is(err, apperr.KindNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

// authErrorStatus maps an authentication error to its HTTP status.
func authErrorStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperr.KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError logs err and writes {message} with the given status.
func respondError(c *fiber.Ctx, logger *slog.Logger, status int, op string, err error) error {
	attrs := []any{
		slog.String("op", op),
		slog.String("kind", apperr.KindOf(err).String()),
		slog.Any("error", err),
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	return c.Status(status).JSON(fiber.Map{
		"message": apperr.Message(err),
	})
}

func badRequest(c *fiber.Ctx, logger *slog.Logger, op string, err error) error {
	logger.Warn("invalid request body", slog.String("op", op), slog.Any("error", err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
	})
}
