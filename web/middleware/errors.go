package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/habitquest/habitquest/web/utils"
)

// CustomErrorHandler is the Fiber fallback for errors that escape handlers,
// keeping the JSON error envelope consistent.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return utils.SendNotFound(c, "Route not found")
		case fiber.StatusMethodNotAllowed:
			return utils.SendError(c, fiber.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", fiberErr.Message, nil)
		case fiber.StatusRequestEntityTooLarge:
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", fiberErr.Message, nil)
		default:
			return utils.SendError(c, fiberErr.Code, "REQUEST_FAILED", fiberErr.Message, nil)
		}
	}

	slog.Error("Unhandled error",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()))
	return utils.SendInternalServerError(c, "Something went wrong")
}
