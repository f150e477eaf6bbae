package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/habitquest/habitquest/habitquest/config"
	"github.com/habitquest/habitquest/web/services"
	"github.com/habitquest/habitquest/web/utils"
)

// AuthRequired validates the bearer token and stores the session in the
// request context.
func AuthRequired(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		session, err := auth.VerifyToken(token)
		if err != nil {
			slog.Debug("Auth required: token rejected", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Invalid or expired token")
		}

		c.Locals("user", session)
		return c.Next()
	}
}

// OptionalAuth stores the session if a valid token is present but never
// rejects the request.
func OptionalAuth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if session, err := auth.VerifyToken(token); err == nil {
				c.Locals("user", session)
			}
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(config.AuthorizationHeader)
	if header == "" {
		return "", false
	}
	if !strings.HasPrefix(header, config.BearerSchemePrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, config.BearerSchemePrefix))
	return token, token != ""
}
