package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/habitquest/habitquest/habitquest/database"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/habitquest/gamification"
	"github.com/habitquest/habitquest/habitquest/goals"
	"github.com/habitquest/habitquest/habitquest/habits"
	"github.com/habitquest/habitquest/habitquest/rewards"
	"github.com/habitquest/habitquest/web/models"
	"github.com/habitquest/habitquest/web/services"
	"github.com/habitquest/habitquest/web/utils"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	DB           *database.DB
	Users        repositories.UserRepository
	Goals        repositories.GoalRepository
	Habits       repositories.HabitRepository
	Logs         repositories.HabitLogRepository
	AuthService  *services.AuthService
	GoalService  *goals.Service
	HabitService *habits.Service
	Coordinator  *habits.Coordinator
	Rewards      *rewards.Service
	Calculator   *gamification.Calculator
	Version      string
}

// session pulls the authenticated user out of the request context. The auth
// middleware guarantees it is present on protected routes.
func session(c *fiber.Ctx) (*models.UserSession, error) {
	s, ok := utils.ExtractUserSession(c)
	if !ok {
		return nil, utils.SendUnauthorized(c, "Authentication required")
	}
	return s, nil
}

// parseUUIDParam parses a UUID path parameter, replying 400 on failure.
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, utils.SendBadRequest(c, "Invalid "+name, map[string]string{
			name: "must be a valid UUID",
		})
	}
	return id, nil
}

// sendDomainError maps domain errors onto HTTP responses. Anything without a
// dedicated mapping is logged and reported as an internal error without
// leaking details to the client.
func sendDomainError(c *fiber.Ctx, err error) error {
	var nfe *repositories.NotFoundError
	if errors.As(err, &nfe) {
		return utils.SendNotFound(c, nfe.Error())
	}

	var ce *repositories.ConflictError
	if errors.As(err, &ce) {
		return utils.SendConflict(c, ce.Error(), nil)
	}

	slog.Error("Request failed",
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.String("error", err.Error()))
	return utils.SendInternalServerError(c, "Something went wrong")
}
