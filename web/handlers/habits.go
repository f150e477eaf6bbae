package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/habitquest/habitquest/habitquest/habits"
	"github.com/habitquest/habitquest/web/utils"
)

type createHabitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Frequency   string `json:"frequency"`
	Target      int    `json:"target"`
	GoalID      string `json:"goal_id"`
}

type updateHabitRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Frequency   *string `json:"frequency"`
	Target      *int    `json:"target"`
	GoalID      *string `json:"goal_id"`
	ClearGoal   bool    `json:"clear_goal"`
}

type logCompletionRequest struct {
	LogDate string `json:"logDate"`
}

// HandleListHabits returns the user's habits with streak status. The q query
// parameter fuzzy-filters on habit name.
func HandleListHabits(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		statuses, err := webApp.HabitService.List(c.Context(), s.UserID, c.Query("q"))
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, statuses, "")
	}
}

// HandleCreateHabit creates a habit with a fresh streak ledger.
func HandleCreateHabit(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		var req createHabitRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.Name == "" {
			return utils.SendBadRequest(c, "Habit name is required", nil)
		}

		input := habits.CreateHabitInput{
			Name:        req.Name,
			Description: req.Description,
			Frequency:   req.Frequency,
			Target:      req.Target,
		}
		if req.GoalID != "" {
			goalID, err := uuid.Parse(req.GoalID)
			if err != nil {
				return utils.SendBadRequest(c, "Invalid goal_id", nil)
			}
			input.GoalID = &goalID
		}

		habit, err := webApp.HabitService.Create(c.Context(), s.UserID, input)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendCreated(c, habit, "Habit created")
	}
}

// HandleGetHabit returns a single habit the user owns.
func HandleGetHabit(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}
		habitID, err := parseUUIDParam(c, "habitId")
		if err != nil {
			return err
		}

		habit, err := webApp.HabitService.Get(c.Context(), habitID, s.UserID)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, habit, "")
	}
}

// HandleUpdateHabit applies a partial habit update.
func HandleUpdateHabit(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}
		habitID, err := parseUUIDParam(c, "habitId")
		if err != nil {
			return err
		}

		var req updateHabitRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}

		input := habits.UpdateHabitInput{
			Name:        req.Name,
			Description: req.Description,
			Frequency:   req.Frequency,
			Target:      req.Target,
			ClearGoal:   req.ClearGoal,
		}
		if req.GoalID != nil && *req.GoalID != "" {
			goalID, err := uuid.Parse(*req.GoalID)
			if err != nil {
				return utils.SendBadRequest(c, "Invalid goal_id", nil)
			}
			input.GoalID = &goalID
		}

		habit, err := webApp.HabitService.Update(c.Context(), habitID, s.UserID, input)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, habit, "Habit updated")
	}
}

// HandleDeleteHabit deletes a habit along with its streak ledger and logs.
func HandleDeleteHabit(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}
		habitID, err := parseUUIDParam(c, "habitId")
		if err != nil {
			return err
		}

		if err := webApp.HabitService.Delete(c.Context(), habitID, s.UserID); err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

// HandleLogCompletion records a habit completion and returns the streak and
// reward outcome. An absent or unparseable logDate falls back to today.
func HandleLogCompletion(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}
		habitID, err := parseUUIDParam(c, "habitId")
		if err != nil {
			return err
		}

		var req logCompletionRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return utils.SendBadRequest(c, "Invalid request body", nil)
			}
		}

		var logDate *time.Time
		if req.LogDate != "" {
			if parsed, err := time.Parse("2006-01-02", req.LogDate); err == nil {
				logDate = &parsed
			}
		}

		result, err := webApp.Coordinator.LogCompletion(c.Context(), s.UserID, habitID, logDate)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendCreated(c, result, "Habit logged")
	}
}
