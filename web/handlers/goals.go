package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/habitquest/habitquest/habitquest/goals"
	"github.com/habitquest/habitquest/web/utils"
)

type goalRequest struct {
	Name string `json:"name"`
}

type applyTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

// HandleListGoals returns the user's goals, newest first.
func HandleListGoals(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		list, err := webApp.GoalService.List(c.Context(), s.UserID)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, list, "")
	}
}

// HandleCreateGoal creates a goal.
func HandleCreateGoal(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		var req goalRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.Name == "" {
			return utils.SendBadRequest(c, "Goal name is required", nil)
		}

		goal, err := webApp.GoalService.Create(c.Context(), s.UserID, req.Name)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendCreated(c, goal, "Goal created")
	}
}

// HandleRenameGoal renames a goal the user owns.
func HandleRenameGoal(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}
		goalID, err := parseUUIDParam(c, "goalId")
		if err != nil {
			return err
		}

		var req goalRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.Name == "" {
			return utils.SendBadRequest(c, "Goal name is required", nil)
		}

		goal, err := webApp.GoalService.Rename(c.Context(), goalID, s.UserID, req.Name)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendSuccess(c, goal, "Goal renamed")
	}
}

// HandleDeleteGoal deletes a goal. Habits keep existing with their goal link
// cleared.
func HandleDeleteGoal(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}
		goalID, err := parseUUIDParam(c, "goalId")
		if err != nil {
			return err
		}

		if err := webApp.GoalService.Delete(c.Context(), goalID, s.UserID); err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendNoContent(c)
	}
}

// HandleListGoalTemplates returns the static goal template catalog.
func HandleListGoalTemplates(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, goals.Templates, "")
	}
}

// HandleApplyGoalTemplate instantiates a template into a goal with its
// starter habits.
func HandleApplyGoalTemplate(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		var req applyTemplateRequest
		if err := c.BodyParser(&req); err != nil {
			return utils.SendBadRequest(c, "Invalid request body", nil)
		}
		if req.TemplateID == "" {
			return utils.SendBadRequest(c, "template_id is required", nil)
		}

		goal, habits, err := webApp.GoalService.ApplyTemplate(c.Context(), s.UserID, req.TemplateID)
		if err != nil {
			return sendDomainError(c, err)
		}
		return utils.SendCreated(c, fiber.Map{
			"goal":   goal,
			"habits": habits,
		}, "Goal template applied")
	}
}
