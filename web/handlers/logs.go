package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/habitquest/habitquest/habitquest/config"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/web/models"
	"github.com/habitquest/habitquest/web/utils"
)

// HandleListLogs returns the user's completion logs, newest first. Supports
// habit_id, start_date and end_date filters plus page/limit pagination.
func HandleListLogs(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		filter := repositories.LogFilter{}

		if raw := c.Query("habit_id"); raw != "" {
			habitID, err := uuid.Parse(raw)
			if err != nil {
				return utils.SendBadRequest(c, "Invalid habit_id", nil)
			}
			filter.HabitID = &habitID
		}
		if raw := c.Query("start_date"); raw != "" {
			start, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return utils.SendBadRequest(c, "Invalid start_date, expected YYYY-MM-DD", nil)
			}
			filter.StartDate = &start
		}
		if raw := c.Query("end_date"); raw != "" {
			end, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return utils.SendBadRequest(c, "Invalid end_date, expected YYYY-MM-DD", nil)
			}
			filter.EndDate = &end
		}

		page := queryInt(c, "page", 1)
		if page < 1 {
			page = 1
		}
		limit := queryInt(c, "limit", config.DefaultPageSize)
		if limit < 1 {
			limit = config.DefaultPageSize
		}
		if limit > config.MaxPageSize {
			limit = config.MaxPageSize
		}

		total, err := webApp.Logs.CountByUserID(c.Context(), s.UserID, filter)
		if err != nil {
			return sendDomainError(c, err)
		}

		filter.Limit = limit
		filter.Offset = (page - 1) * limit

		logs, err := webApp.Logs.GetByUserID(c.Context(), s.UserID, filter)
		if err != nil {
			return sendDomainError(c, err)
		}

		pagination := models.NewPaginationInfo(page, limit, int64(total))
		return utils.SendPaginated(c, logs, pagination, "")
	}
}

func queryInt(c *fiber.Ctx, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
