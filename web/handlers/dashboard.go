package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/habitquest/habitquest/habitquest/config"
	dbmodels "github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/habitquest/gamification"
	"github.com/habitquest/habitquest/web/models"
	"github.com/habitquest/habitquest/web/utils"
)

// HandleDashboard aggregates the user's stats. The independent count queries
// run concurrently and the whole aggregation is bounded by one timeout.
func HandleDashboard(webApp *WebApp) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := session(c)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.Context(), config.StatsQueryTimeout)
		defer cancel()

		var (
			user       *dbmodels.User
			goalCount  int
			habitCount int
			logCount   int
			weekCount  int
			recent     []*dbmodels.HabitLog
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			user, err = webApp.Users.GetByID(gctx, s.UserID)
			return err
		})
		g.Go(func() error {
			var err error
			goalCount, err = webApp.Goals.CountByUserID(gctx, s.UserID)
			return err
		})
		g.Go(func() error {
			var err error
			habitCount, err = webApp.Habits.CountByUserID(gctx, s.UserID)
			return err
		})
		g.Go(func() error {
			var err error
			logCount, err = webApp.Logs.CountByUserID(gctx, s.UserID, repositories.LogFilter{})
			return err
		})
		g.Go(func() error {
			weekAgo := gamification.DateOnly(time.Now()).AddDate(0, 0, -6)
			var err error
			weekCount, err = webApp.Logs.CountByUserIDSince(gctx, s.UserID, weekAgo)
			return err
		})
		g.Go(func() error {
			var err error
			recent, err = webApp.Logs.GetByUserID(gctx, s.UserID, repositories.LogFilter{Limit: 5})
			return err
		})

		if err := g.Wait(); err != nil {
			return sendDomainError(c, err)
		}

		activity := make([]models.ActivityItem, 0, len(recent))
		for _, log := range recent {
			activity = append(activity, models.ActivityItem{
				Type:        "habit_logged",
				Description: fmt.Sprintf("Completed a habit on %s", log.LogDate.Format("2006-01-02")),
				Timestamp:   log.CreatedAt,
			})
		}

		stats := &models.DashboardStats{
			TotalGoals:     int64(goalCount),
			TotalHabits:    int64(habitCount),
			TotalLogs:      int64(logCount),
			LogsThisWeek:   int64(weekCount),
			Level:          user.Level,
			XP:             user.XP,
			HP:             user.HP,
			ActiveTitle:    user.ActiveTitle,
			NextLevelXP:    webApp.Calculator.ThresholdForLevel(user.Level + 1),
			RecentActivity: activity,
		}
		return utils.SendSuccess(c, stats, "")
	}
}
