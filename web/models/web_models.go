package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSession is the authenticated identity stored in the request context
// after the JWT middleware has validated a token.
type UserSession struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// DashboardStats aggregates a user's progress for the dashboard endpoint.
type DashboardStats struct {
	TotalGoals     int64          `json:"total_goals"`
	TotalHabits    int64          `json:"total_habits"`
	TotalLogs      int64          `json:"total_logs"`
	LogsThisWeek   int64          `json:"logs_this_week"`
	Level          int            `json:"level"`
	XP             int64          `json:"xp"`
	HP             int64          `json:"hp"`
	ActiveTitle    string         `json:"active_title,omitempty"`
	NextLevelXP    int64          `json:"next_level_xp"`
	RecentActivity []ActivityItem `json:"recent_activity"`
}

// ActivityItem is a single entry in the dashboard's recent activity feed.
type ActivityItem struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
