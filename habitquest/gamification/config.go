package gamification

import "github.com/habitquest/habitquest/habitquest/database/models"

// BaseReward is the flat award for completing a habit once, before any
// streak bonus.
type BaseReward struct {
	XP int64
	HP int64
}

// Config holds every tunable of the reward and leveling math. It is injected
// into the Calculator rather than read from globals so tests can vary it.
type Config struct {
	// Base awards keyed by habit frequency. Frequencies not present here
	// fall back to the daily entry.
	BaseRewards map[string]BaseReward

	// Per-day streak bonus, applied (streak - 1) times.
	StreakBonusXP int64
	StreakBonusHP int64

	// Cumulative XP cost of each level step: reaching level N requires
	// (N - 1) * LevelCost total XP.
	LevelCost int64

	// HP granted once per level crossed.
	LevelUpHPBonus int64
}

func DefaultConfig() *Config {
	return &Config{
		BaseRewards: map[string]BaseReward{
			models.FrequencyDaily:   {XP: 10, HP: 5},
			models.FrequencyWeekly:  {XP: 25, HP: 15},
			models.FrequencyMonthly: {XP: 60, HP: 35},
		},
		StreakBonusXP:  2,
		StreakBonusHP:  1,
		LevelCost:      100,
		LevelUpHPBonus: 50,
	}
}
