package gamification

type Calculator struct {
	config *Config
}

func NewCalculator(config *Config) *Calculator {
	return &Calculator{config: config}
}

// ComputeReward maps a habit's frequency and its post-update streak length to
// the XP/HP awarded for one completion. Unrecognized frequencies use the
// daily base values.
func (c *Calculator) ComputeReward(frequency string, streak int) Reward {
	base, ok := c.config.BaseRewards[frequency]
	if !ok {
		base = c.config.BaseRewards["daily"]
	}

	bonusDays := int64(streak - 1)
	if bonusDays < 0 {
		bonusDays = 0
	}

	return Reward{
		XP: base.XP + bonusDays*c.config.StreakBonusXP,
		HP: base.HP + bonusDays*c.config.StreakBonusHP,
	}
}

// ThresholdForLevel returns the total cumulative XP required to have reached
// the given level. Level 1 and below cost nothing.
func (c *Calculator) ThresholdForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(level-1) * c.config.LevelCost
}

// ApplyXPGain adds earned XP to a balance and crosses as many level
// thresholds as the new total covers, accumulating the per-level HP bonus.
// A single large gain can jump several levels at once.
func (c *Calculator) ApplyXPGain(level int, xp, earned int64) LevelResult {
	result := LevelResult{
		Level: level,
		XP:    xp + earned,
	}

	for result.XP >= c.ThresholdForLevel(result.Level+1) {
		result.Level++
		result.HPBonus += c.config.LevelUpHPBonus
	}

	result.LeveledUp = result.Level > level
	return result
}
