package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeReward(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name      string
		frequency string
		streak    int
		wantXP    int64
		wantHP    int64
	}{
		{name: "daily first completion", frequency: "daily", streak: 1, wantXP: 10, wantHP: 5},
		{name: "daily five day streak", frequency: "daily", streak: 5, wantXP: 18, wantHP: 9},
		{name: "weekly first completion", frequency: "weekly", streak: 1, wantXP: 25, wantHP: 15},
		{name: "weekly three day streak", frequency: "weekly", streak: 3, wantXP: 29, wantHP: 17},
		{name: "monthly first completion", frequency: "monthly", streak: 1, wantXP: 60, wantHP: 35},
		{name: "unknown frequency falls back to daily", frequency: "hourly", streak: 1, wantXP: 10, wantHP: 5},
		{name: "zero streak earns base only", frequency: "daily", streak: 0, wantXP: 10, wantHP: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.ComputeReward(tt.frequency, tt.streak)
			assert.Equal(t, tt.wantXP, got.XP)
			assert.Equal(t, tt.wantHP, got.HP)
		})
	}
}

func TestComputeRewardDeterministic(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	first := calc.ComputeReward("daily", 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, calc.ComputeReward("daily", 7))
	}
}

func TestThresholdForLevel(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	assert.Equal(t, int64(0), calc.ThresholdForLevel(0))
	assert.Equal(t, int64(0), calc.ThresholdForLevel(1))
	assert.Equal(t, int64(100), calc.ThresholdForLevel(2))
	assert.Equal(t, int64(400), calc.ThresholdForLevel(5))
}

func TestApplyXPGain(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name        string
		level       int
		xp          int64
		earned      int64
		wantLevel   int
		wantXP      int64
		wantHPBonus int64
		wantLevelUp bool
	}{
		{
			name:  "no level up",
			level: 1, xp: 0, earned: 50,
			wantLevel: 1, wantXP: 50, wantHPBonus: 0, wantLevelUp: false,
		},
		{
			name:  "single level up",
			level: 1, xp: 95, earned: 10,
			wantLevel: 2, wantXP: 105, wantHPBonus: 50, wantLevelUp: true,
		},
		{
			name:  "exact threshold levels up",
			level: 1, xp: 90, earned: 10,
			wantLevel: 2, wantXP: 100, wantHPBonus: 50, wantLevelUp: true,
		},
		{
			name:  "multi level jump grants bonus per level",
			level: 1, xp: 0, earned: 250,
			wantLevel: 3, wantXP: 250, wantHPBonus: 100, wantLevelUp: true,
		},
		{
			name:  "high level unchanged",
			level: 5, xp: 420, earned: 30,
			wantLevel: 5, wantXP: 450, wantHPBonus: 0, wantLevelUp: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.ApplyXPGain(tt.level, tt.xp, tt.earned)
			assert.Equal(t, tt.wantLevel, got.Level)
			assert.Equal(t, tt.wantXP, got.XP)
			assert.Equal(t, tt.wantHPBonus, got.HPBonus)
			assert.Equal(t, tt.wantLevelUp, got.LeveledUp)
		})
	}
}

func TestApplyXPGainNeverLosesProgress(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	level, xp := 1, int64(0)
	for i := 0; i < 50; i++ {
		result := calc.ApplyXPGain(level, xp, 37)
		assert.GreaterOrEqual(t, result.Level, level)
		assert.Equal(t, xp+37, result.XP)
		level, xp = result.Level, result.XP
	}
}
