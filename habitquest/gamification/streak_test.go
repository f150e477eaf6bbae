package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestApplyCompletionColdStart(t *testing.T) {
	today := day(2026, 3, 10)

	got := ApplyCompletion(Ledger{}, today, today)

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 1, got.LongestStreak)
	require.NotNil(t, got.LastLogged)
	assert.True(t, got.LastLogged.Equal(today))
}

func TestApplyCompletionContinuesFromYesterday(t *testing.T) {
	today := day(2026, 3, 10)
	yesterday := day(2026, 3, 9)

	got := ApplyCompletion(Ledger{
		CurrentStreak: 3,
		LongestStreak: 6,
		LastLogged:    &yesterday,
	}, today, today)

	assert.Equal(t, 4, got.CurrentStreak)
	assert.Equal(t, 6, got.LongestStreak)
	require.NotNil(t, got.LastLogged)
	assert.True(t, got.LastLogged.Equal(today))
}

func TestApplyCompletionGapResets(t *testing.T) {
	today := day(2026, 3, 10)
	threeDaysAgo := day(2026, 3, 7)

	got := ApplyCompletion(Ledger{
		CurrentStreak: 5,
		LongestStreak: 5,
		LastLogged:    &threeDaysAgo,
	}, today, today)

	assert.Equal(t, 1, got.CurrentStreak)
	assert.Equal(t, 5, got.LongestStreak, "longest streak survives a reset")
}

func TestApplyCompletionBackfillLeavesStreakAlone(t *testing.T) {
	today := day(2026, 3, 10)
	yesterday := day(2026, 3, 9)
	lastWeek := day(2026, 3, 3)

	got := ApplyCompletion(Ledger{
		CurrentStreak: 2,
		LongestStreak: 4,
		LastLogged:    &yesterday,
	}, lastWeek, today)

	assert.Equal(t, 2, got.CurrentStreak)
	assert.Equal(t, 4, got.LongestStreak)
	require.NotNil(t, got.LastLogged)
	assert.True(t, got.LastLogged.Equal(yesterday), "backfill must not move the last logged date")
}

func TestApplyCompletionLongestTracksCurrent(t *testing.T) {
	today := day(2026, 3, 10)
	yesterday := day(2026, 3, 9)

	got := ApplyCompletion(Ledger{
		CurrentStreak: 7,
		LongestStreak: 7,
		LastLogged:    &yesterday,
	}, today, today)

	assert.Equal(t, 8, got.CurrentStreak)
	assert.Equal(t, 8, got.LongestStreak)
}

func TestApplyCompletionIgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)
	yesterdayEvening := time.Date(2026, 3, 9, 22, 10, 0, 0, time.UTC)

	got := ApplyCompletion(Ledger{
		CurrentStreak: 1,
		LongestStreak: 1,
		LastLogged:    &yesterdayEvening,
	}, now, now)

	assert.Equal(t, 2, got.CurrentStreak)
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2026, 3, 10, 3, 45, 12, 999, time.FixedZone("UTC+9", 9*3600))

	got := DateOnly(ts)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 9, got.Day(), "conversion happens in UTC, not the local zone")
	assert.Equal(t, 0, got.Hour())
}
