package gamification

// Reward is the XP/HP awarded for a single completion.
type Reward struct {
	XP int64
	HP int64
}

// LevelResult is the outcome of applying an XP gain to a user's balance.
// XP carries over unchanged across level-ups; only the earned amount moves it.
type LevelResult struct {
	Level     int
	XP        int64
	HPBonus   int64
	LeveledUp bool
}
