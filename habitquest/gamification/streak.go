package gamification

import "time"

// Ledger is the streak state carried per habit: the consecutive-completion
// count ending at LastLogged, and the historical maximum.
type Ledger struct {
	CurrentStreak int
	LongestStreak int
	LastLogged    *time.Time
}

// DateOnly truncates a timestamp to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two timestamps fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// ApplyCompletion folds one completion into the ledger.
//
// Streaks count consecutive calendar days regardless of habit frequency, and
// only logging for today moves the current streak: a log for today either
// continues a streak that ended yesterday or starts a fresh one. Backfilled
// past-date logs leave the current streak and last-logged date untouched —
// there is no retroactive streak recomputation. The longest streak is raised
// to at least the current streak on every call.
//
// Inputs are assumed pre-validated by the caller; in particular, a duplicate
// log for today is rejected before this runs.
func ApplyCompletion(l Ledger, logDate, today time.Time) Ledger {
	logDate = DateOnly(logDate)
	today = DateOnly(today)

	if logDate.Equal(today) {
		yesterday := today.AddDate(0, 0, -1)
		switch {
		case l.LastLogged != nil && DateOnly(*l.LastLogged).Equal(yesterday):
			l.CurrentStreak++
		case l.LastLogged == nil || !DateOnly(*l.LastLogged).Equal(today):
			l.CurrentStreak = 1
		}
		l.LastLogged = &today
	}

	if l.CurrentStreak > l.LongestStreak {
		l.LongestStreak = l.CurrentStreak
	}
	return l
}
