package habits

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitquest/habitquest/habitquest/database/models"
	"github.com/habitquest/habitquest/habitquest/database/repositories"
	"github.com/habitquest/habitquest/habitquest/gamification"
)

// fakeCompletionStore is an in-memory CompletionStore. Transactions are
// serialized by a mutex, mirroring how row locks serialize them in Postgres,
// and writes are staged until the callback returns nil.
type fakeCompletionStore struct {
	mu      sync.Mutex
	habits  map[uuid.UUID]*models.Habit
	streaks map[uuid.UUID]*models.HabitStreak
	users   map[uuid.UUID]*models.User
	logs    map[string]*models.HabitLog

	// failOn aborts the transaction when the named operation runs.
	failOn string
}

func newFakeStore() *fakeCompletionStore {
	return &fakeCompletionStore{
		habits:  make(map[uuid.UUID]*models.Habit),
		streaks: make(map[uuid.UUID]*models.HabitStreak),
		users:   make(map[uuid.UUID]*models.User),
		logs:    make(map[string]*models.HabitLog),
	}
}

func logKey(habitID uuid.UUID, day time.Time) string {
	return habitID.String() + "/" + day.Format("2006-01-02")
}

func (s *fakeCompletionStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx CompletionTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &fakeCompletionTx{
		store:         s,
		stagedStreaks: make(map[uuid.UUID]*models.HabitStreak),
		stagedUsers:   make(map[uuid.UUID]*models.User),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for _, log := range tx.stagedLogs {
		s.logs[logKey(log.HabitID, log.LogDate)] = log
	}
	for id, streak := range tx.stagedStreaks {
		s.streaks[id] = streak
	}
	for id, user := range tx.stagedUsers {
		s.users[id] = user
	}
	return nil
}

type fakeCompletionTx struct {
	store         *fakeCompletionStore
	stagedLogs    []*models.HabitLog
	stagedStreaks map[uuid.UUID]*models.HabitStreak
	stagedUsers   map[uuid.UUID]*models.User
}

func (tx *fakeCompletionTx) LockHabit(ctx context.Context, habitID, userID uuid.UUID) (*models.Habit, error) {
	if tx.store.failOn == "LockHabit" {
		return nil, fmt.Errorf("forced failure")
	}
	habit, ok := tx.store.habits[habitID]
	if !ok || habit.UserID != userID {
		return nil, &repositories.NotFoundError{Entity: "habit", ID: habitID}
	}
	clone := *habit
	return &clone, nil
}

func (tx *fakeCompletionTx) LockStreak(ctx context.Context, habitID, userID uuid.UUID) (*models.HabitStreak, error) {
	if streak, ok := tx.store.streaks[habitID]; ok {
		clone := *streak
		return &clone, nil
	}
	return &models.HabitStreak{HabitID: habitID, UserID: userID}, nil
}

func (tx *fakeCompletionTx) LogExists(ctx context.Context, habitID uuid.UUID, day time.Time) (bool, error) {
	_, ok := tx.store.logs[logKey(habitID, day)]
	return ok, nil
}

func (tx *fakeCompletionTx) InsertLog(ctx context.Context, log *models.HabitLog) error {
	if tx.store.failOn == "InsertLog" {
		return fmt.Errorf("forced failure")
	}
	tx.stagedLogs = append(tx.stagedLogs, log)
	return nil
}

func (tx *fakeCompletionTx) SaveStreak(ctx context.Context, streak *models.HabitStreak) error {
	if tx.store.failOn == "SaveStreak" {
		return fmt.Errorf("forced failure")
	}
	clone := *streak
	tx.stagedStreaks[streak.HabitID] = &clone
	return nil
}

func (tx *fakeCompletionTx) LockUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, ok := tx.store.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s missing", userID)
	}
	clone := *user
	return &clone, nil
}

func (tx *fakeCompletionTx) SaveUserProgress(ctx context.Context, user *models.User) error {
	if tx.store.failOn == "SaveUserProgress" {
		return fmt.Errorf("forced failure")
	}
	clone := *user
	tx.stagedUsers[user.ID] = &clone
	return nil
}

// fixture seeds one user with one daily habit and returns everything a test
// needs, with the coordinator clock pinned to a fixed instant.
func fixture(t *testing.T) (*Coordinator, *fakeCompletionStore, uuid.UUID, uuid.UUID, time.Time) {
	t.Helper()

	store := newFakeStore()
	userID := uuid.New()
	habitID := uuid.New()

	store.users[userID] = &models.User{ID: userID, Username: "tester", Level: 1}
	store.habits[habitID] = &models.Habit{
		ID:        habitID,
		UserID:    userID,
		Name:      "Morning run",
		Frequency: models.FrequencyDaily,
	}

	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	co := NewCoordinator(store, gamification.NewCalculator(gamification.DefaultConfig()))
	co.now = func() time.Time { return now }

	return co, store, userID, habitID, gamification.DateOnly(now)
}

func TestLogCompletionFirstTime(t *testing.T) {
	co, store, userID, habitID, today := fixture(t)

	result, err := co.LogCompletion(context.Background(), userID, habitID, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Streak.CurrentStreak)
	assert.Equal(t, 1, result.Streak.LongestStreak)
	assert.Equal(t, int64(10), result.Gamification.XPEarned)
	assert.Equal(t, int64(5), result.Gamification.HPEarned)
	assert.False(t, result.Gamification.LevelUp)
	assert.Nil(t, result.Gamification.NewLevel)

	user := store.users[userID]
	assert.Equal(t, int64(10), user.XP)
	assert.Equal(t, int64(5), user.HP)
	assert.Equal(t, 1, user.Level)

	_, ok := store.logs[logKey(habitID, today)]
	assert.True(t, ok, "log row should be committed")
}

func TestLogCompletionContinuesStreak(t *testing.T) {
	co, store, userID, habitID, today := fixture(t)

	yesterday := today.AddDate(0, 0, -1)
	store.streaks[habitID] = &models.HabitStreak{
		HabitID:        habitID,
		UserID:         userID,
		CurrentStreak:  4,
		LongestStreak:  4,
		LastLoggedDate: &yesterday,
	}

	result, err := co.LogCompletion(context.Background(), userID, habitID, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Streak.CurrentStreak)
	assert.Equal(t, 5, result.Streak.LongestStreak)
	// daily base 10 plus (5-1)*2 streak bonus
	assert.Equal(t, int64(18), result.Gamification.XPEarned)
	assert.Equal(t, int64(9), result.Gamification.HPEarned)
}

func TestLogCompletionDuplicateDayConflicts(t *testing.T) {
	co, store, userID, habitID, _ := fixture(t)

	_, err := co.LogCompletion(context.Background(), userID, habitID, nil)
	require.NoError(t, err)

	_, err = co.LogCompletion(context.Background(), userID, habitID, nil)
	require.Error(t, err)
	assert.True(t, repositories.IsConflict(err))

	assert.Len(t, store.logs, 1)
	assert.Equal(t, int64(10), store.users[userID].XP, "rejected duplicate must not award XP twice")
	assert.Equal(t, 1, store.streaks[habitID].CurrentStreak)
}

func TestLogCompletionUnknownHabit(t *testing.T) {
	co, store, userID, _, _ := fixture(t)

	_, err := co.LogCompletion(context.Background(), userID, uuid.New(), nil)
	require.Error(t, err)
	assert.True(t, repositories.IsNotFound(err))
	assert.Empty(t, store.logs)
}

func TestLogCompletionForeignHabit(t *testing.T) {
	co, store, _, habitID, _ := fixture(t)

	stranger := uuid.New()
	store.users[stranger] = &models.User{ID: stranger, Username: "stranger", Level: 1}

	_, err := co.LogCompletion(context.Background(), stranger, habitID, nil)
	require.Error(t, err)
	assert.True(t, repositories.IsNotFound(err), "other users' habits must look nonexistent")
}

func TestLogCompletionBackfill(t *testing.T) {
	co, store, userID, habitID, today := fixture(t)

	yesterday := today.AddDate(0, 0, -1)
	store.streaks[habitID] = &models.HabitStreak{
		HabitID:        habitID,
		UserID:         userID,
		CurrentStreak:  3,
		LongestStreak:  3,
		LastLoggedDate: &yesterday,
	}

	pastDate := today.AddDate(0, 0, -5)
	result, err := co.LogCompletion(context.Background(), userID, habitID, &pastDate)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Streak.CurrentStreak, "backfill leaves the current streak untouched")
	require.NotNil(t, store.streaks[habitID].LastLoggedDate)
	assert.True(t, store.streaks[habitID].LastLoggedDate.Equal(yesterday))

	// the reward still pays out, using the standing streak for the bonus
	assert.Equal(t, int64(14), result.Gamification.XPEarned)

	_, ok := store.logs[logKey(habitID, pastDate)]
	assert.True(t, ok)
}

func TestLogCompletionMultiLevelJump(t *testing.T) {
	co, store, userID, habitID, _ := fixture(t)

	store.users[userID].XP = 240
	store.users[userID].HP = 20

	result, err := co.LogCompletion(context.Background(), userID, habitID, nil)
	require.NoError(t, err)

	assert.True(t, result.Gamification.LevelUp)
	require.NotNil(t, result.Gamification.NewLevel)
	assert.Equal(t, 3, *result.Gamification.NewLevel)
	assert.Equal(t, int64(250), result.Gamification.XP)
	// 20 existing + 5 earned + 2 level-up bonuses of 50
	assert.Equal(t, int64(125), result.Gamification.HP)

	user := store.users[userID]
	assert.Equal(t, 3, user.Level)
	assert.Equal(t, int64(125), user.HP)
}

func TestLogCompletionRollsBackOnFailure(t *testing.T) {
	co, store, userID, habitID, _ := fixture(t)
	store.failOn = "SaveUserProgress"

	_, err := co.LogCompletion(context.Background(), userID, habitID, nil)
	require.Error(t, err)

	assert.Empty(t, store.logs, "failed transaction must not leave a log behind")
	assert.Empty(t, store.streaks, "failed transaction must not persist the streak")
	assert.Equal(t, int64(0), store.users[userID].XP)
}

func TestLogCompletionConcurrentDuplicate(t *testing.T) {
	co, store, userID, habitID, _ := fixture(t)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := co.LogCompletion(context.Background(), userID, habitID, nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var conflicts, successes int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case repositories.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Len(t, store.logs, 1)
	assert.Equal(t, int64(10), store.users[userID].XP, "only the winning request may award XP")
}
