package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/pkg"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// a Wednesday
var testNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

const testToday = "2024-03-13"

func f64(v float64) *float64 { return &v }

func testWorkoutPlan() plans.WorkoutPlan {
	return plans.WorkoutPlan{
		ID:   "ab",
		Name: "A/B",
		Days: []plans.WorkoutDay{
			{
				Name: "A",
				Exercises: []plans.Exercise{
					{Name: "Squat", Sets: "5x5", Reps: 5},
					{Name: "Bench Press", Sets: "5x5", Reps: 5},
				},
			},
			{
				Name:      "B",
				Exercises: []plans.Exercise{{Name: "Row", Sets: "3x8", Reps: 8}},
			},
		},
	}
}

func testDietPlan() plans.DietPlan {
	return plans.DietPlan{
		ID:             "simple",
		Name:           "Simple",
		TargetCalories: 2000,
		Meals: []plans.Meal{
			{
				Time: "08:00",
				Name: "Breakfast",
				Items: []plans.MealItem{
					{Name: "Eggs", Calories: 150.4, Protein: 12, Carbs: 1, Fats: 10},
					{Name: "Oats", Calories: 300, Protein: 10, Carbs: 54, Fats: 5},
				},
				Calories: f64(450),
			},
			{
				Time:  "13:00",
				Name:  "Lunch",
				Items: []plans.MealItem{{Name: "Chicken", Calories: 250, Protein: 40, Carbs: 0, Fats: 8}},
			},
		},
	}
}

type testEnv struct {
	service *Service
	store   *memStore
	mirror  *recordingMirror
	metrics *metrics.Manager
	userID  string
}

func newTestEnv(t *testing.T, planProvider PlanProvider) *testEnv {
	t.Helper()
	env := &testEnv{
		store:   newMemStore(),
		mirror:  &recordingMirror{},
		metrics: metrics.NewTestManager(),
		userID:  gofakeit.UUID(),
	}
	env.service = NewService(ServiceParams{
		Store:   env.store,
		Plans:   planProvider,
		Mirror:  env.mirror,
		Metrics: env.metrics,
		// writes only happen on explicit flush or save
		WorkoutDebounce: time.Hour,
		DietDebounce:    time.Hour,
		Now:             func() time.Time { return testNow },
	})
	t.Cleanup(env.service.FlushPending)
	return env
}

func defaultEnv(t *testing.T) *testEnv {
	return newTestEnv(t, staticPlans{workout: testWorkoutPlan(), diet: testDietPlan()})
}

func TestService_ResolveWorkoutDay_FromPlan(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, "")
	require.NoError(t, err)
	assert.Equal(t, testToday, view.Day.Date)
	assert.Equal(t, env.userID, view.Day.UserID)
	// wednesday is index 2, cycling over two plan days lands on A
	assert.Equal(t, "A", view.Day.Workout.Name)
	assert.Len(t, view.Day.Workout.Exercises, 2)
	assert.False(t, view.Day.Completed)
	assert.False(t, view.RedirectedToToday)
	assert.Empty(t, view.SaveStatus)

	view, err = env.service.ResolveWorkoutDay(ctx, env.userID, "2024-03-12")
	require.NoError(t, err)
	assert.Equal(t, "B", view.Day.Workout.Name)

	// nothing is written by reads
	assert.Zero(t, env.store.workoutUpsertCount())
}

func TestService_ResolveWorkoutDay_FromStore(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	stored := plans.DatedWorkout{
		ID:     "stored-id",
		UserID: env.userID,
		Date:   "2024-03-10",
		Workout: plans.WorkoutDay{
			Name:      "Custom",
			Exercises: []plans.Exercise{{Name: "Plank", Sets: "3x60s", Completed: true}},
		},
		Completed: true,
	}
	_, err := env.store.UpsertWorkoutDay(ctx, stored)
	require.NoError(t, err)

	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, "stored-id", view.Day.ID)
	assert.Equal(t, "Custom", view.Day.Workout.Name)
	assert.True(t, view.Day.Completed)
}

func TestService_ResolveWorkoutDay_EmptyPlan(t *testing.T) {
	env := newTestEnv(t, staticPlans{})

	view, err := env.service.ResolveWorkoutDay(context.Background(), env.userID, testToday)
	require.NoError(t, err)
	assert.Empty(t, view.Day.Workout.Exercises)
	assert.False(t, view.Day.Completed)

	dietView, err := env.service.ResolveDietDay(context.Background(), env.userID, testToday)
	require.NoError(t, err)
	assert.Empty(t, dietView.Day.Meals)
	assert.False(t, dietView.Day.Completed)
	assert.True(t, dietView.Macros.IsZero())
}

func TestService_FutureDate(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, testToday, view.Day.Date)
	assert.True(t, view.RedirectedToToday)
	assert.NotEmpty(t, view.Notice)

	dietView, err := env.service.ResolveDietDay(ctx, env.userID, "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, testToday, dietView.Day.Date)
	assert.True(t, dietView.RedirectedToToday)

	_, err = env.service.ToggleExercise(ctx, env.userID, "2024-03-14", 0)
	require.ErrorIs(t, err, ErrFutureDate)
	var futureErr *FutureDateError
	require.True(t, errors.As(err, &futureErr))
	assert.Equal(t, testToday, futureErr.Today)
	assert.Equal(t, "2024-03-14", futureErr.Date)

	_, err = env.service.SaveWorkoutDay(ctx, env.userID, "2024-03-14")
	assert.ErrorIs(t, err, ErrFutureDate)
	_, err = env.service.ToggleMealItem(ctx, env.userID, "2024-03-14", 0, 0)
	assert.ErrorIs(t, err, ErrFutureDate)
	_, _, err = env.service.SaveMacros(ctx, plans.DailyMacros{UserID: env.userID, Date: "2024-03-14", Calories: 100})
	assert.ErrorIs(t, err, ErrFutureDate)

	assert.Zero(t, env.service.PendingWrites())
}

func TestService_UserTimezone(t *testing.T) {
	env := defaultEnv(t)
	// noon UTC is already the next day at UTC+14
	ctx := ContextWithLocation(context.Background(), time.FixedZone("plus14", 14*60*60))

	assert.Equal(t, "2024-03-14", env.service.Today(ctx))
	_, err := env.service.ToggleExercise(ctx, env.userID, "2024-03-14", 0)
	require.NoError(t, err)
	_, err = env.service.ToggleExercise(context.Background(), env.userID, "2024-03-14", 0)
	assert.ErrorIs(t, err, ErrFutureDate)
}

func TestService_InvalidDate(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	_, err := env.service.ResolveWorkoutDay(ctx, env.userID, "13.03.2024")
	assert.ErrorIs(t, err, pkg.ErrInvalidDate)
	_, err = env.service.ToggleExercise(ctx, env.userID, "yesterday", 0)
	assert.ErrorIs(t, err, pkg.ErrInvalidDate)
	assert.ErrorIs(t, env.service.ResetDay(ctx, env.userID, plans.DomainDiet, "x"), pkg.ErrInvalidDate)
}

func TestService_TogglesCoalesceIntoOneWrite(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	view, err := env.service.ToggleExercise(ctx, env.userID, testToday, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusSaving, view.SaveStatus)
	assert.True(t, view.Day.Workout.Exercises[0].Completed)
	assert.False(t, view.Day.Completed)

	view, err = env.service.ToggleExercise(ctx, env.userID, testToday, 1)
	require.NoError(t, err)
	assert.True(t, view.Day.Completed)

	assert.Equal(t, 1, env.service.PendingWrites())
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.GaugePendingWrites))
	assert.Zero(t, env.store.workoutUpsertCount())

	env.service.FlushPending()
	assert.Equal(t, 1, env.store.workoutUpsertCount())
	assert.Zero(t, env.service.PendingWrites())
	assert.Zero(t, testutil.ToFloat64(env.metrics.GaugePendingWrites))

	stored, err := env.store.GetWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.True(t, stored.Workout.Exercises[0].Completed)
	assert.True(t, stored.Workout.Exercises[1].Completed)

	resolved, err := env.service.ResolveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, resolved.SaveStatus)
	assert.True(t, resolved.Day.Completed)

	pushed, _ := env.mirror.snapshot()
	assert.Equal(t, []string{"workout|" + testToday}, pushed)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterStoreWrites.WithLabelValues("workout_day", "saved")))
}

func TestService_DoubleToggleRestoresDay(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 1)
	require.NoError(t, err)
	view, err := env.service.ToggleExercise(ctx, env.userID, testToday, 1)
	require.NoError(t, err)

	original, err := plans.WorkoutDayFor(testWorkoutPlan(), env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, original, view.Day)
}

func TestService_ConcurrentToggles(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 0)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// an even number of flips leaves the exercise open
	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.False(t, view.Day.Workout.Exercises[0].Completed)
	assert.Equal(t, 1, env.service.PendingWrites())
}

func TestService_IndexOutOfRange(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 2)
	assert.ErrorIs(t, err, plans.ErrIndexOutOfRange)
	_, err = env.service.SetReps(ctx, env.userID, testToday, -1, 5)
	assert.ErrorIs(t, err, plans.ErrIndexOutOfRange)
	_, err = env.service.ToggleMealItem(ctx, env.userID, testToday, 1, 1)
	assert.ErrorIs(t, err, plans.ErrIndexOutOfRange)
	assert.Zero(t, env.service.PendingWrites())
}

func TestService_SaveCancelsPendingWrite(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 0)
	require.NoError(t, err)
	require.Equal(t, 1, env.service.PendingWrites())

	view, err := env.service.SaveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, view.SaveStatus)
	assert.True(t, view.Day.Workout.Exercises[0].Completed)
	assert.Zero(t, env.service.PendingWrites())
	assert.Equal(t, 1, env.store.workoutUpsertCount())

	env.service.FlushPending()
	assert.Equal(t, 1, env.store.workoutUpsertCount())
}

func TestService_SetReps(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	view, err := env.service.SetReps(ctx, env.userID, testToday, 0, -3)
	require.NoError(t, err)
	assert.Zero(t, view.Day.Workout.Exercises[0].Reps)

	view, err = env.service.SetReps(ctx, env.userID, testToday, 0, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, view.Day.Workout.Exercises[0].Reps)
	assert.False(t, view.Day.Workout.Exercises[0].Completed)

	entries, err := env.service.WorkoutLog(ctx, env.userID, "", "")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Squat", entries[0].ExerciseName)
	assert.Equal(t, 12, entries[0].Reps)
	assert.Zero(t, entries[1].Reps)
	assert.Equal(t, testToday, entries[0].Date)

	_, err = env.service.WorkoutLog(ctx, env.userID, "2024-03-13", "2024-03-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestService_WriteFailureStatus(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	env.store.writeErr = &store.StoreError{
		Message: "upsert workout day",
		Code:    store.CodeOffline,
		Err:     errors.New("dial tcp: connection refused"),
	}
	_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 0)
	require.NoError(t, err)
	env.service.FlushPending()

	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, StatusOffline, view.SaveStatus)
	// the change stays in memory for the next attempt
	assert.True(t, view.Day.Workout.Exercises[0].Completed)
	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterStoreWrites.WithLabelValues("workout_day", "offline")))

	env.store.writeErr = errors.New("boom")
	saved, err := env.service.SaveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, StatusError, saved.SaveStatus)

	env.store.writeErr = nil
	saved, err = env.service.SaveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, saved.SaveStatus)

	pushed, _ := env.mirror.snapshot()
	assert.Equal(t, []string{"workout|" + testToday}, pushed)
}

func TestService_DietSaveRecomputesMacros(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	view, err := env.service.ToggleMealItem(ctx, env.userID, testToday, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusSaving, view.SaveStatus)
	assert.Equal(t, 150, view.Macros.Calories)

	_, err = env.service.ToggleMealItem(ctx, env.userID, testToday, 1, 0)
	require.NoError(t, err)

	saved, err := env.service.SaveDietDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, saved.SaveStatus)
	assert.False(t, saved.Day.Completed)
	env.service.Wait()

	macros, err := env.service.MacroHistory(ctx, env.userID, "", "")
	require.NoError(t, err)
	require.Len(t, macros, 1)
	assert.Equal(t, 400, macros[0].Calories)
	assert.Equal(t, 52, macros[0].Protein)
	assert.Equal(t, 1, macros[0].Carbs)
	assert.Equal(t, 18, macros[0].Fats)
	assert.NotEmpty(t, macros[0].ID)

	pushed, _ := env.mirror.snapshot()
	assert.ElementsMatch(t, []string{"diet|" + testToday, "macros|" + testToday}, pushed)
}

func TestService_DietSaveClearsMacrosWhenNothingChecked(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	_, err := env.service.ToggleMealItem(ctx, env.userID, testToday, 0, 0)
	require.NoError(t, err)
	_, err = env.service.SaveDietDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	env.service.Wait()

	macros, err := env.service.MacroHistory(ctx, env.userID, "", "")
	require.NoError(t, err)
	require.Len(t, macros, 1)
	assert.Equal(t, 150, macros[0].Calories)

	view, err := env.service.ToggleMealItem(ctx, env.userID, testToday, 0, 0)
	require.NoError(t, err)
	assert.True(t, view.Macros.IsZero())
	_, err = env.service.SaveDietDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	env.service.Wait()

	macros, err = env.service.MacroHistory(ctx, env.userID, "", "")
	require.NoError(t, err)
	require.Len(t, macros, 1)
	assert.True(t, macros[0].IsZero(), "stored macros: %+v", macros[0])
	assert.Equal(t, 2, env.store.macroUpsertCount())
	assert.Zero(t, testutil.ToFloat64(env.metrics.CounterSkippedMacroWrites))
}

func TestService_DietDayCompletion(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	for _, idx := range [][2]int{{0, 0}, {0, 1}, {1, 0}} {
		_, err := env.service.ToggleMealItem(ctx, env.userID, testToday, idx[0], idx[1])
		require.NoError(t, err)
	}
	view, err := env.service.ResolveDietDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.True(t, view.Day.Completed)
	assert.Equal(t, 700, view.Macros.Calories)

	streak, err := env.service.DietStreak(ctx, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestService_MacroRecomputeFailureDoesNotFailSave(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	_, err := env.service.ToggleMealItem(ctx, env.userID, testToday, 0, 1)
	require.NoError(t, err)

	failing := &failingMacrosStore{memStore: env.store}
	env.service.store = failing

	saved, err := env.service.SaveDietDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, saved.SaveStatus)
	env.service.Wait()

	assert.Equal(t, float64(1), testutil.ToFloat64(env.metrics.CounterMacroRecomputeFails))
	assert.Zero(t, env.store.macroUpsertCount())
}

type failingMacrosStore struct {
	*memStore
}

func (f *failingMacrosStore) UpsertMacros(context.Context, plans.DailyMacros) (*plans.DailyMacros, error) {
	return nil, errors.New("macro_history unavailable")
}

func TestService_SaveMacros_ZeroIsSkipped(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	saved, status, err := env.service.SaveMacros(ctx, plans.DailyMacros{UserID: env.userID, Date: testToday})
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, status)
	assert.True(t, saved.IsZero())

	// negatives are coerced to zero first
	_, status, err = env.service.SaveMacros(ctx, plans.DailyMacros{UserID: env.userID, Date: testToday, Calories: -5})
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, status)

	assert.Zero(t, env.store.macroUpsertCount())
	assert.Equal(t, float64(2), testutil.ToFloat64(env.metrics.CounterSkippedMacroWrites))

	saved, status, err = env.service.SaveMacros(ctx, plans.DailyMacros{UserID: env.userID, Date: testToday, Protein: 30})
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, status)
	assert.Equal(t, 30, saved.Protein)
	assert.Equal(t, 1, env.store.macroUpsertCount())
}

func TestService_ResetDay(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 0)
	require.NoError(t, err)
	_, err = env.service.ToggleMealItem(ctx, env.userID, testToday, 0, 0)
	require.NoError(t, err)
	env.service.FlushPending()

	require.NoError(t, env.service.ResetDay(ctx, env.userID, plans.DomainWorkout, testToday))
	require.NoError(t, env.service.ResetDay(ctx, env.userID, plans.DomainDiet, testToday))
	assert.ErrorIs(t, env.service.ResetDay(ctx, env.userID, plans.Domain("sleep"), testToday), plans.ErrUnknownDomain)

	_, err = env.store.GetWorkoutDay(ctx, env.userID, testToday)
	assert.ErrorIs(t, err, store.ErrDayNotFound)
	macros, err := env.store.ListMacros(ctx, env.userID, "", "", 0)
	require.NoError(t, err)
	assert.Empty(t, macros)

	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.False(t, view.Day.Workout.Exercises[0].Completed)
	assert.Empty(t, view.SaveStatus)

	_, dropped := env.mirror.snapshot()
	assert.ElementsMatch(t, []string{
		cache.KeyWorkoutHistory + "|" + testToday,
		cache.KeyDietHistory + "|" + testToday,
		cache.KeyMacroHistory + "|" + testToday,
	}, dropped)
}

func TestService_ForgetUser(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()
	other := gofakeit.UUID()

	_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 0)
	require.NoError(t, err)
	_, err = env.service.ToggleExercise(ctx, other, testToday, 0)
	require.NoError(t, err)
	require.Equal(t, 2, env.service.PendingWrites())

	env.service.ForgetUser(env.userID)
	assert.Equal(t, 1, env.service.PendingWrites())

	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.False(t, view.Day.Workout.Exercises[0].Completed)
	assert.Empty(t, view.SaveStatus)

	otherView, err := env.service.ResolveWorkoutDay(ctx, other, testToday)
	require.NoError(t, err)
	assert.True(t, otherView.Day.Workout.Exercises[0].Completed)
}

func TestService_ForgetUserWaitsForRunningWrite(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()
	env.store.workoutGate = make(chan struct{})
	env.store.workoutEntered = make(chan struct{}, 1)

	_, err := env.service.ToggleExercise(ctx, env.userID, testToday, 0)
	require.NoError(t, err)

	flushed := make(chan struct{})
	go func() {
		env.service.FlushPending()
		close(flushed)
	}()
	<-env.store.workoutEntered

	forgotten := make(chan struct{})
	go func() {
		env.service.ForgetUser(env.userID)
		close(forgotten)
	}()
	select {
	case <-forgotten:
		t.Fatal("ForgetUser returned while a write of the user was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(env.store.workoutGate)
	<-forgotten
	<-flushed
	env.store.workoutGate = nil

	// an import clears the store once ForgetUser returns; nothing may write the day back
	env.store.clearUser(env.userID)
	env.service.FlushPending()
	env.service.Wait()

	_, err = env.store.GetWorkoutDay(ctx, env.userID, testToday)
	assert.ErrorIs(t, err, store.ErrDayNotFound)
	assert.Equal(t, 1, env.store.workoutUpsertCount())

	view, err := env.service.ResolveWorkoutDay(ctx, env.userID, testToday)
	require.NoError(t, err)
	assert.False(t, view.Day.Workout.Exercises[0].Completed)
}

func TestService_WorkoutStreak(t *testing.T) {
	env := defaultEnv(t)
	ctx := context.Background()

	for _, date := range []string{"2024-03-10", "2024-03-11", "2024-03-12"} {
		_, err := env.store.UpsertWorkoutDay(ctx, plans.DatedWorkout{
			UserID:    env.userID,
			Date:      date,
			Workout:   plans.WorkoutDay{Name: "done", Exercises: []plans.Exercise{{Name: "Run", Completed: true}}},
			Completed: true,
		})
		require.NoError(t, err)
	}

	streak, err := env.service.WorkoutStreak(ctx, env.userID)
	require.NoError(t, err)
	assert.Zero(t, streak, "today not done yet")

	// today completed in memory, before its write lands
	_, err = env.service.ToggleExercise(ctx, env.userID, testToday, 0)
	require.NoError(t, err)
	_, err = env.service.ToggleExercise(ctx, env.userID, testToday, 1)
	require.NoError(t, err)

	streak, err = env.service.WorkoutStreak(ctx, env.userID)
	require.NoError(t, err)
	assert.Equal(t, 4, streak)
}
