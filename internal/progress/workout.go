package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

func workoutKey(userID, date string) string {
	return cache.DayKey(userID, string(plans.DomainWorkout), date)
}

// ResolveWorkoutDay returns the workout record for date: from memory, then
// the store, else built from the current plan. Future dates resolve to today.
func (s *Service) ResolveWorkoutDay(ctx context.Context, userID, date string) (_ *WorkoutDayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.workout.resolve")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	target, redirected, err := s.targetDate(ctx, date)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("date", target), attribute.Bool("redirected", redirected))

	day, err := s.workoutDay(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	view := &WorkoutDayView{
		Day:        day,
		SaveStatus: s.status(workoutKey(userID, target)),
	}
	if redirected {
		view.RedirectedToToday = true
		view.Notice = futureDateNotice
	}
	return view, nil
}

func (s *Service) workoutDay(ctx context.Context, userID, date string) (plans.DatedWorkout, error) {
	key := workoutKey(userID, date)

	var day plans.DatedWorkout
	if s.dayCache.Get(key, &day) {
		return day, nil
	}

	stored, err := s.store.GetWorkoutDay(ctx, userID, date)
	switch {
	case err == nil:
		day = *stored
	case errors.Is(err, store.ErrDayNotFound):
		plan, err := s.plans.CurrentWorkoutPlan(ctx, userID)
		if err != nil {
			return plans.DatedWorkout{}, err
		}
		if day, err = plans.WorkoutDayFor(plan, userID, date); err != nil {
			return plans.DatedWorkout{}, err
		}
	default:
		return plans.DatedWorkout{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// a concurrent mutation may have cached a newer state meanwhile
	var cached plans.DatedWorkout
	if s.dayCache.Get(key, &cached) {
		return cached, nil
	}
	if err := s.dayCache.Set(key, day); err != nil {
		log.Errorf("cache workout day %s: %s", key, err)
	}
	return day, nil
}

// mutateWorkoutDay applies change to the cached day and schedules a debounced write.
func (s *Service) mutateWorkoutDay(
	ctx context.Context,
	userID, date string,
	change func(plans.DatedWorkout) (plans.DatedWorkout, error),
) (*WorkoutDayView, error) {
	if err := s.guardDate(ctx, date); err != nil {
		return nil, err
	}
	if _, err := s.workoutDay(ctx, userID, date); err != nil {
		return nil, err
	}

	key := workoutKey(userID, date)
	s.mu.Lock()
	var current plans.DatedWorkout
	if !s.dayCache.Get(key, &current) {
		s.mu.Unlock()
		return nil, errors.New("workout day evicted from cache, retry")
	}
	updated, err := change(current)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if err := s.dayCache.Set(key, updated); err != nil {
		log.Errorf("cache workout day %s: %s", key, err)
	}
	s.setStatus(key, StatusSaving)
	s.debouncer.Schedule(key, s.workoutDebounce, func() {
		ctx, cancel := s.writeContext()
		defer cancel()
		s.writeWorkoutDay(ctx, updated)
	})
	s.mu.Unlock()

	return &WorkoutDayView{Day: updated, SaveStatus: StatusSaving}, nil
}

func (s *Service) writeWorkoutDay(ctx context.Context, day plans.DatedWorkout) SaveStatus {
	key := workoutKey(day.UserID, day.Date)
	_, err := s.store.UpsertWorkoutDay(ctx, day)
	s.countWrite("workout_day", err)

	status := statusFor(err)
	s.setStatus(key, status)
	if err != nil {
		log.Errorf("save workout day %s: %s", key, err)
		return status
	}
	if s.mirror != nil {
		s.mirrorErr("push workout day", s.mirror.PushWorkoutDay(ctx, day))
	}
	return status
}

func (s *Service) ToggleExercise(ctx context.Context, userID, date string, idx int) (_ *WorkoutDayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.workout.toggle")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.mutateWorkoutDay(ctx, userID, date, func(day plans.DatedWorkout) (plans.DatedWorkout, error) {
		return day.WithExerciseToggled(idx)
	})
}

// SetReps records reps for one exercise and appends an exercise log entry.
func (s *Service) SetReps(ctx context.Context, userID, date string, idx, reps int) (_ *WorkoutDayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.workout.set_reps")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var exerciseName string
	view, err := s.mutateWorkoutDay(ctx, userID, date, func(day plans.DatedWorkout) (plans.DatedWorkout, error) {
		updated, err := day.WithReps(idx, reps)
		if err != nil {
			return day, err
		}
		exerciseName = updated.Workout.Exercises[idx].Name
		return updated, nil
	})
	if err != nil {
		return nil, err
	}

	_, logErr := s.store.AddLogEntry(context.WithoutCancel(ctx), plans.WorkoutLogEntry{
		UserID:       userID,
		Date:         date,
		ExerciseName: exerciseName,
		Reps:         view.Day.Workout.Exercises[idx].Reps,
	})
	s.countWrite("exercise_log", logErr)
	if logErr != nil {
		log.Errorf("append exercise log for %s %s: %s", userID, date, logErr)
	}
	return view, nil
}

// SaveWorkoutDay writes the day now, replacing any pending debounced write.
func (s *Service) SaveWorkoutDay(ctx context.Context, userID, date string) (_ *WorkoutDayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.workout.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.guardDate(ctx, date); err != nil {
		return nil, err
	}
	s.debouncer.Cancel(workoutKey(userID, date))

	day, err := s.workoutDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	status := s.writeWorkoutDay(context.WithoutCancel(ctx), day)
	return &WorkoutDayView{Day: day, SaveStatus: status}, nil
}

// ResetWorkoutDay deletes the stored day; the next resolve rebuilds it from the plan.
func (s *Service) ResetWorkoutDay(ctx context.Context, userID, date string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.workout.reset")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if _, err := pkg.ParseDate(date); err != nil {
		return err
	}
	key := workoutKey(userID, date)
	s.mu.Lock()
	s.debouncer.Cancel(key)
	s.dayCache.Delete(key)
	s.mu.Unlock()
	s.dropStatuses(key)

	err = s.store.DeleteWorkoutDay(ctx, userID, date)
	s.countWrite("workout_day_delete", err)
	if err != nil {
		return err
	}
	if s.mirror != nil {
		s.mirrorErr("drop workout day", s.mirror.DropDay(ctx, userID, cache.KeyWorkoutHistory, date))
	}
	return nil
}

func (s *Service) WorkoutStreak(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.workout.streak")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	today := s.Today(ctx)
	from, err := pkg.AddDays(today, -(s.historyDays - 1))
	if err != nil {
		return 0, err
	}
	days, err := s.store.ListWorkoutDays(ctx, userID, from, today, s.historyDays)
	if err != nil {
		return 0, err
	}

	history := make([]DayStatus, 0, len(days)+1)
	for _, d := range days {
		history = append(history, DayStatus{Date: d.Date, Completed: d.Completed})
	}
	// today may only exist in memory while its write is pending
	var cached plans.DatedWorkout
	if s.dayCache.Get(workoutKey(userID, today), &cached) {
		history = append(history, DayStatus{Date: today, Completed: cached.Completed})
	}
	return ComputeStreak(overlay(history), today), nil
}

// overlay keeps the last status given for each date.
func overlay(history []DayStatus) []DayStatus {
	byDate := make(map[string]bool, len(history))
	order := make([]string, 0, len(history))
	for _, d := range history {
		if _, seen := byDate[d.Date]; !seen {
			order = append(order, d.Date)
		}
		byDate[d.Date] = d.Completed
	}
	out := make([]DayStatus, 0, len(order))
	for _, date := range order {
		out = append(out, DayStatus{Date: date, Completed: byDate[date]})
	}
	return out
}

// WorkoutLog lists exercise log entries, newest first. Empty bounds default to the history window.
func (s *Service) WorkoutLog(ctx context.Context, userID, from, to string) (_ []plans.WorkoutLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.workout.log")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	from, to, err = s.historyRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.store.ListLogEntries(ctx, userID, from, to, 0)
}

func (s *Service) historyRange(ctx context.Context, from, to string) (string, string, error) {
	if to == "" {
		to = s.Today(ctx)
	}
	if _, err := pkg.ParseDate(to); err != nil {
		return "", "", err
	}
	if from == "" {
		f, err := pkg.AddDays(to, -(s.historyDays - 1))
		if err != nil {
			return "", "", err
		}
		from = f
	}
	if _, err := pkg.ParseDate(from); err != nil {
		return "", "", err
	}
	if pkg.IsAfterDate(from, to) {
		return "", "", fmt.Errorf("%w: %s is after %s", ErrInvalidRange, from, to)
	}
	return from, to, nil
}
