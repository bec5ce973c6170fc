package progress

import (
	"context"
	"errors"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

func dietKey(userID, date string) string {
	return cache.DayKey(userID, string(plans.DomainDiet), date)
}

func (s *Service) ResolveDietDay(ctx context.Context, userID, date string) (_ *DietDayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.diet.resolve")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	target, redirected, err := s.targetDate(ctx, date)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("date", target), attribute.Bool("redirected", redirected))

	day, err := s.dietDay(ctx, userID, target)
	if err != nil {
		return nil, err
	}

	view := &DietDayView{
		Day:        day,
		Macros:     day.Macros(),
		SaveStatus: s.status(dietKey(userID, target)),
	}
	if redirected {
		view.RedirectedToToday = true
		view.Notice = futureDateNotice
	}
	return view, nil
}

func (s *Service) dietDay(ctx context.Context, userID, date string) (plans.DietDay, error) {
	key := dietKey(userID, date)

	var day plans.DietDay
	if s.dayCache.Get(key, &day) {
		return day, nil
	}

	stored, err := s.store.GetDietDay(ctx, userID, date)
	switch {
	case err == nil:
		day = *stored
	case errors.Is(err, store.ErrDayNotFound):
		plan, err := s.plans.CurrentDietPlan(ctx, userID)
		if err != nil {
			return plans.DietDay{}, err
		}
		if day, err = plans.DietDayFor(plan, userID, date); err != nil {
			return plans.DietDay{}, err
		}
	default:
		return plans.DietDay{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var cached plans.DietDay
	if s.dayCache.Get(key, &cached) {
		return cached, nil
	}
	if err := s.dayCache.Set(key, day); err != nil {
		log.Errorf("cache diet day %s: %s", key, err)
	}
	return day, nil
}

func (s *Service) ToggleMealItem(ctx context.Context, userID, date string, mealIdx, itemIdx int) (_ *DietDayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.diet.toggle")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.guardDate(ctx, date); err != nil {
		return nil, err
	}
	if _, err := s.dietDay(ctx, userID, date); err != nil {
		return nil, err
	}

	key := dietKey(userID, date)
	s.mu.Lock()
	defer s.mu.Unlock()

	var current plans.DietDay
	if !s.dayCache.Get(key, &current) {
		return nil, errors.New("diet day evicted from cache, retry")
	}
	updated, err := current.WithItemToggled(mealIdx, itemIdx)
	if err != nil {
		return nil, err
	}
	if err := s.dayCache.Set(key, updated); err != nil {
		log.Errorf("cache diet day %s: %s", key, err)
	}
	s.setStatus(key, StatusSaving)
	s.debouncer.Schedule(key, s.dietDebounce, func() {
		ctx, cancel := s.writeContext()
		defer cancel()
		s.writeDietDay(ctx, updated)
	})

	return &DietDayView{Day: updated, Macros: updated.Macros(), SaveStatus: StatusSaving}, nil
}

// writeDietDay persists the day and, once it is stored, recomputes the
// day's macros in the background.
func (s *Service) writeDietDay(ctx context.Context, day plans.DietDay) SaveStatus {
	key := dietKey(day.UserID, day.Date)
	_, err := s.store.UpsertDietDay(ctx, day)
	s.countWrite("diet_day", err)

	status := statusFor(err)
	s.setStatus(key, status)
	if err != nil {
		log.Errorf("save diet day %s: %s", key, err)
		return status
	}
	if s.mirror != nil {
		s.mirrorErr("push diet day", s.mirror.PushDietDay(ctx, day))
	}

	// zero totals are stored as well, so un-checking every item clears the day's macros
	recomputeCtx := context.WithoutCancel(ctx)
	s.debouncer.Go(key, func() {
		ctx, cancel := context.WithTimeout(recomputeCtx, s.writeTimeout)
		defer cancel()
		if _, _, err := s.storeMacros(ctx, day.Macros()); err != nil {
			s.metrics.CounterMacroRecomputeFails.Inc()
			log.Errorf("recompute macros for %s: %s", key, err)
		}
	})

	return status
}

func (s *Service) SaveDietDay(ctx context.Context, userID, date string) (_ *DietDayView, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.diet.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.guardDate(ctx, date); err != nil {
		return nil, err
	}
	s.debouncer.Cancel(dietKey(userID, date))

	day, err := s.dietDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	status := s.writeDietDay(context.WithoutCancel(ctx), day)
	return &DietDayView{Day: day, Macros: day.Macros(), SaveStatus: status}, nil
}

// ResetDietDay deletes the stored day together with its macros.
func (s *Service) ResetDietDay(ctx context.Context, userID, date string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.diet.reset")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if _, err := pkg.ParseDate(date); err != nil {
		return err
	}
	key := dietKey(userID, date)
	s.mu.Lock()
	s.debouncer.Cancel(key)
	s.dayCache.Delete(key)
	s.mu.Unlock()
	s.dropStatuses(key)

	err = s.store.DeleteDietDay(ctx, userID, date)
	s.countWrite("diet_day_delete", err)
	if err != nil {
		return err
	}
	if s.mirror != nil {
		s.mirrorErr("drop diet day", s.mirror.DropDay(ctx, userID, cache.KeyDietHistory, date))
		s.mirrorErr("drop macros", s.mirror.DropDay(ctx, userID, cache.KeyMacroHistory, date))
	}
	return nil
}

func (s *Service) DietStreak(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.diet.streak")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	today := s.Today(ctx)
	from, err := pkg.AddDays(today, -(s.historyDays - 1))
	if err != nil {
		return 0, err
	}
	days, err := s.store.ListDietDays(ctx, userID, from, today, s.historyDays)
	if err != nil {
		return 0, err
	}

	history := make([]DayStatus, 0, len(days)+1)
	for _, d := range days {
		history = append(history, DayStatus{Date: d.Date, Completed: d.Completed})
	}
	var cached plans.DietDay
	if s.dayCache.Get(dietKey(userID, today), &cached) {
		history = append(history, DayStatus{Date: today, Completed: cached.Completed})
	}
	return ComputeStreak(overlay(history), today), nil
}
