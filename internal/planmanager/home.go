package planmanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// Home returns the plans and recent history of the user. It is served from
// the redis mirror when present and rebuilt from the store on a miss.
func (m *Manager) Home(ctx context.Context, userID string) (_ *cache.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.planmanager.home")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if m.mirror != nil {
		snap, err := m.mirror.Snapshot(ctx, userID)
		if err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return snap, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			m.metrics.CounterCacheErrors.Inc()
			log.Errorf("plan manager: read home snapshot of %s: %s", userID, err)
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	snap, err := m.buildSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	if m.mirror != nil {
		if err := m.mirror.SaveSnapshot(ctx, userID, snap); err != nil {
			m.metrics.CounterCacheErrors.Inc()
			log.Errorf("plan manager: save home snapshot of %s: %s", userID, err)
		}
	}
	return snap, nil
}

func (m *Manager) buildSnapshot(ctx context.Context, userID string) (*cache.Snapshot, error) {
	current, err := m.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	workoutHistory, err := m.history.ListWorkoutDays(ctx, userID, "", "", cache.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list workout days: %w", err)
	}
	dietHistory, err := m.history.ListDietDays(ctx, userID, "", "", cache.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list diet days: %w", err)
	}
	macroHistory, err := m.history.ListMacros(ctx, userID, "", "", cache.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}

	return &cache.Snapshot{
		PlanIDs:        current.IDs(),
		WorkoutPlan:    current.Workout,
		DietPlan:       current.Diet,
		WorkoutHistory: workoutHistory,
		DietHistory:    dietHistory,
		MacroHistory:   macroHistory,
	}, nil
}
