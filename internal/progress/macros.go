package progress

import (
	"context"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

// SaveMacros stores daily totals. All-zero macros are not written, and
// that still counts as a successful save.
func (s *Service) SaveMacros(ctx context.Context, macros plans.DailyMacros) (_ *plans.DailyMacros, _ SaveStatus, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.macros.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.guardDate(ctx, macros.Date); err != nil {
		return nil, StatusError, err
	}
	macros = plans.SanitizeMacros(macros)
	if macros.IsZero() {
		s.metrics.CounterSkippedMacroWrites.Inc()
		return &macros, StatusSaved, nil
	}
	return s.storeMacros(context.WithoutCancel(ctx), macros)
}

func (s *Service) storeMacros(ctx context.Context, macros plans.DailyMacros) (*plans.DailyMacros, SaveStatus, error) {
	saved, err := s.store.UpsertMacros(ctx, macros)
	s.countWrite("macros", err)
	if err != nil {
		return nil, statusFor(err), err
	}
	if s.mirror != nil {
		s.mirrorErr("push macros", s.mirror.PushMacros(ctx, *saved))
	}
	return saved, StatusSaved, nil
}

// MacroHistory lists daily macros in [from, to], newest first. Empty bounds
// default to the last 90 days.
func (s *Service) MacroHistory(ctx context.Context, userID, from, to string) (_ []plans.DailyMacros, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.macros.history")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	from, to, err = s.historyRange(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return s.store.ListMacros(ctx, userID, from, to, 0)
}
