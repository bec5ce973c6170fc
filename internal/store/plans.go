package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
)

// Settings holds the per-user current-plan markers. An empty marker selects
// the catalog default, plans.NoPlanMarker selects the empty plan.
type Settings struct {
	UserID               string `json:"userId"`
	CurrentWorkoutPlanID string `json:"currentWorkoutPlanId"`
	CurrentDietPlanID    string `json:"currentDietPlanId"`
}

func (s Settings) Marker(domain plans.Domain) string {
	if domain == plans.DomainDiet {
		return s.CurrentDietPlanID
	}
	return s.CurrentWorkoutPlanID
}

type domainTables struct {
	plan     string
	progress []string
	marker   string
}

func tablesFor(domain plans.Domain) (domainTables, error) {
	switch domain {
	case plans.DomainWorkout:
		return domainTables{
			plan:     TableWorkoutPlans,
			progress: []string{TableWorkoutHistory, TableExerciseLog},
			marker:   "current_workout_plan_id",
		}, nil
	case plans.DomainDiet:
		return domainTables{
			plan:     TableDietPlans,
			progress: []string{TableDietHistory, TableMacroHistory},
			marker:   "current_diet_plan_id",
		}, nil
	default:
		return domainTables{}, fmt.Errorf("%w: %q", plans.ErrUnknownDomain, domain)
	}
}

func (s *Store) probeAll(ctx context.Context, tables ...string) error {
	for _, t := range tables {
		if err := s.probe(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) getPlanJSON(ctx context.Context, table, userID string) ([]byte, error) {
	var raw []byte
	err := s.read(ctx, "get plan", table, func(ctx context.Context) error {
		err := s.db.QueryRow(ctx,
			`SELECT plan FROM `+table+` WHERE user_id = $1`,
			userID,
		).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPlanNotFound
		}
		return err
	})
	return raw, err
}

// GetCustomWorkoutPlan returns the user's imported workout plan, or ErrPlanNotFound.
func (s *Store) GetCustomWorkoutPlan(ctx context.Context, userID string) (_ *plans.WorkoutPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.workout_plan.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := s.getPlanJSON(ctx, TableWorkoutPlans, userID)
	if err != nil {
		return nil, err
	}
	var p plans.WorkoutPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal workout plan: %w", err)
	}
	p = plans.SanitizeWorkoutPlan(p)
	return &p, nil
}

func (s *Store) GetCustomDietPlan(ctx context.Context, userID string) (_ *plans.DietPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.diet_plan.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := s.getPlanJSON(ctx, TableDietPlans, userID)
	if err != nil {
		return nil, err
	}
	var p plans.DietPlan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal diet plan: %w", err)
	}
	p = plans.SanitizeDietPlan(p)
	return &p, nil
}

// ReplaceWorkoutPlan makes plan the only custom workout plan of the user.
// Workout progress is deleted and the marker points at the new plan, all in one transaction.
func (s *Store) ReplaceWorkoutPlan(ctx context.Context, userID string, plan plans.WorkoutPlan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.workout_plan.replace")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := json.Marshal(plans.SanitizeWorkoutPlan(plan))
	if err != nil {
		return fmt.Errorf("marshal workout plan: %w", err)
	}
	return s.replacePlan(ctx, userID, plans.DomainWorkout, plan.ID, raw)
}

func (s *Store) ReplaceDietPlan(ctx context.Context, userID string, plan plans.DietPlan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.diet_plan.replace")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := json.Marshal(plans.SanitizeDietPlan(plan))
	if err != nil {
		return fmt.Errorf("marshal diet plan: %w", err)
	}
	return s.replacePlan(ctx, userID, plans.DomainDiet, plan.ID, raw)
}

func (s *Store) replacePlan(ctx context.Context, userID string, domain plans.Domain, planID string, raw []byte) error {
	dt, err := tablesFor(domain)
	if err != nil {
		return err
	}
	if err := s.probeAll(ctx, append(dt.progress, TableUserSettings)...); err != nil {
		return err
	}

	return s.write(ctx, "replace "+string(domain)+" plan", dt.plan, func(ctx context.Context) error {
		return s.inTx(ctx, func(tx pgx.Tx) error {
			if err := clearDomainTx(ctx, tx, dt, userID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO `+dt.plan+` (id, user_id, plan_id, plan, updated_at) VALUES ($1, $2, $3, $4, now())`,
				newID(""), userID, planID, raw,
			); err != nil {
				return err
			}
			return setMarkerTx(ctx, tx, dt, userID, planID)
		})
	})
}

// ClearDomain deletes the custom plan and all progress of one domain and sets
// the marker, in one transaction.
func (s *Store) ClearDomain(ctx context.Context, userID string, domain plans.Domain, marker string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.domain.clear")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	dt, err := tablesFor(domain)
	if err != nil {
		return err
	}
	if err := s.probeAll(ctx, append(dt.progress, TableUserSettings)...); err != nil {
		return err
	}

	return s.write(ctx, "clear "+string(domain), dt.plan, func(ctx context.Context) error {
		return s.inTx(ctx, func(tx pgx.Tx) error {
			if err := clearDomainTx(ctx, tx, dt, userID); err != nil {
				return err
			}
			return setMarkerTx(ctx, tx, dt, userID, marker)
		})
	})
}

func clearDomainTx(ctx context.Context, tx pgx.Tx, dt domainTables, userID string) error {
	for _, t := range append([]string{dt.plan}, dt.progress...) {
		if _, err := tx.Exec(ctx, `DELETE FROM `+t+` WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete from %s: %w", t, err)
		}
	}
	return nil
}

func setMarkerTx(ctx context.Context, tx pgx.Tx, dt domainTables, userID, marker string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_settings (user_id, `+dt.marker+`, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE
			SET `+dt.marker+` = EXCLUDED.`+dt.marker+`,
			    updated_at = now()
	`, userID, marker)
	return err
}

// ClearProgress wipes every progress table of the user. Plans and settings stay.
func (s *Store) ClearProgress(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.progress.clear")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.probeAll(ctx, ProgressTables...); err != nil {
		return err
	}
	return s.write(ctx, "clear progress", TableWorkoutHistory, func(ctx context.Context) error {
		return s.inTx(ctx, func(tx pgx.Tx) error {
			for _, t := range ProgressTables {
				if _, err := tx.Exec(ctx, `DELETE FROM `+t+` WHERE user_id = $1`, userID); err != nil {
					return fmt.Errorf("delete from %s: %w", t, err)
				}
			}
			return nil
		})
	})
}

// GetSettings returns empty markers when the user has no settings row yet.
func (s *Store) GetSettings(ctx context.Context, userID string) (_ *Settings, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.settings.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	settings := &Settings{UserID: userID}
	err = s.read(ctx, "get settings", TableUserSettings, func(ctx context.Context) error {
		err := s.db.QueryRow(ctx, `
			SELECT current_workout_plan_id, current_diet_plan_id
			FROM user_settings
			WHERE user_id = $1
		`, userID).Scan(&settings.CurrentWorkoutPlanID, &settings.CurrentDietPlanID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Store) SetPlanMarker(ctx context.Context, userID string, domain plans.Domain, marker string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.settings.set_marker")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	dt, err := tablesFor(domain)
	if err != nil {
		return err
	}
	return s.write(ctx, "set plan marker", TableUserSettings, func(ctx context.Context) error {
		return s.inTx(ctx, func(tx pgx.Tx) error {
			return setMarkerTx(ctx, tx, dt, userID, marker)
		})
	})
}

// GetDatabaseStatus returns the stored status document, or nil when none was saved.
func (s *Store) GetDatabaseStatus(ctx context.Context, userID string) (_ json.RawMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.database_status.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var raw []byte
	err = s.read(ctx, "get database status", TableUserSettings, func(ctx context.Context) error {
		err := s.db.QueryRow(ctx,
			`SELECT database_status FROM user_settings WHERE user_id = $1`,
			userID,
		).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *Store) SaveDatabaseStatus(ctx context.Context, userID string, status json.RawMessage) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.database_status.save")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if !json.Valid(status) {
		return errors.New("database status is not valid json")
	}
	return s.write(ctx, "save database status", TableUserSettings, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `
			INSERT INTO user_settings (user_id, database_status, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (user_id) DO UPDATE
				SET database_status = EXCLUDED.database_status,
				    updated_at = now()
		`, userID, []byte(status))
		return err
	})
}
