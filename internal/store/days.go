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

func (s *Store) GetWorkoutDay(ctx context.Context, userID, date string) (_ *plans.DatedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.workout_day.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var day plans.DatedWorkout
	err = s.read(ctx, "get workout day", TableWorkoutHistory, func(ctx context.Context) error {
		var raw []byte
		err := s.db.QueryRow(ctx, `
			SELECT id, user_id, date::text, workout, completed
			FROM workout_history
			WHERE user_id = $1 AND date = $2::date
		`, userID, date).Scan(&day.ID, &day.UserID, &day.Date, &raw, &day.Completed)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDayNotFound
		}
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, &day.Workout)
	})
	if err != nil {
		return nil, err
	}

	day = plans.SanitizeDatedWorkout(day)
	return &day, nil
}

// UpsertWorkoutDay writes the day keyed on (date, user_id). The stored
// record is sanitized and gets an id if it has none.
func (s *Store) UpsertWorkoutDay(ctx context.Context, day plans.DatedWorkout) (_ *plans.DatedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.workout_day.upsert")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	day = plans.SanitizeDatedWorkout(day)
	day.ID = newID(day.ID)
	raw, err := json.Marshal(day.Workout)
	if err != nil {
		return nil, fmt.Errorf("marshal workout: %w", err)
	}

	err = s.write(ctx, "upsert workout day", TableWorkoutHistory, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, `
			INSERT INTO workout_history (id, user_id, date, workout, completed, updated_at)
			VALUES ($1, $2, $3::date, $4, $5, now())
			ON CONFLICT (date, user_id) DO UPDATE
				SET workout = EXCLUDED.workout,
				    completed = EXCLUDED.completed,
				    updated_at = now()
			RETURNING id
		`, day.ID, day.UserID, day.Date, raw, day.Completed).Scan(&day.ID)
	})
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (s *Store) DeleteWorkoutDay(ctx context.Context, userID, date string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.workout_day.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.write(ctx, "delete workout day", TableWorkoutHistory, func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, `DELETE FROM workout_history WHERE user_id = $1 AND date = $2::date`, userID, date)
		return err
	})
}

// ListWorkoutDays returns days in [from, to], newest first. Empty bounds are open.
// limit <= 0 means no limit.
func (s *Store) ListWorkoutDays(ctx context.Context, userID, from, to string, limit int) (_ []plans.DatedWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.workout_day.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	days := []plans.DatedWorkout{}
	err = s.read(ctx, "list workout days", TableWorkoutHistory, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `
			SELECT id, user_id, date::text, workout, completed
			FROM workout_history
			WHERE user_id = $1
			  AND ($2::date IS NULL OR date >= $2::date)
			  AND ($3::date IS NULL OR date <= $3::date)
			ORDER BY date DESC
			LIMIT NULLIF($4, 0)
		`, userID, optionalDate(from), optionalDate(to), limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var day plans.DatedWorkout
			var raw []byte
			if err := rows.Scan(&day.ID, &day.UserID, &day.Date, &raw, &day.Completed); err != nil {
				return fmt.Errorf("rows scan: %w", err)
			}
			if err := json.Unmarshal(raw, &day.Workout); err != nil {
				return fmt.Errorf("unmarshal workout %s: %w", day.Date, err)
			}
			days = append(days, plans.SanitizeDatedWorkout(day))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return days, nil
}

func (s *Store) GetDietDay(ctx context.Context, userID, date string) (_ *plans.DietDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.diet_day.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var day plans.DietDay
	err = s.read(ctx, "get diet day", TableDietHistory, func(ctx context.Context) error {
		var raw []byte
		err := s.db.QueryRow(ctx, `
			SELECT id, user_id, date::text, meals, completed
			FROM diet_history
			WHERE user_id = $1 AND date = $2::date
		`, userID, date).Scan(&day.ID, &day.UserID, &day.Date, &raw, &day.Completed)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDayNotFound
		}
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, &day.Meals)
	})
	if err != nil {
		return nil, err
	}

	day = plans.SanitizeDietDay(day)
	return &day, nil
}

func (s *Store) UpsertDietDay(ctx context.Context, day plans.DietDay) (_ *plans.DietDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.diet_day.upsert")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	day = plans.SanitizeDietDay(day)
	day.ID = newID(day.ID)
	raw, err := json.Marshal(day.Meals)
	if err != nil {
		return nil, fmt.Errorf("marshal meals: %w", err)
	}

	err = s.write(ctx, "upsert diet day", TableDietHistory, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, `
			INSERT INTO diet_history (id, user_id, date, meals, completed, updated_at)
			VALUES ($1, $2, $3::date, $4, $5, now())
			ON CONFLICT (date, user_id) DO UPDATE
				SET meals = EXCLUDED.meals,
				    completed = EXCLUDED.completed,
				    updated_at = now()
			RETURNING id
		`, day.ID, day.UserID, day.Date, raw, day.Completed).Scan(&day.ID)
	})
	if err != nil {
		return nil, err
	}
	return &day, nil
}

// DeleteDietDay removes the diet record and the macros derived from it.
func (s *Store) DeleteDietDay(ctx context.Context, userID, date string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.diet_day.delete")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := s.probe(ctx, TableMacroHistory); err != nil {
		return err
	}
	return s.write(ctx, "delete diet day", TableDietHistory, func(ctx context.Context) error {
		return s.inTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, `DELETE FROM diet_history WHERE user_id = $1 AND date = $2::date`, userID, date); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `DELETE FROM macro_history WHERE user_id = $1 AND date = $2::date`, userID, date)
			return err
		})
	})
}

func (s *Store) ListDietDays(ctx context.Context, userID, from, to string, limit int) (_ []plans.DietDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.diet_day.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	days := []plans.DietDay{}
	err = s.read(ctx, "list diet days", TableDietHistory, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `
			SELECT id, user_id, date::text, meals, completed
			FROM diet_history
			WHERE user_id = $1
			  AND ($2::date IS NULL OR date >= $2::date)
			  AND ($3::date IS NULL OR date <= $3::date)
			ORDER BY date DESC
			LIMIT NULLIF($4, 0)
		`, userID, optionalDate(from), optionalDate(to), limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var day plans.DietDay
			var raw []byte
			if err := rows.Scan(&day.ID, &day.UserID, &day.Date, &raw, &day.Completed); err != nil {
				return fmt.Errorf("rows scan: %w", err)
			}
			if err := json.Unmarshal(raw, &day.Meals); err != nil {
				return fmt.Errorf("unmarshal meals %s: %w", day.Date, err)
			}
			days = append(days, plans.SanitizeDietDay(day))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return days, nil
}

// optionalDate maps an open range bound to NULL.
func optionalDate(date string) *string {
	if date == "" {
		return nil
	}
	return &date
}
