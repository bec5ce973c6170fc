package store

import (
	"context"
	"fmt"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

func (s *Store) UpsertMacros(ctx context.Context, m plans.DailyMacros) (_ *plans.DailyMacros, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.macros.upsert")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	m = plans.SanitizeMacros(m)
	m.ID = newID(m.ID)
	err = s.write(ctx, "upsert macros", TableMacroHistory, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, `
			INSERT INTO macro_history (id, user_id, date, calories, protein, carbs, fats, updated_at)
			VALUES ($1, $2, $3::date, $4, $5, $6, $7, now())
			ON CONFLICT (date, user_id) DO UPDATE
				SET calories = EXCLUDED.calories,
				    protein = EXCLUDED.protein,
				    carbs = EXCLUDED.carbs,
				    fats = EXCLUDED.fats,
				    updated_at = now()
			RETURNING id
		`, m.ID, m.UserID, m.Date, m.Calories, m.Protein, m.Carbs, m.Fats).Scan(&m.ID)
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMacros returns macros in [from, to], newest first.
func (s *Store) ListMacros(ctx context.Context, userID, from, to string, limit int) (_ []plans.DailyMacros, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.macros.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	list := []plans.DailyMacros{}
	err = s.read(ctx, "list macros", TableMacroHistory, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `
			SELECT id, user_id, date::text, calories, protein, carbs, fats
			FROM macro_history
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
			var m plans.DailyMacros
			if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.Calories, &m.Protein, &m.Carbs, &m.Fats); err != nil {
				return fmt.Errorf("rows scan: %w", err)
			}
			list = append(list, plans.SanitizeMacros(m))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) AddLogEntry(ctx context.Context, entry plans.WorkoutLogEntry) (_ *plans.WorkoutLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.exercise_log.add")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	entry.ID = newID(entry.ID)
	if entry.Reps < 0 {
		entry.Reps = 0
	}
	err = s.write(ctx, "add exercise log entry", TableExerciseLog, func(ctx context.Context) error {
		return s.db.QueryRow(ctx, `
			INSERT INTO exercise_log (id, user_id, date, exercise_name, reps, created_at)
			VALUES ($1, $2, $3::date, $4, $5, now())
			RETURNING created_at
		`, entry.ID, entry.UserID, entry.Date, entry.ExerciseName, entry.Reps).Scan(&entry.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) ListLogEntries(ctx context.Context, userID, from, to string, limit int) (_ []plans.WorkoutLogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.exercise_log.list")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	entries := []plans.WorkoutLogEntry{}
	err = s.read(ctx, "list exercise log", TableExerciseLog, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `
			SELECT id, user_id, date::text, exercise_name, reps, created_at
			FROM exercise_log
			WHERE user_id = $1
			  AND ($2::date IS NULL OR date >= $2::date)
			  AND ($3::date IS NULL OR date <= $3::date)
			ORDER BY created_at DESC
			LIMIT NULLIF($4, 0)
		`, userID, optionalDate(from), optionalDate(to), limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e plans.WorkoutLogEntry
			if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.ExerciseName, &e.Reps, &e.CreatedAt); err != nil {
				return fmt.Errorf("rows scan: %w", err)
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
