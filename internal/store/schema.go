package store

import (
	"strings"
)

const (
	TableWorkoutPlans   = "workout_plans"
	TableWorkoutHistory = "workout_history"
	TableDietPlans      = "diet_plans"
	TableDietHistory    = "diet_history"
	TableMacroHistory   = "macro_history"
	TableUserSettings   = "user_settings"
	TableExerciseLog    = "exercise_log"
	TableAppUser        = "app_user"
)

// RequiredTables lists every table the service needs, in creation order.
var RequiredTables = []string{
	TableAppUser,
	TableUserSettings,
	TableWorkoutPlans,
	TableDietPlans,
	TableWorkoutHistory,
	TableDietHistory,
	TableMacroHistory,
	TableExerciseLog,
}

// ProgressTables hold per-day progress; plans and settings are not included.
var ProgressTables = []string{
	TableWorkoutHistory,
	TableDietHistory,
	TableMacroHistory,
	TableExerciseLog,
}

var tableDDL = map[string]string{
	TableAppUser: `
CREATE TABLE IF NOT EXISTS app_user
(
    id            VARCHAR PRIMARY KEY,
    username      VARCHAR     NOT NULL UNIQUE,
    password_hash VARCHAR     NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	TableUserSettings: `
CREATE TABLE IF NOT EXISTS user_settings
(
    user_id                 VARCHAR PRIMARY KEY,
    current_workout_plan_id VARCHAR     NOT NULL DEFAULT '',
    current_diet_plan_id    VARCHAR     NOT NULL DEFAULT '',
    database_status         JSONB,
    updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	TableWorkoutPlans: `
CREATE TABLE IF NOT EXISTS workout_plans
(
    id         VARCHAR PRIMARY KEY,
    user_id    VARCHAR     NOT NULL UNIQUE,
    plan_id    VARCHAR     NOT NULL,
    plan       JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	TableDietPlans: `
CREATE TABLE IF NOT EXISTS diet_plans
(
    id         VARCHAR PRIMARY KEY,
    user_id    VARCHAR     NOT NULL UNIQUE,
    plan_id    VARCHAR     NOT NULL,
    plan       JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	TableWorkoutHistory: `
CREATE TABLE IF NOT EXISTS workout_history
(
    id         VARCHAR PRIMARY KEY,
    user_id    VARCHAR     NOT NULL,
    date       DATE        NOT NULL,
    workout    JSONB       NOT NULL,
    completed  BOOLEAN     NOT NULL DEFAULT false,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (date, user_id)
);
CREATE INDEX IF NOT EXISTS ix_workout_history_user_date ON workout_history (user_id, date DESC);`,
	TableDietHistory: `
CREATE TABLE IF NOT EXISTS diet_history
(
    id         VARCHAR PRIMARY KEY,
    user_id    VARCHAR     NOT NULL,
    date       DATE        NOT NULL,
    meals      JSONB       NOT NULL,
    completed  BOOLEAN     NOT NULL DEFAULT false,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (date, user_id)
);
CREATE INDEX IF NOT EXISTS ix_diet_history_user_date ON diet_history (user_id, date DESC);`,
	TableMacroHistory: `
CREATE TABLE IF NOT EXISTS macro_history
(
    id         VARCHAR PRIMARY KEY,
    user_id    VARCHAR     NOT NULL,
    date       DATE        NOT NULL,
    calories   INTEGER     NOT NULL DEFAULT 0,
    protein    INTEGER     NOT NULL DEFAULT 0,
    carbs      INTEGER     NOT NULL DEFAULT 0,
    fats       INTEGER     NOT NULL DEFAULT 0,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (date, user_id)
);`,
	TableExerciseLog: `
CREATE TABLE IF NOT EXISTS exercise_log
(
    id            VARCHAR PRIMARY KEY,
    user_id       VARCHAR     NOT NULL,
    date          DATE        NOT NULL,
    exercise_name VARCHAR     NOT NULL,
    reps          INTEGER     NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS ix_exercise_log_user_date ON exercise_log (user_id, date DESC);`,
}

// SchemaSQL returns the creation script for all required tables.
// Every statement is idempotent, so it is safe to run against a partial schema.
func SchemaSQL() string {
	var sb strings.Builder
	sb.WriteString("-- fittrack schema\n")
	for _, t := range RequiredTables {
		sb.WriteString(strings.TrimSpace(tableDDL[t]))
		sb.WriteString("\n\n")
	}
	return sb.String()
}
