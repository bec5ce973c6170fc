package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/progress"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/pkg"
)

// streakWindowDays is how far back streaks are looked for.
const streakWindowDays = 90

var ErrInvalidRange = errors.New("from_date is after to_date")

type historyRepo interface {
	ListWorkoutDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DatedWorkout, error)
	ListDietDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DietDay, error)
	ListMacros(ctx context.Context, userID, from, to string, limit int) ([]plans.DailyMacros, error)
}

// contextService is what the tool handlers need; replaced by a fake in tests.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	WorkoutHistory(ctx context.Context, userID, from, to string) ([]plans.DatedWorkout, error)
	MacroHistory(ctx context.Context, userID, from, to string) ([]plans.DailyMacros, error)
	Streaks(ctx context.Context, userID string) (*Streaks, error)
}

type Streaks struct {
	Today   string `json:"today"`
	Workout int    `json:"workout"`
	Diet    int    `json:"diet"`
}

type ContextService struct {
	schema   SchemaRepo
	history  historyRepo
	location *time.Location
	now      func() time.Time
}

func NewContextService(schemaRepo SchemaRepo, history historyRepo, location *time.Location) *ContextService {
	if location == nil {
		location = time.UTC
	}
	return &ContextService{
		schema:   schemaRepo,
		history:  history,
		location: location,
		now:      time.Now,
	}
}

// GetSchema renders the columns of every fittrack table as markdown.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatSchema(cols), nil
}

func formatSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Fittrack DB Schema\n\nNo fittrack tables found in the database. Run the database setup first.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Fittrack DB Schema\n\n")
	b.WriteString("Tables: ")
	b.WriteString(strings.Join(store.RequiredTables, ", "))
	b.WriteString(" (schema: public).\n")
	if missing := store.MissingFrom(tableOrder); len(missing) > 0 {
		b.WriteString("Missing: ")
		b.WriteString(strings.Join(missing, ", "))
		b.WriteString(".\n")
	}
	b.WriteString("\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func checkRange(from, to string) error {
	if _, err := pkg.ParseDate(from); err != nil {
		return fmt.Errorf("from_date: %w", err)
	}
	if _, err := pkg.ParseDate(to); err != nil {
		return fmt.Errorf("to_date: %w", err)
	}
	if pkg.IsAfterDate(from, to) {
		return ErrInvalidRange
	}
	return nil
}

func (s *ContextService) WorkoutHistory(ctx context.Context, userID, from, to string) ([]plans.DatedWorkout, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.history.ListWorkoutDays(ctx, userID, from, to, 0)
}

func (s *ContextService) MacroHistory(ctx context.Context, userID, from, to string) ([]plans.DailyMacros, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return s.history.ListMacros(ctx, userID, from, to, 0)
}

// Streaks are computed from persisted days only; a today still waiting for
// its debounced write in the backend is not seen here.
func (s *ContextService) Streaks(ctx context.Context, userID string) (*Streaks, error) {
	today := pkg.TodayIn(s.now(), s.location)
	from, err := pkg.AddDays(today, -(streakWindowDays - 1))
	if err != nil {
		return nil, err
	}

	workouts, err := s.history.ListWorkoutDays(ctx, userID, from, today, 0)
	if err != nil {
		return nil, fmt.Errorf("list workout days: %w", err)
	}
	dietDays, err := s.history.ListDietDays(ctx, userID, from, today, 0)
	if err != nil {
		return nil, fmt.Errorf("list diet days: %w", err)
	}

	workoutHistory := make([]progress.DayStatus, 0, len(workouts))
	for _, w := range workouts {
		workoutHistory = append(workoutHistory, progress.DayStatus{Date: w.Date, Completed: w.Completed})
	}
	dietHistory := make([]progress.DayStatus, 0, len(dietDays))
	for _, d := range dietDays {
		dietHistory = append(dietHistory, progress.DayStatus{Date: d.Date, Completed: d.Completed})
	}

	return &Streaks{
		Today:   today,
		Workout: progress.ComputeStreak(workoutHistory, today),
		Diet:    progress.ComputeStreak(dietHistory, today),
	}, nil
}
