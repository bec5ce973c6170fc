package stats

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=stats_mocks_test.go -package=stats_test

// DefaultRangeDays is the window summarized when no start date is given.
const DefaultRangeDays = 30

var ErrInvalidRange = errors.New("invalid date range")

type historyRepo interface {
	ListWorkoutDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DatedWorkout, error)
	ListDietDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DietDay, error)
	ListMacros(ctx context.Context, userID, from, to string, limit int) ([]plans.DailyMacros, error)
}

type streakSource interface {
	Today(ctx context.Context) string
	WorkoutStreak(ctx context.Context, userID string) (int, error)
	DietStreak(ctx context.Context, userID string) (int, error)
}

type dietPlanSource interface {
	CurrentDietPlan(ctx context.Context, userID string) (plans.DietPlan, error)
}

type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

type Summary struct {
	From string `json:"from"`
	To   string `json:"to"`

	WorkoutDaysTracked    int     `json:"workoutDaysTracked"`
	WorkoutDaysCompleted  int     `json:"workoutDaysCompleted"`
	WorkoutCompletionRate float64 `json:"workoutCompletionRate"`
	DietDaysTracked       int     `json:"dietDaysTracked"`
	DietDaysCompleted     int     `json:"dietDaysCompleted"`
	DietCompletionRate    float64 `json:"dietCompletionRate"`

	// MacroDays counts the days with recorded macros; the averages are over those days.
	MacroDays      int    `json:"macroDays"`
	AverageMacros  Macros `json:"averageMacros"`
	TargetMacros   Macros `json:"targetMacros"`
	DietPlanID     string `json:"dietPlanId"`
	WorkoutStreak  int    `json:"workoutStreak"`
	DietStreak     int    `json:"dietStreak"`
	CaloriesOnGoal int    `json:"caloriesOnGoal"`
}

// Data is the raw history a summary is computed from, also used by the export.
type Data struct {
	From     string
	To       string
	Workouts []plans.DatedWorkout
	DietDays []plans.DietDay
	Macros   []plans.DailyMacros
}

type Service struct {
	history  historyRepo
	streaks  streakSource
	dietPlan dietPlanSource
}

func NewService(history historyRepo, streaks streakSource, dietPlan dietPlanSource) *Service {
	return &Service{
		history:  history,
		streaks:  streaks,
		dietPlan: dietPlan,
	}
}

// Range validates the bounds; an empty to is today and an empty from is
// DefaultRangeDays before to.
func (s *Service) Range(ctx context.Context, from, to string) (string, string, error) {
	if to == "" {
		to = s.streaks.Today(ctx)
	}
	if _, err := pkg.ParseDate(to); err != nil {
		return "", "", err
	}
	if from == "" {
		f, err := pkg.AddDays(to, -(DefaultRangeDays - 1))
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

func (s *Service) Load(ctx context.Context, userID, from, to string) (_ *Data, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.load")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	from, to, err = s.Range(ctx, from, to)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("from", from), attribute.String("to", to))

	data := &Data{From: from, To: to}
	if data.Workouts, err = s.history.ListWorkoutDays(ctx, userID, from, to, 0); err != nil {
		return nil, fmt.Errorf("list workout days: %w", err)
	}
	if data.DietDays, err = s.history.ListDietDays(ctx, userID, from, to, 0); err != nil {
		return nil, fmt.Errorf("list diet days: %w", err)
	}
	if data.Macros, err = s.history.ListMacros(ctx, userID, from, to, 0); err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}
	return data, nil
}

func (s *Service) Summary(ctx context.Context, userID, from, to string) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.summary")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	data, err := s.Load(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return s.SummaryOf(ctx, userID, data)
}

// SummaryOf summarizes already loaded history and adds the current streaks.
func (s *Service) SummaryOf(ctx context.Context, userID string, data *Data) (*Summary, error) {
	diet, err := s.dietPlan.CurrentDietPlan(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("current diet plan: %w", err)
	}

	summary := Summarize(data, diet)
	if summary.WorkoutStreak, err = s.streaks.WorkoutStreak(ctx, userID); err != nil {
		return nil, fmt.Errorf("workout streak: %w", err)
	}
	if summary.DietStreak, err = s.streaks.DietStreak(ctx, userID); err != nil {
		return nil, fmt.Errorf("diet streak: %w", err)
	}
	return summary, nil
}

// Summarize aggregates the history without the streaks, which depend on today.
func Summarize(data *Data, diet plans.DietPlan) *Summary {
	summary := &Summary{
		From:       data.From,
		To:         data.To,
		DietPlanID: diet.ID,
		TargetMacros: Macros{
			Calories: diet.TargetCalories,
			Protein:  diet.TargetProtein,
			Carbs:    diet.TargetCarbs,
			Fats:     diet.TargetFats,
		},
	}

	for _, w := range data.Workouts {
		summary.WorkoutDaysTracked++
		if w.Completed {
			summary.WorkoutDaysCompleted++
		}
	}
	summary.WorkoutCompletionRate = rate(summary.WorkoutDaysCompleted, summary.WorkoutDaysTracked)

	for _, d := range data.DietDays {
		summary.DietDaysTracked++
		if d.Completed {
			summary.DietDaysCompleted++
		}
	}
	summary.DietCompletionRate = rate(summary.DietDaysCompleted, summary.DietDaysTracked)

	var total Macros
	for _, m := range data.Macros {
		if m.IsZero() {
			continue
		}
		summary.MacroDays++
		total.Calories += float64(m.Calories)
		total.Protein += float64(m.Protein)
		total.Carbs += float64(m.Carbs)
		total.Fats += float64(m.Fats)
		if onCalorieGoal(m, diet.TargetCalories) {
			summary.CaloriesOnGoal++
		}
	}
	if summary.MacroDays > 0 {
		n := float64(summary.MacroDays)
		summary.AverageMacros = Macros{
			Calories: pkg.RoundQuantity(total.Calories / n),
			Protein:  pkg.RoundQuantity(total.Protein / n),
			Carbs:    pkg.RoundQuantity(total.Carbs / n),
			Fats:     pkg.RoundQuantity(total.Fats / n),
		}
	}
	return summary
}

// onCalorieGoal allows 10% around the target.
func onCalorieGoal(m plans.DailyMacros, target float64) bool {
	if target <= 0 {
		return false
	}
	return math.Abs(float64(m.Calories)-target) <= target*0.1
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 1000
}
