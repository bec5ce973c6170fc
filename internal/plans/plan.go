package plans

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel ids given to imported plans. Only one custom plan per domain exists.
const (
	ImportedWorkoutPlanID = "imported-workout-plan"
	ImportedDietPlanID    = "imported-diet-plan"
	// NoPlanMarker in the settings marker selects the empty plan.
	NoPlanMarker = "none"
)

var ErrUnknownDomain = errors.New("unknown plan domain")

type Domain string

const (
	DomainWorkout Domain = "workout"
	DomainDiet    Domain = "diet"
)

func ParseDomain(s string) (Domain, error) {
	switch Domain(strings.ToLower(s)) {
	case DomainWorkout:
		return DomainWorkout, nil
	case DomainDiet:
		return DomainDiet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDomain, s)
	}
}

type Exercise struct {
	Name string `json:"name"`
	// Sets is the free-text prescription, e.g. "3x8-12".
	Sets      string `json:"sets"`
	Reps      int    `json:"reps"`
	Completed bool   `json:"completed"`
}

type WorkoutDay struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

type WorkoutPlan struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Days        []WorkoutDay `json:"days"`
}

// IsEmpty reports the empty plan: no id and nothing to follow.
func (p WorkoutPlan) IsEmpty() bool {
	return p.ID == "" && len(p.Days) == 0
}

type MealItem struct {
	Name      string  `json:"name"`
	Completed bool    `json:"completed"`
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fats      float64 `json:"fats"`
}

type Meal struct {
	Time  string     `json:"time"`
	Name  string     `json:"name"`
	Items []MealItem `json:"items"`
	// optional per-meal aggregates, as given by the plan author
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fats     *float64 `json:"fats,omitempty"`
}

type DietPlan struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	TargetCalories float64 `json:"targetCalories"`
	TargetProtein  float64 `json:"targetProtein"`
	TargetCarbs    float64 `json:"targetCarbs"`
	TargetFats     float64 `json:"targetFats"`
	Meals          []Meal  `json:"meals"`
}

func (p DietPlan) IsEmpty() bool {
	return p.ID == "" && len(p.Meals) == 0
}

// DatedWorkout is one calendar day of a workout plan, with the user's progress.
type DatedWorkout struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Date      string     `json:"date"`
	Workout   WorkoutDay `json:"workout"`
	Completed bool       `json:"completed"`
}

type DietDay struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	Meals     []Meal `json:"meals"`
	Completed bool   `json:"completed"`
}

type DailyMacros struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Date     string `json:"date"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fats     int    `json:"fats"`
}

func (m DailyMacros) IsZero() bool {
	return m.Calories == 0 && m.Protein == 0 && m.Carbs == 0 && m.Fats == 0
}

// WorkoutLogEntry is appended whenever reps are recorded. It is not derived
// from DatedWorkout and survives day resets.
type WorkoutLogEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Date         string    `json:"date"`
	ExerciseName string    `json:"exerciseName"`
	Reps         int       `json:"reps"`
	CreatedAt    time.Time `json:"createdAt"`
}
