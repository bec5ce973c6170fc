package plans

import (
	"math"

	"github.com/2beens/fittrack/pkg"
)

// Sanitize* reshape records read from storage or received from clients:
// missing arrays become empty, quantities are made finite, non-negative
// and rounded, and completion flags are recomputed from children.

func SanitizeWorkoutPlan(p WorkoutPlan) WorkoutPlan {
	c := p.Clone()
	for i := range c.Days {
		c.Days[i] = sanitizeWorkoutDay(c.Days[i])
	}
	return c
}

func sanitizeWorkoutDay(d WorkoutDay) WorkoutDay {
	if d.Exercises == nil {
		d.Exercises = []Exercise{}
	}
	for i := range d.Exercises {
		if d.Exercises[i].Reps < 0 {
			d.Exercises[i].Reps = 0
		}
	}
	return d
}

func SanitizeDietPlan(p DietPlan) DietPlan {
	c := p.Clone()
	c.TargetCalories = pkg.RoundQuantity(c.TargetCalories)
	c.TargetProtein = pkg.RoundQuantity(c.TargetProtein)
	c.TargetCarbs = pkg.RoundQuantity(c.TargetCarbs)
	c.TargetFats = pkg.RoundQuantity(c.TargetFats)
	c.Meals = sanitizeMeals(c.Meals)
	return c
}

func sanitizeMeals(meals []Meal) []Meal {
	if meals == nil {
		return []Meal{}
	}
	for i := range meals {
		m := &meals[i]
		if m.Items == nil {
			m.Items = []MealItem{}
		}
		for j := range m.Items {
			it := &m.Items[j]
			it.Calories = pkg.RoundQuantity(it.Calories)
			it.Protein = pkg.RoundQuantity(it.Protein)
			it.Carbs = pkg.RoundQuantity(it.Carbs)
			it.Fats = pkg.RoundQuantity(it.Fats)
		}
		m.Calories = sanitizeOptional(m.Calories)
		m.Protein = sanitizeOptional(m.Protein)
		m.Carbs = sanitizeOptional(m.Carbs)
		m.Fats = sanitizeOptional(m.Fats)
	}
	return meals
}

func sanitizeOptional(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := pkg.RoundQuantity(*v)
	return &r
}

func SanitizeDatedWorkout(w DatedWorkout) DatedWorkout {
	c := w.Clone()
	c.Workout = sanitizeWorkoutDay(c.Workout)
	c.Recompute()
	return c
}

func SanitizeDietDay(d DietDay) DietDay {
	c := d.Clone()
	c.Meals = sanitizeMeals(c.Meals)
	c.Recompute()
	return c
}

func SanitizeMacros(m DailyMacros) DailyMacros {
	m.Calories = sanitizeInt(m.Calories)
	m.Protein = sanitizeInt(m.Protein)
	m.Carbs = sanitizeInt(m.Carbs)
	m.Fats = sanitizeInt(m.Fats)
	return m
}

func sanitizeInt(v int) int {
	if v < 0 || v > math.MaxInt32 {
		return 0
	}
	return v
}
