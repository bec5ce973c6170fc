package plans

import (
	"errors"
	"fmt"
	"math"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Completion policy, shared by both domains: a container with no children
// is never complete.

func (d WorkoutDay) IsCompleted() bool {
	if len(d.Exercises) == 0 {
		return false
	}
	for _, e := range d.Exercises {
		if !e.Completed {
			return false
		}
	}
	return true
}

func (m Meal) IsCompleted() bool {
	if len(m.Items) == 0 {
		return false
	}
	for _, it := range m.Items {
		if !it.Completed {
			return false
		}
	}
	return true
}

func dietCompleted(meals []Meal) bool {
	items := 0
	for _, m := range meals {
		for _, it := range m.Items {
			if !it.Completed {
				return false
			}
			items++
		}
	}
	return items > 0
}

func (w *DatedWorkout) Recompute() {
	w.Completed = w.Workout.IsCompleted()
}

func (d *DietDay) Recompute() {
	d.Completed = dietCompleted(d.Meals)
}

// WithExerciseToggled returns a copy of w with one exercise flipped.
func (w DatedWorkout) WithExerciseToggled(idx int) (DatedWorkout, error) {
	if idx < 0 || idx >= len(w.Workout.Exercises) {
		return w, fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, idx)
	}
	c := w.Clone()
	c.Workout.Exercises[idx].Completed = !c.Workout.Exercises[idx].Completed
	c.Recompute()
	return c, nil
}

func (w DatedWorkout) WithReps(idx, reps int) (DatedWorkout, error) {
	if idx < 0 || idx >= len(w.Workout.Exercises) {
		return w, fmt.Errorf("%w: exercise %d", ErrIndexOutOfRange, idx)
	}
	if reps < 0 {
		reps = 0
	}
	c := w.Clone()
	c.Workout.Exercises[idx].Reps = reps
	c.Recompute()
	return c, nil
}

func (d DietDay) WithItemToggled(mealIdx, itemIdx int) (DietDay, error) {
	if mealIdx < 0 || mealIdx >= len(d.Meals) {
		return d, fmt.Errorf("%w: meal %d", ErrIndexOutOfRange, mealIdx)
	}
	if itemIdx < 0 || itemIdx >= len(d.Meals[mealIdx].Items) {
		return d, fmt.Errorf("%w: item %d of meal %d", ErrIndexOutOfRange, itemIdx, mealIdx)
	}
	c := d.Clone()
	item := &c.Meals[mealIdx].Items[itemIdx]
	item.Completed = !item.Completed
	c.Recompute()
	return c, nil
}

// Macros sums the completed items of the day, rounded to whole units.
func (d DietDay) Macros() DailyMacros {
	var cal, p, c, f float64
	for _, m := range d.Meals {
		for _, it := range m.Items {
			if !it.Completed {
				continue
			}
			cal += it.Calories
			p += it.Protein
			c += it.Carbs
			f += it.Fats
		}
	}
	return DailyMacros{
		UserID:   d.UserID,
		Date:     d.Date,
		Calories: int(math.Round(cal)),
		Protein:  int(math.Round(p)),
		Carbs:    int(math.Round(c)),
		Fats:     int(math.Round(f)),
	}
}
