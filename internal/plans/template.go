package plans

import "github.com/2beens/fittrack/pkg"

// WorkoutDayFor builds a fresh, nothing-completed day record for date.
// Template days are picked Monday first and cycle when the plan is shorter than a week.
func WorkoutDayFor(plan WorkoutPlan, userID, date string) (DatedWorkout, error) {
	weekdayIdx, err := pkg.MondayIndex(date)
	if err != nil {
		return DatedWorkout{}, err
	}

	day := DatedWorkout{
		UserID:  userID,
		Date:    date,
		Workout: WorkoutDay{Exercises: []Exercise{}},
	}
	if len(plan.Days) == 0 {
		return day, nil
	}

	day.Workout = plan.Days[weekdayIdx%len(plan.Days)].Clone()
	for i := range day.Workout.Exercises {
		day.Workout.Exercises[i].Completed = false
	}
	day.Recompute()
	return day, nil
}

// DietDayFor copies every plan meal into a fresh day record.
func DietDayFor(plan DietPlan, userID, date string) (DietDay, error) {
	if _, err := pkg.ParseDate(date); err != nil {
		return DietDay{}, err
	}

	day := DietDay{
		UserID: userID,
		Date:   date,
		Meals:  cloneMeals(plan.Meals),
	}
	for i := range day.Meals {
		for j := range day.Meals[i].Items {
			day.Meals[i].Items[j].Completed = false
		}
	}
	day.Recompute()
	return day, nil
}
