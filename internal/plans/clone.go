package plans

func (e Exercise) Clone() Exercise {
	return e
}

func (d WorkoutDay) Clone() WorkoutDay {
	c := WorkoutDay{Name: d.Name, Exercises: make([]Exercise, len(d.Exercises))}
	copy(c.Exercises, d.Exercises)
	return c
}

func (p WorkoutPlan) Clone() WorkoutPlan {
	c := p
	c.Days = make([]WorkoutDay, len(p.Days))
	for i, d := range p.Days {
		c.Days[i] = d.Clone()
	}
	return c
}

func (m Meal) Clone() Meal {
	c := Meal{
		Time:     m.Time,
		Name:     m.Name,
		Items:    make([]MealItem, len(m.Items)),
		Calories: cloneFloat(m.Calories),
		Protein:  cloneFloat(m.Protein),
		Carbs:    cloneFloat(m.Carbs),
		Fats:     cloneFloat(m.Fats),
	}
	copy(c.Items, m.Items)
	return c
}

func cloneMeals(meals []Meal) []Meal {
	c := make([]Meal, len(meals))
	for i, m := range meals {
		c[i] = m.Clone()
	}
	return c
}

func (p DietPlan) Clone() DietPlan {
	c := p
	c.Meals = cloneMeals(p.Meals)
	return c
}

func (w DatedWorkout) Clone() DatedWorkout {
	c := w
	c.Workout = w.Workout.Clone()
	return c
}

func (d DietDay) Clone() DietDay {
	c := d
	c.Meals = cloneMeals(d.Meals)
	return c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
