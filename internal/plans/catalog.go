package plans

func f64(v float64) *float64 { return &v }

// The first entry of each catalog is the default plan.
var workoutCatalog = []WorkoutPlan{
	{
		ID:          "push-pull-legs",
		Name:        "Push / Pull / Legs",
		Description: "Three day split repeated through the week, compound lifts first.",
		Days: []WorkoutDay{
			{
				Name: "Push",
				Exercises: []Exercise{
					{Name: "Bench Press", Sets: "4x6-8", Reps: 8},
					{Name: "Overhead Press", Sets: "3x8-10", Reps: 10},
					{Name: "Incline Dumbbell Press", Sets: "3x10-12", Reps: 12},
					{Name: "Lateral Raise", Sets: "3x12-15", Reps: 15},
					{Name: "Triceps Pushdown", Sets: "3x12", Reps: 12},
				},
			},
			{
				Name: "Pull",
				Exercises: []Exercise{
					{Name: "Deadlift", Sets: "3x5", Reps: 5},
					{Name: "Pull-up", Sets: "4xAMRAP", Reps: 8},
					{Name: "Barbell Row", Sets: "3x8-10", Reps: 10},
					{Name: "Face Pull", Sets: "3x15", Reps: 15},
					{Name: "Biceps Curl", Sets: "3x10-12", Reps: 12},
				},
			},
			{
				Name: "Legs",
				Exercises: []Exercise{
					{Name: "Back Squat", Sets: "4x6-8", Reps: 8},
					{Name: "Romanian Deadlift", Sets: "3x8-10", Reps: 10},
					{Name: "Leg Press", Sets: "3x10-12", Reps: 12},
					{Name: "Walking Lunge", Sets: "3x12 each leg", Reps: 12},
					{Name: "Standing Calf Raise", Sets: "4x15", Reps: 15},
				},
			},
		},
	},
	{
		ID:          "upper-lower",
		Name:        "Upper / Lower",
		Description: "Four day split alternating upper and lower body sessions.",
		Days: []WorkoutDay{
			{
				Name: "Upper A",
				Exercises: []Exercise{
					{Name: "Bench Press", Sets: "4x5", Reps: 5},
					{Name: "Barbell Row", Sets: "4x6", Reps: 6},
					{Name: "Dumbbell Shoulder Press", Sets: "3x10", Reps: 10},
					{Name: "Lat Pulldown", Sets: "3x10", Reps: 10},
				},
			},
			{
				Name: "Lower A",
				Exercises: []Exercise{
					{Name: "Back Squat", Sets: "4x5", Reps: 5},
					{Name: "Romanian Deadlift", Sets: "3x8", Reps: 8},
					{Name: "Leg Curl", Sets: "3x12", Reps: 12},
					{Name: "Plank", Sets: "3x45s", Reps: 1},
				},
			},
			{
				Name: "Upper B",
				Exercises: []Exercise{
					{Name: "Overhead Press", Sets: "4x6", Reps: 6},
					{Name: "Pull-up", Sets: "4x8", Reps: 8},
					{Name: "Incline Bench Press", Sets: "3x10", Reps: 10},
					{Name: "Cable Row", Sets: "3x12", Reps: 12},
				},
			},
			{
				Name: "Lower B",
				Exercises: []Exercise{
					{Name: "Deadlift", Sets: "3x5", Reps: 5},
					{Name: "Front Squat", Sets: "3x8", Reps: 8},
					{Name: "Bulgarian Split Squat", Sets: "3x10 each leg", Reps: 10},
					{Name: "Hanging Leg Raise", Sets: "3x12", Reps: 12},
				},
			},
		},
	},
	{
		ID:          "full-body-beginner",
		Name:        "Full Body Beginner",
		Description: "Whole body every session, light volume to learn the movements.",
		Days: []WorkoutDay{
			{
				Name: "Full Body",
				Exercises: []Exercise{
					{Name: "Goblet Squat", Sets: "3x10", Reps: 10},
					{Name: "Push-up", Sets: "3x10", Reps: 10},
					{Name: "Dumbbell Row", Sets: "3x10 each arm", Reps: 10},
					{Name: "Glute Bridge", Sets: "3x12", Reps: 12},
				},
			},
		},
	},
}

var dietCatalog = []DietPlan{
	{
		ID:             "balanced-2200",
		Name:           "Balanced 2200",
		Description:    "Maintenance calories with an even macro split.",
		TargetCalories: 2200,
		TargetProtein:  150,
		TargetCarbs:    240,
		TargetFats:     70,
		Meals: []Meal{
			{
				Time: "8:00 AM",
				Name: "Breakfast",
				Items: []MealItem{
					{Name: "Oats 80g", Calories: 300, Protein: 10, Carbs: 54, Fats: 6},
					{Name: "Eggs x3", Calories: 210, Protein: 18, Carbs: 1, Fats: 15},
					{Name: "Banana", Calories: 105, Protein: 1, Carbs: 27, Fats: 0},
				},
			},
			{
				Time: "1:00 PM",
				Name: "Lunch",
				Items: []MealItem{
					{Name: "Chicken breast 200g", Calories: 330, Protein: 62, Carbs: 0, Fats: 7},
					{Name: "Rice 100g dry", Calories: 360, Protein: 7, Carbs: 80, Fats: 1},
					{Name: "Broccoli", Calories: 50, Protein: 4, Carbs: 10, Fats: 0},
				},
				Calories: f64(740),
				Protein:  f64(73),
				Carbs:    f64(90),
				Fats:     f64(8),
			},
			{
				Time: "4:30 PM",
				Name: "Snack",
				Items: []MealItem{
					{Name: "Greek yogurt 200g", Calories: 190, Protein: 20, Carbs: 8, Fats: 10},
					{Name: "Almonds 30g", Calories: 175, Protein: 6, Carbs: 6, Fats: 15},
				},
			},
			{
				Time: "8:00 PM",
				Name: "Dinner",
				Items: []MealItem{
					{Name: "Salmon 150g", Calories: 310, Protein: 31, Carbs: 0, Fats: 20},
					{Name: "Sweet potato 250g", Calories: 215, Protein: 4, Carbs: 50, Fats: 0},
					{Name: "Mixed salad", Calories: 60, Protein: 2, Carbs: 8, Fats: 3},
				},
			},
		},
	},
	{
		ID:             "high-protein-cut",
		Name:           "High Protein Cut",
		Description:    "Moderate deficit keeping protein high to preserve muscle.",
		TargetCalories: 1800,
		TargetProtein:  170,
		TargetCarbs:    150,
		TargetFats:     55,
		Meals: []Meal{
			{
				Time: "7:30 AM",
				Name: "Breakfast",
				Items: []MealItem{
					{Name: "Egg whites 250ml", Calories: 130, Protein: 27, Carbs: 2, Fats: 0},
					{Name: "Whole grain toast", Calories: 160, Protein: 8, Carbs: 28, Fats: 2},
				},
			},
			{
				Time: "12:30 PM",
				Name: "Lunch",
				Items: []MealItem{
					{Name: "Turkey breast 200g", Calories: 300, Protein: 60, Carbs: 0, Fats: 5},
					{Name: "Quinoa 75g dry", Calories: 280, Protein: 10, Carbs: 48, Fats: 5},
				},
			},
			{
				Time: "7:00 PM",
				Name: "Dinner",
				Items: []MealItem{
					{Name: "Lean beef 200g", Calories: 430, Protein: 52, Carbs: 0, Fats: 24},
					{Name: "Potatoes 300g", Calories: 230, Protein: 6, Carbs: 52, Fats: 0},
					{Name: "Green beans", Calories: 40, Protein: 2, Carbs: 8, Fats: 0},
				},
			},
		},
	},
}

func WorkoutCatalog() []WorkoutPlan {
	out := make([]WorkoutPlan, len(workoutCatalog))
	for i, p := range workoutCatalog {
		out[i] = p.Clone()
	}
	return out
}

func DietCatalog() []DietPlan {
	out := make([]DietPlan, len(dietCatalog))
	for i, p := range dietCatalog {
		out[i] = p.Clone()
	}
	return out
}

func DefaultWorkoutPlan() WorkoutPlan {
	return workoutCatalog[0].Clone()
}

func DefaultDietPlan() DietPlan {
	return dietCatalog[0].Clone()
}

func FindWorkoutTemplate(id string) (WorkoutPlan, bool) {
	for _, p := range workoutCatalog {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return WorkoutPlan{}, false
}

func FindDietTemplate(id string) (DietPlan, bool) {
	for _, p := range dietCatalog {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return DietPlan{}, false
}
