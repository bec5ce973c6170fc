package plans

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrUnrecognizedDocument = errors.New("document is neither a plan nor a plan collection")
	ErrNothingToImport      = errors.New("document contains no plans")
)

// MealShape tags the layout a meal was written in.
type MealShape int

const (
	// MealShapeCurrent is {name, time, items}.
	MealShapeCurrent MealShape = iota
	// MealShapeLegacy is {meal, time, foodItems}, items given as plain names or objects.
	MealShapeLegacy
)

func (s MealShape) String() string {
	if s == MealShapeLegacy {
		return "legacy"
	}
	return "current"
}

type CurrentMeal struct {
	Time     string      `json:"time"`
	Name     string      `json:"name"`
	Items    []ItemInput `json:"items"`
	Calories *Quantity   `json:"calories"`
	Protein  *Quantity   `json:"protein"`
	Carbs    *Quantity   `json:"carbs"`
	Fats     *Quantity   `json:"fats"`
}

type LegacyMeal struct {
	Time      string      `json:"time"`
	Meal      string      `json:"meal"`
	FoodItems []ItemInput `json:"foodItems"`
	Calories  *Quantity   `json:"calories"`
	Protein   *Quantity   `json:"protein"`
	Carbs     *Quantity   `json:"carbs"`
	Fats      *Quantity   `json:"fats"`
}

// MealInput holds exactly one of Current or Legacy, selected by Shape.
type MealInput struct {
	Shape   MealShape
	Current *CurrentMeal
	Legacy  *LegacyMeal
}

func (m *MealInput) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return fmt.Errorf("meal: %w", err)
	}

	_, hasItems := keys["items"]
	_, hasFoodItems := keys["foodItems"]
	_, hasMealName := keys["meal"]
	if !hasItems && (hasFoodItems || hasMealName) {
		var legacy LegacyMeal
		if err := json.Unmarshal(data, &legacy); err != nil {
			return fmt.Errorf("legacy meal: %w", err)
		}
		*m = MealInput{Shape: MealShapeLegacy, Legacy: &legacy}
		return nil
	}

	var current CurrentMeal
	if err := json.Unmarshal(data, &current); err != nil {
		return fmt.Errorf("meal: %w", err)
	}
	*m = MealInput{Shape: MealShapeCurrent, Current: &current}
	return nil
}

// Normalize converts either layout into a Meal with nothing completed.
func (m MealInput) Normalize() Meal {
	switch m.Shape {
	case MealShapeLegacy:
		if m.Legacy == nil {
			return Meal{Items: []MealItem{}}
		}
		return Meal{
			Time:     m.Legacy.Time,
			Name:     m.Legacy.Meal,
			Items:    normalizeItems(m.Legacy.FoodItems),
			Calories: m.Legacy.Calories.ptr(),
			Protein:  m.Legacy.Protein.ptr(),
			Carbs:    m.Legacy.Carbs.ptr(),
			Fats:     m.Legacy.Fats.ptr(),
		}
	default:
		if m.Current == nil {
			return Meal{Items: []MealItem{}}
		}
		return Meal{
			Time:     m.Current.Time,
			Name:     m.Current.Name,
			Items:    normalizeItems(m.Current.Items),
			Calories: m.Current.Calories.ptr(),
			Protein:  m.Current.Protein.ptr(),
			Carbs:    m.Current.Carbs.ptr(),
			Fats:     m.Current.Fats.ptr(),
		}
	}
}

func normalizeItems(in []ItemInput) []MealItem {
	items := make([]MealItem, 0, len(in))
	for _, it := range in {
		items = append(items, MealItem{
			Name:     it.Name,
			Calories: float64(it.Calories),
			Protein:  float64(it.Protein),
			Carbs:    float64(it.Carbs),
			Fats:     float64(it.Fats),
		})
	}
	return items
}

// ItemInput accepts either a bare item name or an item object.
type ItemInput struct {
	Name     string
	Calories Quantity
	Protein  Quantity
	Carbs    Quantity
	Fats     Quantity
}

func (it *ItemInput) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*it = ItemInput{Name: strings.TrimSpace(name)}
		return nil
	}

	var obj struct {
		Name     string   `json:"name"`
		Food     string   `json:"food"`
		Calories Quantity `json:"calories"`
		Protein  Quantity `json:"protein"`
		Carbs    Quantity `json:"carbs"`
		Fats     Quantity `json:"fats"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("meal item: %w", err)
	}
	if obj.Name == "" {
		obj.Name = obj.Food
	}
	*it = ItemInput{
		Name:     strings.TrimSpace(obj.Name),
		Calories: obj.Calories,
		Protein:  obj.Protein,
		Carbs:    obj.Carbs,
		Fats:     obj.Fats,
	}
	return nil
}

// Quantity is a number that may arrive as a JSON number or numeric string.
// Anything unparsable becomes 0.
type Quantity float64

func (q *Quantity) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*q = Quantity(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			*q = Quantity(parsed)
			return nil
		}
	}
	*q = 0
	return nil
}

func (q *Quantity) ptr() *float64 {
	if q == nil {
		return nil
	}
	f := float64(*q)
	return &f
}

var leadingInt = regexp.MustCompile(`\d+`)

// Count is an integer that may arrive as a number or as text like "8-12".
type Count int

func (c *Count) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*c = Count(int(f))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if m := leadingInt.FindString(s); m != "" {
			n, _ := strconv.Atoi(m)
			*c = Count(n)
			return nil
		}
	}
	*c = 0
	return nil
}

// Prescription is free text that may arrive as a bare number of sets.
type Prescription string

func (p *Prescription) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Prescription(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = Prescription(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	*p = ""
	return nil
}

type ExerciseInput struct {
	Name string       `json:"name"`
	Sets Prescription `json:"sets"`
	Reps Count        `json:"reps"`
}

type WorkoutDayInput struct {
	Name      string          `json:"name"`
	Day       string          `json:"day"`
	Exercises []ExerciseInput `json:"exercises"`
}

type WorkoutPlanInput struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Days        []WorkoutDayInput `json:"days"`
}

func (in WorkoutPlanInput) Normalize() WorkoutPlan {
	p := WorkoutPlan{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Days:        make([]WorkoutDay, 0, len(in.Days)),
	}
	for _, d := range in.Days {
		name := d.Name
		if name == "" {
			name = d.Day
		}
		day := WorkoutDay{Name: name, Exercises: make([]Exercise, 0, len(d.Exercises))}
		for _, e := range d.Exercises {
			day.Exercises = append(day.Exercises, Exercise{
				Name: e.Name,
				Sets: string(e.Sets),
				Reps: int(e.Reps),
			})
		}
		p.Days = append(p.Days, day)
	}
	return SanitizeWorkoutPlan(p)
}

type DietPlanInput struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	TargetCalories Quantity    `json:"targetCalories"`
	TargetProtein  Quantity    `json:"targetProtein"`
	TargetCarbs    Quantity    `json:"targetCarbs"`
	TargetFats     Quantity    `json:"targetFats"`
	Meals          []MealInput `json:"meals"`
}

func (in DietPlanInput) Normalize() DietPlan {
	p := DietPlan{
		ID:             in.ID,
		Name:           in.Name,
		Description:    in.Description,
		TargetCalories: float64(in.TargetCalories),
		TargetProtein:  float64(in.TargetProtein),
		TargetCarbs:    float64(in.TargetCarbs),
		TargetFats:     float64(in.TargetFats),
		Meals:          make([]Meal, 0, len(in.Meals)),
	}
	for _, m := range in.Meals {
		p.Meals = append(p.Meals, m.Normalize())
	}
	return SanitizeDietPlan(p)
}

// Document is the import/export file layout.
type Document struct {
	WorkoutPlans []WorkoutPlan `json:"workoutPlans"`
	DietPlans    []DietPlan    `json:"dietPlans"`
}

type documentInput struct {
	WorkoutPlans []WorkoutPlanInput `json:"workoutPlans"`
	DietPlans    []DietPlanInput    `json:"dietPlans"`
}

// ParseDocument accepts a {workoutPlans, dietPlans} document, a single plan
// object (told apart by "days" or "meals"), or a bare array of plan objects.
func ParseDocument(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNothingToImport
	}

	var doc Document
	switch data[0] {
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(data, &raws); err != nil {
			return nil, fmt.Errorf("parse plan array: %w", err)
		}
		for i, raw := range raws {
			if err := doc.addSinglePlan(raw); err != nil {
				return nil, fmt.Errorf("plan %d: %w", i, err)
			}
		}
	case '{':
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(data, &keys); err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		_, hasWorkouts := keys["workoutPlans"]
		_, hasDiets := keys["dietPlans"]
		if hasWorkouts || hasDiets {
			var in documentInput
			if err := json.Unmarshal(data, &in); err != nil {
				return nil, fmt.Errorf("parse document: %w", err)
			}
			for _, w := range in.WorkoutPlans {
				doc.WorkoutPlans = append(doc.WorkoutPlans, w.Normalize())
			}
			for _, d := range in.DietPlans {
				doc.DietPlans = append(doc.DietPlans, d.Normalize())
			}
		} else if err := doc.addSinglePlan(data); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnrecognizedDocument
	}

	if len(doc.WorkoutPlans) == 0 && len(doc.DietPlans) == 0 {
		return nil, ErrNothingToImport
	}
	return &doc, nil
}

func (doc *Document) addSinglePlan(raw json.RawMessage) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return fmt.Errorf("parse plan: %w", err)
	}

	if _, ok := keys["days"]; ok {
		var in WorkoutPlanInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("parse workout plan: %w", err)
		}
		doc.WorkoutPlans = append(doc.WorkoutPlans, in.Normalize())
		return nil
	}
	if _, ok := keys["meals"]; ok {
		var in DietPlanInput
		if err := json.Unmarshal(raw, &in); err != nil {
			return fmt.Errorf("parse diet plan: %w", err)
		}
		doc.DietPlans = append(doc.DietPlans, in.Normalize())
		return nil
	}
	return ErrUnrecognizedDocument
}

// AsImportedWorkout rewrites the id to the import sentinel.
func AsImportedWorkout(p WorkoutPlan) WorkoutPlan {
	c := SanitizeWorkoutPlan(p)
	c.ID = ImportedWorkoutPlanID
	if c.Name == "" {
		c.Name = "Imported workout plan"
	}
	return c
}

func AsImportedDiet(p DietPlan) DietPlan {
	c := SanitizeDietPlan(p)
	c.ID = ImportedDietPlanID
	if c.Name == "" {
		c.Name = "Imported diet plan"
	}
	return c
}

// ExportDocument includes only the non-empty plans.
func ExportDocument(workout WorkoutPlan, diet DietPlan) Document {
	doc := Document{
		WorkoutPlans: []WorkoutPlan{},
		DietPlans:    []DietPlan{},
	}
	if !workout.IsEmpty() {
		doc.WorkoutPlans = append(doc.WorkoutPlans, workout.Clone())
	}
	if !diet.IsEmpty() {
		doc.DietPlans = append(doc.DietPlans, diet.Clone())
	}
	return doc
}
