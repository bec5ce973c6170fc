package stats

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary  = "Summary"
	SheetMacros   = "Macros"
	SheetWorkouts = "Workouts"
)

// Workbook builds the xlsx export of a user's history.
func Workbook(data *Data, summary *Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, sheet := range []string{SheetMacros, SheetWorkouts} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", sheet, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := summarySheet(f, summary); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := macrosSheet(f, data, summary, headerStyle); err != nil {
		return nil, fmt.Errorf("macros sheet: %w", err)
	}
	if err := workoutsSheet(f, data, headerStyle); err != nil {
		return nil, fmt.Errorf("workouts sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func summarySheet(f *excelize.File, s *Summary) error {
	rows := [][]any{
		{"From", s.From},
		{"To", s.To},
		{"Workout days tracked", s.WorkoutDaysTracked},
		{"Workout days completed", s.WorkoutDaysCompleted},
		{"Workout completion rate", s.WorkoutCompletionRate},
		{"Diet days tracked", s.DietDaysTracked},
		{"Diet days completed", s.DietDaysCompleted},
		{"Diet completion rate", s.DietCompletionRate},
		{"Average calories", s.AverageMacros.Calories},
		{"Target calories", s.TargetMacros.Calories},
		{"Days on calorie goal", s.CaloriesOnGoal},
		{"Workout streak", s.WorkoutStreak},
		{"Diet streak", s.DietStreak},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 26)
}

func macrosSheet(f *excelize.File, data *Data, s *Summary, headerStyle int) error {
	header := []any{"Date", "Calories", "Protein", "Carbs", "Fats", "Calories vs target"}
	if err := f.SetSheetRow(SheetMacros, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetMacros, "A1", "F1", headerStyle); err != nil {
		return err
	}

	for i, m := range data.Macros {
		diff := 0.0
		if s.TargetMacros.Calories > 0 {
			diff = float64(m.Calories) - s.TargetMacros.Calories
		}
		row := []any{m.Date, m.Calories, m.Protein, m.Carbs, m.Fats, diff}
		if err := f.SetSheetRow(SheetMacros, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetMacros, "A", "F", 14)
}

func workoutsSheet(f *excelize.File, data *Data, headerStyle int) error {
	header := []any{"Date", "Workout", "Exercises", "Done", "Completed"}
	if err := f.SetSheetRow(SheetWorkouts, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetWorkouts, "A1", "E1", headerStyle); err != nil {
		return err
	}

	for i, w := range data.Workouts {
		done := 0
		for _, e := range w.Workout.Exercises {
			if e.Completed {
				done++
			}
		}
		completed := "no"
		if w.Completed {
			completed = "yes"
		}
		row := []any{w.Date, w.Workout.Name, len(w.Workout.Exercises), done, completed}
		if err := f.SetSheetRow(SheetWorkouts, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetWorkouts, "A", "A", 14); err != nil {
		return err
	}
	return f.SetColWidth(SheetWorkouts, "B", "B", 24)
}
