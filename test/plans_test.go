//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/planmanager"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/progress"
)

// a single day plan, so every date gets the same workout
var testPlanDocument = map[string]any{
	"workoutPlans": []map[string]any{{
		"id":   "integration-split",
		"name": "Integration Split",
		"days": []map[string]any{{
			"name": "Full body",
			"exercises": []map[string]any{
				{"name": "Squat", "sets": "3x5", "reps": 5},
			},
		}},
	}},
}

func (s *IntegrationTestSuite) TestCatalog_Public() {
	status, body := doRequest(context.Background(), s.T(), "GET", "/plans/catalog", "", nil)
	s.Require().Equal(http.StatusOK, status)

	catalog := decode[planmanager.CatalogResponse](s.T(), body)
	s.NotEmpty(catalog.Workout)
	s.NotEmpty(catalog.Diet)
}

func (s *IntegrationTestSuite) TestImportToggleAndPersist() {
	ctx := context.Background()
	t := s.T()
	token := registerAndLogin(ctx, t, "import-toggle-user")

	status, body := doRequest(ctx, t, "POST", "/plans/import", token, testPlanDocument)
	s.Require().Equal(http.StatusOK, status, string(body))
	current := decode[planmanager.CurrentPlans](t, body)
	s.True(current.WorkoutCustom)
	s.Equal("Integration Split", current.Workout.Name)
	s.Equal(plans.ImportedWorkoutPlanID, current.Workout.ID)

	today := time.Now().UTC().Format(time.DateOnly)
	status, body = doRequest(ctx, t, "POST", "/workout/day/"+today+"/exercise/0/toggle", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	view := decode[progress.WorkoutDayView](t, body)
	s.Require().Len(view.Day.Workout.Exercises, 1)
	s.True(view.Day.Workout.Exercises[0].Completed)
	s.True(view.Day.Completed)

	// the debounced write lands in postgres shortly after
	s.Eventually(func() bool {
		var completed bool
		err := s.DB.QueryRowContext(ctx,
			`SELECT completed FROM workout_history WHERE user_id = (SELECT id FROM app_user WHERE username = $1) AND date = $2`,
			"import-toggle-user", today,
		).Scan(&completed)
		return err == nil && completed
	}, 5*time.Second, 50*time.Millisecond)

	status, body = doRequest(ctx, t, "GET", "/workout/streak", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body = doRequest(ctx, t, "GET", "/home", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	snap := decode[cache.Snapshot](t, body)
	s.Equal(plans.ImportedWorkoutPlanID, snap.PlanIDs.Workout)

	status, body = doRequest(ctx, t, "GET", "/plans/export", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	doc := decode[plans.Document](t, body)
	s.Require().Len(doc.WorkoutPlans, 1)
	s.Equal("Squat", doc.WorkoutPlans[0].Days[0].Exercises[0].Name)
}

func (s *IntegrationTestSuite) TestImport_InvalidDocument() {
	ctx := context.Background()
	token := registerAndLogin(ctx, s.T(), "invalid-import-user")

	status, _ := doRequest(ctx, s.T(), "POST", "/plans/import", token, map[string]any{"something": "else"})
	s.Equal(http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestEmergencyReset() {
	ctx := context.Background()
	t := s.T()
	token := registerAndLogin(ctx, t, "reset-user")

	status, body := doRequest(ctx, t, "POST", "/plans/import", token, testPlanDocument)
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body = doRequest(ctx, t, "POST", "/plans/reset", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body = doRequest(ctx, t, "GET", "/plans/current", token, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	current := decode[planmanager.CurrentPlans](t, body)
	s.False(current.WorkoutCustom)
	s.NotEqual(plans.ImportedWorkoutPlanID, current.Workout.ID)
}
