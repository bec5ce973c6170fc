package progress

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// TimezoneHeader carries the IANA timezone of the client.
const TimezoneHeader = "X-Timezone"

type FutureDateResponse struct {
	Error string `json:"error"`
	Today string `json:"today"`
}

type StreakResponse struct {
	Streak int    `json:"streak"`
	Today  string `json:"today"`
}

type RepsRequest struct {
	Reps int `json:"reps"`
}

type MacrosResponse struct {
	Macros     *plans.DailyMacros `json:"macros"`
	SaveStatus SaveStatus         `json:"saveStatus"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workout/day/{date}", handler.HandleGetWorkoutDay).Methods("GET", "OPTIONS").Name("get-workout-day")
	r.HandleFunc("/workout/day/{date}/exercise/{idx}/toggle", handler.HandleToggleExercise).Methods("POST", "OPTIONS").Name("toggle-exercise")
	r.HandleFunc("/workout/day/{date}/exercise/{idx}/reps", handler.HandleSetReps).Methods("PUT", "OPTIONS").Name("set-reps")
	r.HandleFunc("/workout/day/{date}/save", handler.HandleSaveWorkoutDay).Methods("POST", "OPTIONS").Name("save-workout-day")
	r.HandleFunc("/workout/day/{date}", handler.HandleResetDay(plans.DomainWorkout)).Methods("DELETE", "OPTIONS").Name("reset-workout-day")
	r.HandleFunc("/workout/streak", handler.HandleStreak(plans.DomainWorkout)).Methods("GET", "OPTIONS").Name("workout-streak")
	r.HandleFunc("/workout/log", handler.HandleWorkoutLog).Methods("GET", "OPTIONS").Name("workout-log")

	r.HandleFunc("/diet/day/{date}", handler.HandleGetDietDay).Methods("GET", "OPTIONS").Name("get-diet-day")
	r.HandleFunc("/diet/day/{date}/meal/{meal}/item/{item}/toggle", handler.HandleToggleMealItem).Methods("POST", "OPTIONS").Name("toggle-meal-item")
	r.HandleFunc("/diet/day/{date}/save", handler.HandleSaveDietDay).Methods("POST", "OPTIONS").Name("save-diet-day")
	r.HandleFunc("/diet/day/{date}", handler.HandleResetDay(plans.DomainDiet)).Methods("DELETE", "OPTIONS").Name("reset-diet-day")
	r.HandleFunc("/diet/streak", handler.HandleStreak(plans.DomainDiet)).Methods("GET", "OPTIONS").Name("diet-streak")

	r.HandleFunc("/macros", handler.HandleMacroHistory).Methods("GET", "OPTIONS").Name("macro-history")
	r.HandleFunc("/macros", handler.HandleSaveMacros).Methods("POST", "OPTIONS").Name("save-macros")
}

// withUser resolves the authenticated user and the client's timezone.
func (handler *Handler) withUser(w http.ResponseWriter, r *http.Request) (*http.Request, string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return nil, "", false
	}
	loc := pkg.LoadLocation(r.Header.Get(TimezoneHeader), handler.service.defaultLocation)
	return r.WithContext(ContextWithLocation(r.Context(), loc)), userID, true
}

func intVar(r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, false
	}
	return v, true
}

func writeError(w http.ResponseWriter, message string, err error) {
	var futureErr *FutureDateError
	switch {
	case errors.As(err, &futureErr):
		pkg.WriteJSON(w, http.StatusBadRequest, FutureDateResponse{
			Error: futureErr.Error(),
			Today: futureErr.Today,
		})
	case errors.Is(err, pkg.ErrInvalidDate),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, plans.ErrIndexOutOfRange),
		errors.Is(err, plans.ErrUnknownDomain):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", message, err)
		store.WriteHTTPError(w, message, err)
	}
}

func (handler *Handler) HandleGetWorkoutDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.workout.get")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	view, err := handler.service.ResolveWorkoutDay(r.Context(), userID, mux.Vars(r)["date"])
	if err != nil {
		writeError(w, "get workout day", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleToggleExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.workout.toggle")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}
	idx, ok := intVar(r, "idx")
	if !ok {
		http.Error(w, "error, exercise index NaN", http.StatusBadRequest)
		return
	}

	view, err := handler.service.ToggleExercise(r.Context(), userID, mux.Vars(r)["date"], idx)
	if err != nil {
		writeError(w, "toggle exercise", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleSetReps(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.workout.reps")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}
	idx, ok := intVar(r, "idx")
	if !ok {
		http.Error(w, "error, exercise index NaN", http.StatusBadRequest)
		return
	}

	var req RepsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set reps, unmarshal json params: %s", err)
		http.Error(w, "set reps failed", http.StatusBadRequest)
		return
	}

	view, err := handler.service.SetReps(r.Context(), userID, mux.Vars(r)["date"], idx, req.Reps)
	if err != nil {
		writeError(w, "set reps", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleSaveWorkoutDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.workout.save")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	view, err := handler.service.SaveWorkoutDay(r.Context(), userID, mux.Vars(r)["date"])
	if err != nil {
		writeError(w, "save workout day", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleWorkoutLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.workout.log")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	query := r.URL.Query()
	entries, err := handler.service.WorkoutLog(r.Context(), userID, query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, "workout log", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, entries)
}

func (handler *Handler) HandleGetDietDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.diet.get")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	view, err := handler.service.ResolveDietDay(r.Context(), userID, mux.Vars(r)["date"])
	if err != nil {
		writeError(w, "get diet day", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleToggleMealItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.diet.toggle")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}
	mealIdx, ok := intVar(r, "meal")
	if !ok {
		http.Error(w, "error, meal index NaN", http.StatusBadRequest)
		return
	}
	itemIdx, ok := intVar(r, "item")
	if !ok {
		http.Error(w, "error, item index NaN", http.StatusBadRequest)
		return
	}

	view, err := handler.service.ToggleMealItem(r.Context(), userID, mux.Vars(r)["date"], mealIdx, itemIdx)
	if err != nil {
		writeError(w, "toggle meal item", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleSaveDietDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.diet.save")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	view, err := handler.service.SaveDietDay(r.Context(), userID, mux.Vars(r)["date"])
	if err != nil {
		writeError(w, "save diet day", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, view)
}

func (handler *Handler) HandleResetDay(domain plans.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress."+string(domain)+".reset")
		defer span.End()

		r, userID, ok := handler.withUser(w, r.WithContext(ctx))
		if !ok {
			return
		}

		date := mux.Vars(r)["date"]
		if err := handler.service.ResetDay(r.Context(), userID, domain, date); err != nil {
			writeError(w, "reset "+string(domain)+" day", err)
			return
		}
		log.Debugf("%s day %s reset for %s", domain, date, userID)
		pkg.WriteTextResponseOK(w, "reset")
	}
}

func (handler *Handler) HandleStreak(domain plans.Domain) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress."+string(domain)+".streak")
		defer span.End()

		r, userID, ok := handler.withUser(w, r.WithContext(ctx))
		if !ok {
			return
		}

		var (
			streak int
			err    error
		)
		if domain == plans.DomainWorkout {
			streak, err = handler.service.WorkoutStreak(r.Context(), userID)
		} else {
			streak, err = handler.service.DietStreak(r.Context(), userID)
		}
		if err != nil {
			writeError(w, string(domain)+" streak", err)
			return
		}
		pkg.WriteJSON(w, http.StatusOK, StreakResponse{
			Streak: streak,
			Today:  handler.service.Today(r.Context()),
		})
	}
}

func (handler *Handler) HandleMacroHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.macros.history")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	query := r.URL.Query()
	history, err := handler.service.MacroHistory(r.Context(), userID, query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, "macro history", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, history)
}

func (handler *Handler) HandleSaveMacros(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.macros.save")
	defer span.End()

	r, userID, ok := handler.withUser(w, r.WithContext(ctx))
	if !ok {
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}
	var macros plans.DailyMacros
	if err := json.NewDecoder(r.Body).Decode(&macros); err != nil {
		log.Tracef("save macros, unmarshal json params: %s", err)
		http.Error(w, "save macros failed", http.StatusBadRequest)
		return
	}
	macros.UserID = userID
	if macros.Date == "" {
		macros.Date = handler.service.Today(r.Context())
	}

	saved, status, err := handler.service.SaveMacros(r.Context(), macros)
	if err != nil {
		writeError(w, "save macros", err)
		return
	}
	pkg.WriteJSON(w, http.StatusOK, MacrosResponse{Macros: saved, SaveStatus: status})
}
