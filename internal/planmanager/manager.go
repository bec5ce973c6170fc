package planmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=planmanager_mocks_test.go -package=planmanager_test

const (
	defaultMaxAttempts       = 3
	defaultMismatchThreshold = 3
	defaultInitialBackoff    = 100 * time.Millisecond
)

var ErrImportNotPersisted = errors.New("imported plan was not persisted")

// ErrPartialImport is returned when the workout plan was imported but the diet plan was not.
var ErrPartialImport = errors.New("workout plan imported, diet plan not")

type plansRepo interface {
	GetSettings(ctx context.Context, userID string) (*store.Settings, error)
	GetCustomWorkoutPlan(ctx context.Context, userID string) (*plans.WorkoutPlan, error)
	GetCustomDietPlan(ctx context.Context, userID string) (*plans.DietPlan, error)
	ReplaceWorkoutPlan(ctx context.Context, userID string, plan plans.WorkoutPlan) error
	ReplaceDietPlan(ctx context.Context, userID string, plan plans.DietPlan) error
	ClearDomain(ctx context.Context, userID string, domain plans.Domain, marker string) error
}

type historyRepo interface {
	ListWorkoutDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DatedWorkout, error)
	ListDietDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DietDay, error)
	ListMacros(ctx context.Context, userID, from, to string, limit int) ([]plans.DailyMacros, error)
}

type snapshotMirror interface {
	Snapshot(ctx context.Context, userID string) (*cache.Snapshot, error)
	SaveSnapshot(ctx context.Context, userID string, snap *cache.Snapshot) error
	Invalidate(ctx context.Context, userID string) error
}

// dayForgetter drops in-memory progress of a user after their data changed underneath.
type dayForgetter interface {
	ForgetUser(userID string)
}

// State of the plans a client works with, compared to what is persisted.
type State string

const (
	StateClean       State = "clean"
	StateDirty       State = "dirty"
	StateReconciling State = "reconciling"
	StateError       State = "error"
)

type ResetMode string

const (
	// ResetToDefault falls back to the first catalog plan.
	ResetToDefault ResetMode = "default"
	// ResetToEmpty leaves the user without a plan.
	ResetToEmpty ResetMode = "empty"
)

func ParseResetMode(s string) (ResetMode, error) {
	switch ResetMode(s) {
	case "", ResetToDefault:
		return ResetToDefault, nil
	case ResetToEmpty:
		return ResetToEmpty, nil
	default:
		return "", fmt.Errorf("unknown reset mode: %q", s)
	}
}

func (m ResetMode) marker() string {
	if m == ResetToEmpty {
		return plans.NoPlanMarker
	}
	return ""
}

// CurrentPlans are the plans a user follows right now.
type CurrentPlans struct {
	Workout       plans.WorkoutPlan `json:"workoutPlan"`
	Diet          plans.DietPlan    `json:"dietPlan"`
	WorkoutCustom bool              `json:"workoutCustom"`
	DietCustom    bool              `json:"dietCustom"`
}

func (c CurrentPlans) IDs() cache.PlanIDs {
	return cache.PlanIDs{Workout: c.Workout.ID, Diet: c.Diet.ID}
}

type ConsistencyResult struct {
	State               State         `json:"state"`
	Consistent          bool          `json:"consistent"`
	Mismatches          int           `json:"mismatches"`
	ManualResetRequired bool          `json:"manualResetRequired"`
	Plans               *CurrentPlans `json:"plans,omitempty"`
}

type CatalogResponse struct {
	Workout []plans.WorkoutPlan `json:"workoutPlans"`
	Diet    []plans.DietPlan    `json:"dietPlans"`
}

type userState struct {
	state      State
	mismatches int
}

type NewManagerParams struct {
	Plans   plansRepo
	History historyRepo
	// Mirror is optional, without it nothing is cached in redis.
	Mirror            snapshotMirror
	Metrics           *metrics.Manager
	MaxAttempts       int
	MismatchThreshold int
	InitialBackoff    time.Duration
}

type Manager struct {
	plans   plansRepo
	history historyRepo
	mirror  snapshotMirror
	days    dayForgetter
	metrics *metrics.Manager

	maxAttempts       int
	mismatchThreshold int
	initialBackoff    time.Duration

	mu     sync.Mutex
	states map[string]*userState
}

func NewManager(params NewManagerParams) *Manager {
	m := &Manager{
		plans:             params.Plans,
		history:           params.History,
		mirror:            params.Mirror,
		metrics:           params.Metrics,
		maxAttempts:       params.MaxAttempts,
		mismatchThreshold: params.MismatchThreshold,
		initialBackoff:    params.InitialBackoff,
		states:            make(map[string]*userState),
	}
	if m.metrics == nil {
		m.metrics = metrics.NewTestManager()
	}
	if m.maxAttempts <= 0 {
		m.maxAttempts = defaultMaxAttempts
	}
	if m.mismatchThreshold <= 0 {
		m.mismatchThreshold = defaultMismatchThreshold
	}
	if m.initialBackoff <= 0 {
		m.initialBackoff = defaultInitialBackoff
	}
	return m
}

// AttachDays registers the in-memory day tracker that must forget a user
// whenever their plans or progress are replaced.
func (m *Manager) AttachDays(days dayForgetter) {
	m.days = days
}

// Load resolves the current plans. Per domain a custom plan wins, otherwise
// the settings marker decides: empty selects the catalog default, a catalog
// id selects that entry, and anything else gives the empty plan.
func (m *Manager) Load(ctx context.Context, userID string) (_ *CurrentPlans, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.planmanager.load")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	settings, err := m.plans.GetSettings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	current := &CurrentPlans{}
	current.Workout, current.WorkoutCustom, err = m.workoutPlan(ctx, userID, settings.CurrentWorkoutPlanID)
	if err != nil {
		return nil, err
	}
	current.Diet, current.DietCustom, err = m.dietPlan(ctx, userID, settings.CurrentDietPlanID)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("workout.plan", current.Workout.ID),
		attribute.String("diet.plan", current.Diet.ID),
	)
	return current, nil
}

func (m *Manager) workoutPlan(ctx context.Context, userID, marker string) (plans.WorkoutPlan, bool, error) {
	custom, err := m.plans.GetCustomWorkoutPlan(ctx, userID)
	if err == nil {
		return *custom, true, nil
	}
	if !errors.Is(err, store.ErrPlanNotFound) {
		return plans.WorkoutPlan{}, false, fmt.Errorf("get custom workout plan: %w", err)
	}

	if marker == "" {
		return plans.DefaultWorkoutPlan(), false, nil
	}
	if p, ok := plans.FindWorkoutTemplate(marker); ok {
		return p, false, nil
	}
	return plans.WorkoutPlan{Days: []plans.WorkoutDay{}}, false, nil
}

func (m *Manager) dietPlan(ctx context.Context, userID, marker string) (plans.DietPlan, bool, error) {
	custom, err := m.plans.GetCustomDietPlan(ctx, userID)
	if err == nil {
		return *custom, true, nil
	}
	if !errors.Is(err, store.ErrPlanNotFound) {
		return plans.DietPlan{}, false, fmt.Errorf("get custom diet plan: %w", err)
	}

	if marker == "" {
		return plans.DefaultDietPlan(), false, nil
	}
	if p, ok := plans.FindDietTemplate(marker); ok {
		return p, false, nil
	}
	return plans.DietPlan{Meals: []plans.Meal{}}, false, nil
}

func (m *Manager) CurrentWorkoutPlan(ctx context.Context, userID string) (plans.WorkoutPlan, error) {
	settings, err := m.plans.GetSettings(ctx, userID)
	if err != nil {
		return plans.WorkoutPlan{}, fmt.Errorf("get settings: %w", err)
	}
	p, _, err := m.workoutPlan(ctx, userID, settings.CurrentWorkoutPlanID)
	return p, err
}

func (m *Manager) CurrentDietPlan(ctx context.Context, userID string) (plans.DietPlan, error) {
	settings, err := m.plans.GetSettings(ctx, userID)
	if err != nil {
		return plans.DietPlan{}, fmt.Errorf("get settings: %w", err)
	}
	p, _, err := m.dietPlan(ctx, userID, settings.CurrentDietPlanID)
	return p, err
}

func (m *Manager) Catalog() CatalogResponse {
	return CatalogResponse{
		Workout: plans.WorkoutCatalog(),
		Diet:    plans.DietCatalog(),
	}
}

// State returns the consistency state of the user, clean when never checked.
func (m *Manager) State(userID string) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.states[userID]; ok {
		return st.state
	}
	return StateClean
}

func (m *Manager) setState(userID string, state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.userState(userID)
	st.state = state
	if state == StateClean {
		st.mismatches = 0
	}
}

// userState must be called with m.mu held.
func (m *Manager) userState(userID string) *userState {
	st, ok := m.states[userID]
	if !ok {
		st = &userState{state: StateClean}
		m.states[userID] = st
	}
	return st
}

// CheckConsistency compares the plan ids a client works with against the
// persisted ones. A mismatch reloads the persisted plans, with retries, for
// the client to adopt. Repeated mismatches stop the automatic recovery and
// ask for a manual reset instead.
func (m *Manager) CheckConsistency(ctx context.Context, userID string, view cache.PlanIDs) (_ *ConsistencyResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.planmanager.consistency")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	persisted, err := m.reload(ctx, userID)
	if err != nil {
		m.setState(userID, StateError)
		m.metrics.CounterReconciliations.WithLabelValues(string(StateError)).Inc()
		return nil, err
	}

	if persisted.IDs() == view {
		m.setState(userID, StateClean)
		m.metrics.CounterReconciliations.WithLabelValues(string(StateClean)).Inc()
		return &ConsistencyResult{State: StateClean, Consistent: true, Plans: persisted}, nil
	}

	m.mu.Lock()
	st := m.userState(userID)
	st.mismatches++
	mismatches := st.mismatches
	if mismatches >= m.mismatchThreshold {
		st.state = StateError
	} else {
		st.state = StateReconciling
	}
	state := st.state
	m.mu.Unlock()

	m.metrics.CounterReconciliations.WithLabelValues(string(state)).Inc()
	span.SetAttributes(attribute.Int("mismatches", mismatches), attribute.String("state", string(state)))

	if state == StateError {
		log.Warnf("plan manager: %s reached %d mismatches in a row, manual reset required", userID, mismatches)
		return &ConsistencyResult{
			State:               StateError,
			Mismatches:          mismatches,
			ManualResetRequired: true,
		}, nil
	}

	log.Debugf("plan manager: %s works with %+v, persisted %+v", userID, view, persisted.IDs())
	return &ConsistencyResult{
		State:      StateReconciling,
		Mismatches: mismatches,
		Plans:      persisted,
	}, nil
}

// reload reads the persisted plans, retrying transient failures with exponential backoff.
func (m *Manager) reload(ctx context.Context, userID string) (*CurrentPlans, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = m.initialBackoff
	b := backoff.WithContext(backoff.WithMaxRetries(expBackoff, uint64(m.maxAttempts-1)), ctx)

	attempt := 0
	return backoff.RetryWithData(func() (*CurrentPlans, error) {
		attempt++
		current, err := m.Load(ctx, userID)
		if err != nil && store.IsTableMissing(err) {
			return nil, backoff.Permanent(err)
		}
		if err != nil {
			log.Debugf("plan manager: reload %s, attempt %d: %s", userID, attempt, err)
		}
		return current, err
	}, b)
}

// ImportPlan replaces the user's custom plans with the given ones. Either may
// be nil. Each import deletes the progress of its domain. The workout plan is
// committed first; if the diet then fails, ErrPartialImport is returned.
func (m *Manager) ImportPlan(ctx context.Context, userID string, workout *plans.WorkoutPlan, diet *plans.DietPlan) (_ *CurrentPlans, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.planmanager.import")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if workout == nil && diet == nil {
		return nil, plans.ErrNothingToImport
	}

	// the in-memory days and the mirror are stale after any attempt
	m.forgetDays(userID)
	defer m.forget(ctx, userID)
	m.setState(userID, StateDirty)

	if workout != nil {
		p := plans.AsImportedWorkout(*workout)
		if err := m.plans.ReplaceWorkoutPlan(ctx, userID, p); err != nil {
			m.setState(userID, StateError)
			return nil, fmt.Errorf("replace workout plan: %w", err)
		}
		stored, err := m.plans.GetCustomWorkoutPlan(ctx, userID)
		if err == nil && stored.ID != p.ID {
			err = fmt.Errorf("reads back as %q", stored.ID)
		}
		if err != nil {
			m.setState(userID, StateError)
			return nil, fmt.Errorf("%w: workout: %w", ErrImportNotPersisted, err)
		}
		m.metrics.CounterPlanImports.WithLabelValues(string(plans.DomainWorkout)).Inc()
		log.Printf("plan manager: imported workout plan [%s] for %s", p.Name, userID)
	}

	if diet != nil {
		if err := m.importDiet(ctx, userID, *diet); err != nil {
			m.setState(userID, StateError)
			if workout != nil {
				return nil, fmt.Errorf("%w: %w", ErrPartialImport, err)
			}
			return nil, err
		}
	}

	m.setState(userID, StateClean)
	return m.Load(ctx, userID)
}

func (m *Manager) importDiet(ctx context.Context, userID string, diet plans.DietPlan) error {
	p := plans.AsImportedDiet(diet)
	if err := m.plans.ReplaceDietPlan(ctx, userID, p); err != nil {
		return fmt.Errorf("replace diet plan: %w", err)
	}
	stored, err := m.plans.GetCustomDietPlan(ctx, userID)
	if err == nil && stored.ID != p.ID {
		err = fmt.Errorf("reads back as %q", stored.ID)
	}
	if err != nil {
		return fmt.Errorf("%w: diet: %w", ErrImportNotPersisted, err)
	}
	m.metrics.CounterPlanImports.WithLabelValues(string(plans.DomainDiet)).Inc()
	log.Printf("plan manager: imported diet plan [%s] for %s", p.Name, userID)
	return nil
}

// ImportDocument parses an import document and imports the first plan of each domain.
func (m *Manager) ImportDocument(ctx context.Context, userID string, data []byte) (*CurrentPlans, error) {
	doc, err := plans.ParseDocument(data)
	if err != nil {
		return nil, err
	}

	var workout *plans.WorkoutPlan
	if len(doc.WorkoutPlans) > 0 {
		workout = &doc.WorkoutPlans[0]
	}
	var diet *plans.DietPlan
	if len(doc.DietPlans) > 0 {
		diet = &doc.DietPlans[0]
	}
	if len(doc.WorkoutPlans) > 1 || len(doc.DietPlans) > 1 {
		log.Warnf("plan manager: document for %s has %d workout and %d diet plans, only the first of each is imported",
			userID, len(doc.WorkoutPlans), len(doc.DietPlans))
	}
	return m.ImportPlan(ctx, userID, workout, diet)
}

func (m *Manager) Export(ctx context.Context, userID string) (*plans.Document, error) {
	current, err := m.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	doc := plans.ExportDocument(current.Workout, current.Diet)
	return &doc, nil
}

// DeleteAll removes the custom plan and every progress record of one domain.
func (m *Manager) DeleteAll(ctx context.Context, userID string, domain plans.Domain, mode ResetMode) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.planmanager.delete_all")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	span.SetAttributes(attribute.String("domain", string(domain)), attribute.String("mode", string(mode)))
	m.forgetDays(userID)
	defer m.forget(ctx, userID)

	m.setState(userID, StateDirty)
	if err := m.plans.ClearDomain(ctx, userID, domain, mode.marker()); err != nil {
		m.setState(userID, StateError)
		return fmt.Errorf("clear %s: %w", domain, err)
	}
	m.setState(userID, StateClean)
	return nil
}

// EmergencyReset wipes plans and progress of both domains. Failures of one
// domain do not stop the other; all of them are returned together.
func (m *Manager) EmergencyReset(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.planmanager.emergency_reset")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	m.metrics.CounterEmergencyResets.Inc()
	m.forgetDays(userID)
	for _, domain := range []plans.Domain{plans.DomainWorkout, plans.DomainDiet} {
		err = multierr.Append(err, m.plans.ClearDomain(ctx, userID, domain, ""))
	}
	m.forget(ctx, userID)

	if err != nil {
		m.setState(userID, StateError)
		log.Errorf("plan manager: emergency reset of %s: %s", userID, err)
		return err
	}
	m.setState(userID, StateClean)
	log.Warnf("plan manager: emergency reset of %s done", userID)
	return nil
}

// forgetDays drops the user's in-memory days and cancels their pending writes.
// Called before a destructive write too, so no debounced write lands after the commit.
func (m *Manager) forgetDays(userID string) {
	if m.days != nil {
		m.days.ForgetUser(userID)
	}
}

func (m *Manager) forget(ctx context.Context, userID string) {
	m.forgetDays(userID)
	m.invalidate(ctx, userID)
}

// invalidate drops the redis mirror of the user. Failures are only logged.
func (m *Manager) invalidate(ctx context.Context, userID string) {
	if m.mirror == nil {
		return
	}
	if err := m.mirror.Invalidate(ctx, userID); err != nil {
		m.metrics.CounterCacheErrors.Inc()
		log.Errorf("plan manager: invalidate cache of %s: %s", userID, err)
	}
}

// InvalidateCache drops everything cached for the user, used after progress is cleared elsewhere.
func (m *Manager) InvalidateCache(ctx context.Context, userID string) {
	m.forget(ctx, userID)
}
