package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	defaultWorkoutDebounce = 500 * time.Millisecond
	defaultDietDebounce    = 1000 * time.Millisecond
	defaultWriteTimeout    = 10 * time.Second
	defaultHistoryDays     = 90

	futureDateNotice = "Future dates cannot be tracked yet, showing today instead."
)

var (
	ErrFutureDate   = errors.New("date is in the future")
	ErrInvalidRange = errors.New("invalid date range")
)

// FutureDateError rejects a mutation on a date after the user's today.
type FutureDateError struct {
	Date  string
	Today string
}

func (e *FutureDateError) Error() string {
	return fmt.Sprintf("%s: %s is after %s", ErrFutureDate, e.Date, e.Today)
}

func (e *FutureDateError) Is(target error) bool {
	return target == ErrFutureDate
}

// SaveStatus is what the client shows next to a day after a change.
type SaveStatus string

const (
	StatusSaving  SaveStatus = "saving"
	StatusSaved   SaveStatus = "saved"
	StatusError   SaveStatus = "error"
	StatusOffline SaveStatus = "offline"
)

func statusFor(err error) SaveStatus {
	switch {
	case err == nil:
		return StatusSaved
	case store.IsOffline(err):
		return StatusOffline
	default:
		return StatusError
	}
}

type dayStore interface {
	GetWorkoutDay(ctx context.Context, userID, date string) (*plans.DatedWorkout, error)
	UpsertWorkoutDay(ctx context.Context, day plans.DatedWorkout) (*plans.DatedWorkout, error)
	DeleteWorkoutDay(ctx context.Context, userID, date string) error
	ListWorkoutDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DatedWorkout, error)
	GetDietDay(ctx context.Context, userID, date string) (*plans.DietDay, error)
	UpsertDietDay(ctx context.Context, day plans.DietDay) (*plans.DietDay, error)
	DeleteDietDay(ctx context.Context, userID, date string) error
	ListDietDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DietDay, error)
	UpsertMacros(ctx context.Context, m plans.DailyMacros) (*plans.DailyMacros, error)
	ListMacros(ctx context.Context, userID, from, to string, limit int) ([]plans.DailyMacros, error)
	AddLogEntry(ctx context.Context, entry plans.WorkoutLogEntry) (*plans.WorkoutLogEntry, error)
	ListLogEntries(ctx context.Context, userID, from, to string, limit int) ([]plans.WorkoutLogEntry, error)
}

// PlanProvider resolves the plans a user currently follows.
type PlanProvider interface {
	CurrentWorkoutPlan(ctx context.Context, userID string) (plans.WorkoutPlan, error)
	CurrentDietPlan(ctx context.Context, userID string) (plans.DietPlan, error)
}

type historyMirror interface {
	PushWorkoutDay(ctx context.Context, day plans.DatedWorkout) error
	PushDietDay(ctx context.Context, day plans.DietDay) error
	PushMacros(ctx context.Context, macros plans.DailyMacros) error
	DropDay(ctx context.Context, userID, name, date string) error
}

type WorkoutDayView struct {
	Day               plans.DatedWorkout `json:"day"`
	SaveStatus        SaveStatus         `json:"saveStatus,omitempty"`
	RedirectedToToday bool               `json:"redirectedToToday,omitempty"`
	Notice            string             `json:"notice,omitempty"`
}

type DietDayView struct {
	Day               plans.DietDay     `json:"day"`
	Macros            plans.DailyMacros `json:"macros"`
	SaveStatus        SaveStatus        `json:"saveStatus,omitempty"`
	RedirectedToToday bool              `json:"redirectedToToday,omitempty"`
	Notice            string            `json:"notice,omitempty"`
}

type ServiceParams struct {
	Store           dayStore
	Plans           PlanProvider
	DayCache        *cache.DayCache
	Mirror          historyMirror
	Metrics         *metrics.Manager
	DefaultLocation *time.Location
	WorkoutDebounce time.Duration
	DietDebounce    time.Duration
	HistoryDays     int
	// Now is replaceable in tests.
	Now func() time.Time
}

type Service struct {
	store           dayStore
	plans           PlanProvider
	dayCache        *cache.DayCache
	mirror          historyMirror
	metrics         *metrics.Manager
	debouncer       *Debouncer
	defaultLocation *time.Location
	workoutDebounce time.Duration
	dietDebounce    time.Duration
	writeTimeout    time.Duration
	historyDays     int
	now             func() time.Time

	// mu serializes read-modify-write cycles on cached days
	mu sync.Mutex

	statusMu sync.Mutex
	statuses map[string]SaveStatus
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		store:           params.Store,
		plans:           params.Plans,
		dayCache:        params.DayCache,
		mirror:          params.Mirror,
		metrics:         params.Metrics,
		defaultLocation: params.DefaultLocation,
		workoutDebounce: params.WorkoutDebounce,
		dietDebounce:    params.DietDebounce,
		writeTimeout:    defaultWriteTimeout,
		historyDays:     params.HistoryDays,
		now:             params.Now,
		statuses:        make(map[string]SaveStatus),
	}
	if s.dayCache == nil {
		s.dayCache = cache.NewDayCache(0)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewTestManager()
	}
	if s.defaultLocation == nil {
		s.defaultLocation = time.UTC
	}
	if s.workoutDebounce <= 0 {
		s.workoutDebounce = defaultWorkoutDebounce
	}
	if s.dietDebounce <= 0 {
		s.dietDebounce = defaultDietDebounce
	}
	if s.historyDays <= 0 {
		s.historyDays = defaultHistoryDays
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.debouncer = NewDebouncer(func(pending int) {
		s.metrics.GaugePendingWrites.Set(float64(pending))
	})
	return s
}

type locationKey struct{}

// ContextWithLocation attaches the user's timezone, used to decide what "today" is.
func ContextWithLocation(ctx context.Context, loc *time.Location) context.Context {
	return context.WithValue(ctx, locationKey{}, loc)
}

// Today returns the current date in the timezone carried by ctx.
func (s *Service) Today(ctx context.Context) string {
	loc, _ := ctx.Value(locationKey{}).(*time.Location)
	if loc == nil {
		loc = s.defaultLocation
	}
	return pkg.TodayIn(s.now(), loc)
}

// targetDate validates date and redirects future dates to today.
func (s *Service) targetDate(ctx context.Context, date string) (string, bool, error) {
	today := s.Today(ctx)
	if date == "" {
		return today, false, nil
	}
	if _, err := pkg.ParseDate(date); err != nil {
		return "", false, err
	}
	if pkg.IsAfterDate(date, today) {
		return today, true, nil
	}
	return date, false, nil
}

// guardDate rejects malformed and future dates for mutations.
func (s *Service) guardDate(ctx context.Context, date string) error {
	if _, err := pkg.ParseDate(date); err != nil {
		return err
	}
	if today := s.Today(ctx); pkg.IsAfterDate(date, today) {
		return &FutureDateError{Date: date, Today: today}
	}
	return nil
}

func (s *Service) setStatus(key string, status SaveStatus) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.statuses[key] = status
}

func (s *Service) status(key string) SaveStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.statuses[key]
}

func (s *Service) dropStatuses(prefix string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	for key := range s.statuses {
		if strings.HasPrefix(key, prefix) {
			delete(s.statuses, key)
		}
	}
}

func (s *Service) writeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.writeTimeout)
}

func (s *Service) countWrite(op string, err error) {
	s.metrics.CounterStoreWrites.WithLabelValues(op, string(statusFor(err))).Inc()
}

func (s *Service) mirrorErr(op string, err error) {
	if err == nil {
		return
	}
	s.metrics.CounterCacheErrors.Inc()
	log.Errorf("mirror %s: %s", op, err)
}

// Wait blocks until running writes and macro recomputations are done.
func (s *Service) Wait() {
	s.debouncer.WaitPrefix("")
}

// FlushPending writes every debounced change now. Used on shutdown.
func (s *Service) FlushPending() {
	s.debouncer.FlushAll()
}

func (s *Service) PendingWrites() int {
	return s.debouncer.Pending()
}

// ResetDay deletes the day record of the given domain.
func (s *Service) ResetDay(ctx context.Context, userID string, domain plans.Domain, date string) error {
	switch domain {
	case plans.DomainWorkout:
		return s.ResetWorkoutDay(ctx, userID, date)
	case plans.DomainDiet:
		return s.ResetDietDay(ctx, userID, date)
	default:
		return fmt.Errorf("%w: %s", plans.ErrUnknownDomain, domain)
	}
}

// ForgetUser drops in-memory days, statuses and pending writes of the user.
// It returns once writes of the user that already started have finished,
// so a store clear that follows is not overwritten by them.
func (s *Service) ForgetUser(userID string) {
	prefix := userID + "|"
	if n := s.debouncer.CancelPrefix(prefix); n > 0 {
		log.Debugf("progress: cancelled %d pending writes of %s", n, userID)
	}
	s.debouncer.WaitPrefix(prefix)
	s.dayCache.DeleteUser(userID)
	s.dropStatuses(prefix)
}
