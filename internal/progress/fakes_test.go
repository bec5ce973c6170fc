package progress

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/store"

	"github.com/google/uuid"
)

// memStore is an in-memory dayStore used by the service and handler tests.
type memStore struct {
	mu          sync.Mutex
	workoutDays map[string]plans.DatedWorkout
	dietDays    map[string]plans.DietDay
	macros      map[string]plans.DailyMacros
	logEntries  []plans.WorkoutLogEntry

	workoutUpserts int
	dietUpserts    int
	macroUpserts   int

	// writeErr, when set, fails every write
	writeErr error
	// workoutGate, when set, holds every workout upsert until it is closed;
	// workoutEntered is signalled as an upsert starts waiting
	workoutGate    chan struct{}
	workoutEntered chan struct{}
}

func newMemStore() *memStore {
	return &memStore{
		workoutDays: make(map[string]plans.DatedWorkout),
		dietDays:    make(map[string]plans.DietDay),
		macros:      make(map[string]plans.DailyMacros),
	}
}

func memKey(userID, date string) string {
	return userID + "|" + date
}

func inRange(date, from, to string) bool {
	return (from == "" || date >= from) && (to == "" || date <= to)
}

func (m *memStore) GetWorkoutDay(_ context.Context, userID, date string) (*plans.DatedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day, ok := m.workoutDays[memKey(userID, date)]
	if !ok {
		return nil, store.ErrDayNotFound
	}
	c := day.Clone()
	return &c, nil
}

func (m *memStore) UpsertWorkoutDay(_ context.Context, day plans.DatedWorkout) (*plans.DatedWorkout, error) {
	if m.workoutGate != nil {
		m.workoutEntered <- struct{}{}
		<-m.workoutGate
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.workoutUpserts++
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	m.workoutDays[memKey(day.UserID, day.Date)] = day.Clone()
	return &day, nil
}

func (m *memStore) DeleteWorkoutDay(_ context.Context, userID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workoutDays, memKey(userID, date))
	return nil
}

func (m *memStore) ListWorkoutDays(_ context.Context, userID, from, to string, _ int) ([]plans.DatedWorkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var days []plans.DatedWorkout
	for _, d := range m.workoutDays {
		if d.UserID == userID && inRange(d.Date, from, to) {
			days = append(days, d.Clone())
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

func (m *memStore) GetDietDay(_ context.Context, userID, date string) (*plans.DietDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	day, ok := m.dietDays[memKey(userID, date)]
	if !ok {
		return nil, store.ErrDayNotFound
	}
	c := day.Clone()
	return &c, nil
}

func (m *memStore) UpsertDietDay(_ context.Context, day plans.DietDay) (*plans.DietDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.dietUpserts++
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	m.dietDays[memKey(day.UserID, day.Date)] = day.Clone()
	return &day, nil
}

func (m *memStore) DeleteDietDay(_ context.Context, userID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.dietDays, memKey(userID, date))
	delete(m.macros, memKey(userID, date))
	return nil
}

func (m *memStore) ListDietDays(_ context.Context, userID, from, to string, _ int) ([]plans.DietDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var days []plans.DietDay
	for _, d := range m.dietDays {
		if d.UserID == userID && inRange(d.Date, from, to) {
			days = append(days, d.Clone())
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days, nil
}

func (m *memStore) UpsertMacros(_ context.Context, macros plans.DailyMacros) (*plans.DailyMacros, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	m.macroUpserts++
	if macros.ID == "" {
		macros.ID = uuid.NewString()
	}
	m.macros[memKey(macros.UserID, macros.Date)] = macros
	return &macros, nil
}

func (m *memStore) ListMacros(_ context.Context, userID, from, to string, _ int) ([]plans.DailyMacros, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []plans.DailyMacros
	for _, mm := range m.macros {
		if mm.UserID == userID && inRange(mm.Date, from, to) {
			out = append(out, mm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memStore) AddLogEntry(_ context.Context, entry plans.WorkoutLogEntry) (*plans.WorkoutLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now()
	m.logEntries = append(m.logEntries, entry)
	return &entry, nil
}

func (m *memStore) ListLogEntries(_ context.Context, userID, from, to string, _ int) ([]plans.WorkoutLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []plans.WorkoutLogEntry
	for i := len(m.logEntries) - 1; i >= 0; i-- {
		e := m.logEntries[i]
		if e.UserID == userID && inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) workoutUpsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.workoutUpserts
}

func (m *memStore) macroUpsertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.macroUpserts
}

type staticPlans struct {
	workout plans.WorkoutPlan
	diet    plans.DietPlan
}

func (p staticPlans) CurrentWorkoutPlan(context.Context, string) (plans.WorkoutPlan, error) {
	return p.workout.Clone(), nil
}

func (p staticPlans) CurrentDietPlan(context.Context, string) (plans.DietPlan, error) {
	return p.diet.Clone(), nil
}

type recordingMirror struct {
	mu      sync.Mutex
	pushed  []string
	dropped []string
}

func (r *recordingMirror) PushWorkoutDay(_ context.Context, day plans.DatedWorkout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = append(r.pushed, "workout|"+day.Date)
	return nil
}

func (r *recordingMirror) PushDietDay(_ context.Context, day plans.DietDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = append(r.pushed, "diet|"+day.Date)
	return nil
}

func (r *recordingMirror) PushMacros(_ context.Context, macros plans.DailyMacros) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushed = append(r.pushed, "macros|"+macros.Date)
	return nil
}

func (r *recordingMirror) DropDay(_ context.Context, _, name, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, name+"|"+date)
	return nil
}

func (r *recordingMirror) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.pushed...), append([]string(nil), r.dropped...)
}

// clearUser drops every record of the user, the way a plan import or reset does.
func (m *memStore) clearUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := userID + "|"
	for k := range m.workoutDays {
		if strings.HasPrefix(k, prefix) {
			delete(m.workoutDays, k)
		}
	}
	for k := range m.dietDays {
		if strings.HasPrefix(k, prefix) {
			delete(m.dietDays, k)
		}
	}
	for k := range m.macros {
		if strings.HasPrefix(k, prefix) {
			delete(m.macros, k)
		}
	}
}
