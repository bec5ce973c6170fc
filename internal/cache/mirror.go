package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	keyPrefix = "fittrack::"

	KeyPlanIDs        = "plan-ids"
	KeyWorkoutPlan    = "workout-plan"
	KeyDietPlan       = "diet-plan"
	KeyWorkoutHistory = "workout-history"
	KeyDietHistory    = "diet-history"
	KeyMacroHistory   = "macro-history"

	// HistoryLimit caps every mirrored history.
	HistoryLimit = 90
)

var ErrMiss = errors.New("cache miss")

var allKeys = []string{KeyPlanIDs, KeyWorkoutPlan, KeyDietPlan, KeyWorkoutHistory, KeyDietHistory, KeyMacroHistory}

type PlanIDs struct {
	Workout string `json:"workout"`
	Diet    string `json:"diet"`
}

// Snapshot is everything the home view needs for one user. Histories are newest first.
type Snapshot struct {
	PlanIDs        PlanIDs              `json:"planIds"`
	WorkoutPlan    plans.WorkoutPlan    `json:"workoutPlan"`
	DietPlan       plans.DietPlan       `json:"dietPlan"`
	WorkoutHistory []plans.DatedWorkout `json:"workoutHistory"`
	DietHistory    []plans.DietDay      `json:"dietHistory"`
	MacroHistory   []plans.DailyMacros  `json:"macroHistory"`
}

// Mirror keeps a per-user copy of plans and recent history in redis.
// Postgres stays the source of truth: entries are filled on read misses,
// pushed after successful writes and dropped on invalidation.
type Mirror struct {
	rdb   *redis.Client
	limit int
}

func NewMirror(rdb *redis.Client, limit int) *Mirror {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &Mirror{rdb: rdb, limit: limit}
}

func Key(userID, name string) string {
	return keyPrefix + userID + "::" + name
}

func (m *Mirror) Snapshot(ctx context.Context, userID string) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.mirror.snapshot")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	snap := &Snapshot{}
	if err := m.getJSON(ctx, Key(userID, KeyPlanIDs), &snap.PlanIDs); err != nil {
		return nil, err
	}
	if err := m.getJSON(ctx, Key(userID, KeyWorkoutPlan), &snap.WorkoutPlan); err != nil {
		return nil, err
	}
	if err := m.getJSON(ctx, Key(userID, KeyDietPlan), &snap.DietPlan); err != nil {
		return nil, err
	}

	if snap.WorkoutHistory, err = readHistory[plans.DatedWorkout](ctx, m.rdb, Key(userID, KeyWorkoutHistory)); err != nil {
		return nil, err
	}
	if snap.DietHistory, err = readHistory[plans.DietDay](ctx, m.rdb, Key(userID, KeyDietHistory)); err != nil {
		return nil, err
	}
	if snap.MacroHistory, err = readHistory[plans.DailyMacros](ctx, m.rdb, Key(userID, KeyMacroHistory)); err != nil {
		return nil, err
	}
	return snap, nil
}

func (m *Mirror) getJSON(ctx context.Context, key string, dst any) error {
	val, err := m.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", key, err)
	}
	return nil
}

func readHistory[T any](ctx context.Context, rdb *redis.Client, key string) ([]T, error) {
	fields, err := rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall %s: %w", key, err)
	}

	dates := make([]string, 0, len(fields))
	for date := range fields {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	out := make([]T, 0, len(dates))
	for _, date := range dates {
		var v T
		if err := json.Unmarshal([]byte(fields[date]), &v); err != nil {
			log.Errorf("mirror: skip broken %s entry %s: %s", key, date, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// SaveSnapshot replaces the whole mirror of a user.
func (m *Mirror) SaveSnapshot(ctx context.Context, userID string, snap *Snapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.mirror.save_snapshot")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := m.Invalidate(ctx, userID); err != nil {
		return err
	}
	if err := m.setJSON(ctx, Key(userID, KeyWorkoutPlan), snap.WorkoutPlan); err != nil {
		return err
	}
	if err := m.setJSON(ctx, Key(userID, KeyDietPlan), snap.DietPlan); err != nil {
		return err
	}

	workouts := make(map[string]any, len(snap.WorkoutHistory))
	for _, d := range capped(snap.WorkoutHistory, m.limit) {
		workouts[d.Date] = d
	}
	if err := m.putHistory(ctx, Key(userID, KeyWorkoutHistory), workouts); err != nil {
		return err
	}
	diets := make(map[string]any, len(snap.DietHistory))
	for _, d := range capped(snap.DietHistory, m.limit) {
		diets[d.Date] = d
	}
	if err := m.putHistory(ctx, Key(userID, KeyDietHistory), diets); err != nil {
		return err
	}
	macros := make(map[string]any, len(snap.MacroHistory))
	for _, d := range capped(snap.MacroHistory, m.limit) {
		macros[d.Date] = d
	}
	if err := m.putHistory(ctx, Key(userID, KeyMacroHistory), macros); err != nil {
		return err
	}

	// plan ids last: their presence marks the snapshot as complete
	return m.setJSON(ctx, Key(userID, KeyPlanIDs), snap.PlanIDs)
}

func capped[T any](list []T, limit int) []T {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}

func (m *Mirror) setJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := m.rdb.Set(ctx, key, string(raw), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (m *Mirror) putHistory(ctx context.Context, key string, byDate map[string]any) error {
	if len(byDate) == 0 {
		return nil
	}
	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	values := make([]any, 0, 2*len(dates))
	for _, date := range dates {
		raw, err := json.Marshal(byDate[date])
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", key, date, err)
		}
		values = append(values, date, string(raw))
	}
	if err := m.rdb.HSet(ctx, key, values...).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (m *Mirror) PushWorkoutDay(ctx context.Context, day plans.DatedWorkout) error {
	return m.push(ctx, Key(day.UserID, KeyWorkoutHistory), day.Date, day)
}

func (m *Mirror) PushDietDay(ctx context.Context, day plans.DietDay) error {
	return m.push(ctx, Key(day.UserID, KeyDietHistory), day.Date, day)
}

func (m *Mirror) PushMacros(ctx context.Context, macros plans.DailyMacros) error {
	return m.push(ctx, Key(macros.UserID, KeyMacroHistory), macros.Date, macros)
}

func (m *Mirror) push(ctx context.Context, key, date string, v any) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.mirror.push")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if err := m.putHistory(ctx, key, map[string]any{date: v}); err != nil {
		return err
	}
	return m.trim(ctx, key)
}

// DropDay removes one date from a mirrored history.
func (m *Mirror) DropDay(ctx context.Context, userID, name, date string) error {
	key := Key(userID, name)
	if err := m.rdb.HDel(ctx, key, date).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", key, err)
	}
	return nil
}

// trim keeps the newest m.limit dates of a history.
func (m *Mirror) trim(ctx context.Context, key string) error {
	n, err := m.rdb.HLen(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis hlen %s: %w", key, err)
	}
	if n <= int64(m.limit) {
		return nil
	}

	dates, err := m.rdb.HKeys(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis hkeys %s: %w", key, err)
	}
	sort.Strings(dates)
	stale := dates[:len(dates)-m.limit]
	if err := m.rdb.HDel(ctx, key, stale...).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", key, err)
	}
	log.Debugf("mirror: trimmed %d entries from %s", len(stale), key)
	return nil
}

// Invalidate drops every mirrored key of the user.
func (m *Mirror) Invalidate(ctx context.Context, userID string) error {
	keys := make([]string, 0, len(allKeys))
	for _, k := range allKeys {
		keys = append(keys, Key(userID, k))
	}
	if err := m.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del mirror of %s: %w", userID, err)
	}
	return nil
}

// TrimAll walks every mirrored history and trims it. Run periodically.
func (m *Mirror) TrimAll(ctx context.Context) (checked int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "cache.mirror.trim_all")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	var cursor uint64
	for {
		keys, next, err := m.rdb.Scan(ctx, cursor, keyPrefix+"*-history", 100).Result()
		if err != nil {
			return checked, fmt.Errorf("redis scan: %w", err)
		}
		for _, key := range keys {
			if !strings.HasSuffix(key, "-history") {
				continue
			}
			if err := m.trim(ctx, key); err != nil {
				return checked, err
			}
			checked++
		}
		if next == 0 {
			return checked, nil
		}
		cursor = next
	}
}
