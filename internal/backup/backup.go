package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/plans"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

type planExporter interface {
	Export(ctx context.Context, userID string) (*plans.Document, error)
}

type historyRepo interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	ListWorkoutDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DatedWorkout, error)
	ListDietDays(ctx context.Context, userID, from, to string, limit int) ([]plans.DietDay, error)
	ListMacros(ctx context.Context, userID, from, to string, limit int) ([]plans.DailyMacros, error)
}

type fileStorage interface {
	ListFiles(ctx context.Context) ([]string, error)
	Upload(ctx context.Context, name string, data []byte) (string, error)
}

// Snapshot is the backup of one user: the export document of the current
// plans plus the whole tracked history.
type Snapshot struct {
	UserID         string               `json:"userId"`
	CreatedAt      time.Time            `json:"createdAt"`
	Plans          plans.Document       `json:"plans"`
	WorkoutHistory []plans.DatedWorkout `json:"workoutHistory"`
	DietHistory    []plans.DietDay      `json:"dietHistory"`
	MacroHistory   []plans.DailyMacros  `json:"macroHistory"`
}

type Result struct {
	Uploaded int
	Skipped  int
	Failed   int
}

type Service struct {
	exporter planExporter
	history  historyRepo
	storage  fileStorage
	metrics  *metrics.Manager
}

func NewService(exporter planExporter, history historyRepo, storage fileStorage, metricsManager *metrics.Manager) *Service {
	return &Service{
		exporter: exporter,
		history:  history,
		storage:  storage,
		metrics:  metricsManager,
	}
}

// FileName is unique per user and day, so a second run on the same day skips
// users already backed up.
func FileName(userID string, now time.Time) string {
	return fmt.Sprintf("fittrack-%s-%s.json", userID, pkg.FormatDate(now))
}

func (s *Service) Collect(ctx context.Context, userID string, now time.Time) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.backup.collect")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	doc, err := s.exporter.Export(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export plans: %w", err)
	}

	snap := &Snapshot{
		UserID:    userID,
		CreatedAt: now.UTC(),
		Plans:     *doc,
	}
	if snap.WorkoutHistory, err = s.history.ListWorkoutDays(ctx, userID, "", "", 0); err != nil {
		return nil, fmt.Errorf("list workout days: %w", err)
	}
	if snap.DietHistory, err = s.history.ListDietDays(ctx, userID, "", "", 0); err != nil {
		return nil, fmt.Errorf("list diet days: %w", err)
	}
	if snap.MacroHistory, err = s.history.ListMacros(ctx, userID, "", "", 0); err != nil {
		return nil, fmt.Errorf("list macros: %w", err)
	}
	return snap, nil
}

// Run backs up every user. A failing user does not stop the others; all
// failures are returned combined.
func (s *Service) Run(ctx context.Context, now time.Time) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.backup.run")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if s.metrics != nil {
		defer func(begin time.Time) {
			s.metrics.HistBackupDuration.Observe(time.Since(begin).Seconds())
		}(time.Now())
	}

	var res Result
	userIDs, err := s.history.ListUserIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list users: %w", err)
	}

	existing, err := s.storage.ListFiles(ctx)
	if err != nil {
		return res, fmt.Errorf("list backup files: %w", err)
	}
	done := make(map[string]bool, len(existing))
	for _, name := range existing {
		done[name] = true
	}

	var errs error
	for _, userID := range userIDs {
		name := FileName(userID, now)
		if done[name] {
			log.Debugf("backup %s already exists, skipping", name)
			res.Skipped++
			continue
		}
		if err := s.backupUser(ctx, userID, name, now); err != nil {
			log.Errorf("backup user %s: %s", userID, err)
			errs = multierr.Append(errs, fmt.Errorf("user %s: %w", userID, err))
			res.Failed++
			continue
		}
		res.Uploaded++
	}

	span.SetAttributes(
		attribute.Int("uploaded", res.Uploaded),
		attribute.Int("skipped", res.Skipped),
		attribute.Int("failed", res.Failed),
	)
	return res, errs
}

func (s *Service) backupUser(ctx context.Context, userID, name string, now time.Time) error {
	snap, err := s.Collect(ctx, userID, now)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fileID, err := s.storage.Upload(ctx, name, data)
	if err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	log.Printf("backup %s saved: %s (%d bytes)", name, fileID, len(data))
	return nil
}
