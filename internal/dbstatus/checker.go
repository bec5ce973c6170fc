package dbstatus

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=dbstatus_mocks_test.go -package=dbstatus_test

type schemaRepo interface {
	ExistingTables(ctx context.Context) ([]string, error)
	Setup(ctx context.Context) error
	GetDatabaseStatus(ctx context.Context, userID string) (json.RawMessage, error)
	SaveDatabaseStatus(ctx context.Context, userID string, status json.RawMessage) error
	ClearProgress(ctx context.Context, userID string) error
}

// cacheInvalidator drops everything cached for a user once their progress is gone.
type cacheInvalidator interface {
	InvalidateCache(ctx context.Context, userID string)
}

// Status describes whether the schema the service needs is in place.
type Status struct {
	Ready     bool      `json:"ready"`
	Offline   bool      `json:"offline"`
	Existing  []string  `json:"existingTables"`
	Missing   []string  `json:"missingTables"`
	CheckedAt time.Time `json:"checkedAt"`
	Error     string    `json:"error,omitempty"`
}

// StartupCheck holds the status found when the server started, so that
// status requests do not hit postgres each time. It is refreshed by forced
// checks and by the setup.
type StartupCheck struct {
	mu     sync.RWMutex
	status *Status
}

func NewStartupCheck() *StartupCheck {
	return &StartupCheck{}
}

func (sc *StartupCheck) Get() (Status, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.status == nil {
		return Status{}, false
	}
	return *sc.status, true
}

func (sc *StartupCheck) Set(status Status) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.status = &status
}

type Checker struct {
	repo    schemaRepo
	startup *StartupCheck
	now     func() time.Time
}

func NewChecker(repo schemaRepo, startup *StartupCheck) *Checker {
	if startup == nil {
		startup = NewStartupCheck()
	}
	return &Checker{
		repo:    repo,
		startup: startup,
		now:     time.Now,
	}
}

// Check lists the existing tables and stores the result as the startup value.
// A failing database is reported in the status rather than as an error.
func (c *Checker) Check(ctx context.Context) Status {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dbstatus.check")
	defer span.End()

	status := Status{
		CheckedAt: c.now().UTC(),
		Existing:  []string{},
		Missing:   []string{},
	}

	existing, err := c.repo.ExistingTables(ctx)
	if err != nil {
		log.Errorf("database status check: %s", err)
		span.RecordError(err)
		status.Error = err.Error()
		status.Offline = store.IsOffline(err)
		status.Missing = append(status.Missing, store.RequiredTables...)
		c.startup.Set(status)
		return status
	}

	if existing != nil {
		status.Existing = existing
	}
	status.Missing = store.MissingFrom(existing)
	status.Ready = len(status.Missing) == 0

	span.SetAttributes(attribute.Bool("ready", status.Ready), attribute.Int("missing", len(status.Missing)))
	c.startup.Set(status)
	return status
}

// Current returns the startup value, checking once when there is none yet.
func (c *Checker) Current(ctx context.Context) Status {
	if status, ok := c.startup.Get(); ok {
		return status
	}
	return c.Check(ctx)
}

// Setup runs the creation script and checks the schema again.
func (c *Checker) Setup(ctx context.Context) (Status, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.dbstatus.setup")
	defer span.End()

	if err := c.repo.Setup(ctx); err != nil {
		span.RecordError(err)
		return c.Check(ctx), err
	}
	status := c.Check(ctx)
	if status.Ready {
		log.Println("database setup done, all tables present")
	} else {
		log.Warnf("database setup done, still missing: %v", status.Missing)
	}
	return status, nil
}
