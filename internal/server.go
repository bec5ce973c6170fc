package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/dbstatus"
	fitmcp "github.com/2beens/fittrack/internal/mcp"
	"github.com/2beens/fittrack/internal/middleware"
	"github.com/2beens/fittrack/internal/planmanager"
	"github.com/2beens/fittrack/internal/progress"
	"github.com/2beens/fittrack/internal/stats"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	mcpSecret         string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service
	cron         *cron.Cron

	store        *store.Store
	mirror       *cache.Mirror
	progress     *progress.Service
	planManager  *planmanager.Manager
	startupCheck *dbstatus.StartupCheck

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	Secrets                 *config.Secrets
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets
	if secrets == nil {
		secrets = &config.Secrets{}
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         secrets.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		MaxConns:       cfg.PostgresMaxConns,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fittrack", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, secrets.OtelServiceName, rdb)
	if err != nil {
		return nil, err
	}

	st := store.NewStore(store.NewStoreParams{
		DB: dbPool,
		Callbacks: store.Callbacks{
			OnSaving: func(op string) {
				log.Tracef("store: %s ...", op)
			},
			OnError: func(op string, err error) {
				log.Warnf("store: %s failed: %s", op, err)
			},
		},
	})
	mirror := cache.NewMirror(rdb, cfg.HistoryLimit)

	planManager := planmanager.NewManager(planmanager.NewManagerParams{
		Plans:             st,
		History:           st,
		Mirror:            mirror,
		Metrics:           metricsManager,
		MaxAttempts:       cfg.ReconcileMaxAttempts,
		MismatchThreshold: cfg.ReconcileMismatchThreshold,
		InitialBackoff:    200 * time.Millisecond,
	})
	progressService := progress.NewService(progress.ServiceParams{
		Store:           st,
		Plans:           planManager,
		DayCache:        cache.NewDayCache(cfg.DayCacheSizeMB),
		Mirror:          mirror,
		Metrics:         metricsManager,
		DefaultLocation: pkg.LoadLocation(cfg.DefaultTimezone, time.UTC),
		WorkoutDebounce: cfg.WorkoutSaveDebounce(),
		DietDebounce:    cfg.DietSaveDebounce(),
		HistoryDays:     cfg.HistoryLimit,
	})
	planManager.AttachDays(progressService)

	authService := auth.NewAuthService(auth.DefaultTTL, rdb)

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,
		mcpSecret:   secrets.MCPSecret,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		store:        st,
		mirror:       mirror,
		progress:     progressService,
		planManager:  planManager,
		startupCheck: dbstatus.NewStartupCheck(),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	// the first status request is served from this check
	status := dbstatus.NewChecker(st, s.startupCheck).Check(ctx)
	if !status.Ready {
		log.Warnf("database not ready, offline: %t, missing tables: %v", status.Offline, status.Missing)
	}

	if s.cron, err = s.scheduleJobs(ctx); err != nil {
		return nil, fmt.Errorf("schedule jobs: %w", err)
	}

	return s, nil
}

func (s *Server) scheduleJobs(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	if err := c.AddFunc(s.config.SessionCleanupSchedule, func() {
		removed := s.authService.ScanAndClean(ctx)
		log.Debugf("session cleanup: %d sessions removed", removed)
	}); err != nil {
		return nil, fmt.Errorf("session cleanup job [%s]: %w", s.config.SessionCleanupSchedule, err)
	}
	if err := c.AddFunc(s.config.CacheTrimSchedule, func() {
		checked, err := s.mirror.TrimAll(ctx)
		if err != nil {
			log.Errorf("cache trim: %s", err)
			return
		}
		log.Debugf("cache trim: %d keys checked", checked)
	}); err != nil {
		return nil, fmt.Errorf("cache trim job [%s]: %w", s.config.CacheTrimSchedule, err)
	}
	return c, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	r.HandleFunc("/", s.handleRoot).Methods("GET", "OPTIONS").Name("root")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	authHandler := auth.NewHandler(auth.NewAccounts(s.store, s.authService))
	loginLimit := middleware.RateLimit(reqRateLimiter, s.metricsManager, "login", s.config.LoginRateLimitAllowedPerMin)
	registerLimit := middleware.RateLimit(reqRateLimiter, s.metricsManager, "register", s.config.LoginRateLimitAllowedPerMin)
	r.Handle("/a/register", registerLimit(http.HandlerFunc(authHandler.HandleRegister))).Methods("POST", "OPTIONS").Name("register")
	r.Handle("/a/login", loginLimit(http.HandlerFunc(authHandler.HandleLogin))).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/a/logout", authHandler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")

	planmanager.NewHandler(s.planManager).SetupRoutes(r)
	progress.NewHandler(s.progress).SetupRoutes(r)
	stats.NewHandler(stats.NewService(s.store, s.progress, s.planManager)).SetupRoutes(r)

	dbStatusHandler := dbstatus.NewHandler(dbstatus.NewChecker(s.store, s.startupCheck), s.planManager)
	dbStatusHandler.SetupRoutes(r)
	dbStatusHandler.SetupUserRoutes(r)

	if s.config.MCPEnabled {
		mcpServer := fitmcp.NewServer(fitmcp.NewContextService(
			fitmcp.NewPoolSchemaRepo(s.dbPool),
			s.store,
			pkg.LoadLocation(s.config.DefaultTimezone, time.UTC),
		))
		r.PathPrefix("/mcp").Handler(fitmcp.NewHTTPHandler(mcpServer)).Name("mcp")
	}

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.mcpSecret, s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(middleware.DefaultMaxBodyBytes))

	return r, nil
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	version := s.versionInfo
	if version == "" {
		version = "dev"
	}
	pkg.WriteTextResponseOK(w, "fittrack "+version)
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.cron.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking requests before the pending writes are flushed
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.cron != nil {
		s.cron.Stop()
	}

	log.Debugf("flushing %d pending day writes ...", s.progress.PendingWrites())
	s.progress.FlushPending()
	log.Debugln("pending day writes flushed")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
