// Command fitctl is the admin tool for a fittrack database: schema setup,
// status, and plan import, export and reset for a single user.
package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/2beens/fittrack/internal/cache"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/dbstatus"
	"github.com/2beens/fittrack/internal/planmanager"
	"github.com/2beens/fittrack/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

type app struct {
	env        string
	configPath string

	pool    *pgxpool.Pool
	rdb     *redis.Client
	store   *store.Store
	manager *planmanager.Manager
}

// open connects lazily, so flag validation and help never need postgres.
func (a *app) open(ctx context.Context) error {
	if a.pool != nil {
		return nil
	}

	cfg, err := config.Load(a.env, a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		return fmt.Errorf("load secrets: %w", err)
	}

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     secrets.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		return fmt.Errorf("db pool: %w", err)
	}

	// imports and resets must drop the cached home snapshots the service serves
	a.rdb = redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
	})

	a.pool = pool
	a.store = store.NewStore(store.NewStoreParams{DB: pool})
	a.manager = planmanager.NewManager(planmanager.NewManagerParams{
		Plans:             a.store,
		History:           a.store,
		Mirror:            cache.NewMirror(a.rdb, cfg.HistoryLimit),
		MaxAttempts:       cfg.ReconcileMaxAttempts,
		MismatchThreshold: cfg.ReconcileMismatchThreshold,
	})
	return nil
}

func (a *app) close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
		a.rdb = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
}

func (a *app) checker() *dbstatus.Checker {
	return dbstatus.NewChecker(a.store, nil)
}

func main() {
	a := &app{}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.close()
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fitctl",
		Short: "fittrack admin tool",
	}
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&a.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		setupDBCmd(a),
		statusCmd(a),
		importCmd(a),
		exportCmd(a),
		resetCmd(a),
	)
	return rootCmd
}
