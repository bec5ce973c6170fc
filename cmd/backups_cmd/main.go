package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/2beens/fittrack/internal/backup"
	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	"github.com/2beens/fittrack/internal/logging"
	"github.com/2beens/fittrack/internal/planmanager"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	credentialsFile := flag.String("gd-creds", "", "google drive credentials json (default: FIT_GDRIVE_CREDENTIALS_FILE)")
	logsPath := flag.String("logs-path", "", "backups logs file path (empty for stdout)")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName: *logsPath,
		LogToStdout: *logsPath == "",
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	log.Println("starting fittrack backup ...")

	if *credentialsFile == "" {
		*credentialsFile = secrets.GoogleCredentialsFile
	}
	if *credentialsFile == "" {
		log.Fatalln("google drive credentials json not specified")
	}
	credentials, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read credentials file: %s", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     secrets.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	storage, err := backup.NewDriveStorage(ctx, credentials, cfg.BackupsFolderName, cfg.BackupsShareWith)
	if err != nil {
		log.Fatalf("failed to create google drive storage: %s", err)
	}

	metricsManager := metrics.NewManager("fittrack", "backup", prometheus.NewRegistry())
	st := store.NewStore(store.NewStoreParams{DB: dbPool})
	manager := planmanager.NewManager(planmanager.NewManagerParams{
		Plans:   st,
		History: st,
		Metrics: metricsManager,
	})

	res, err := backup.NewService(manager, st, storage, metricsManager).Run(ctx, time.Now())
	log.Printf("backup done: %d uploaded, %d skipped, %d failed", res.Uploaded, res.Skipped, res.Failed)
	if err != nil {
		log.Fatalf("backup: %s", err)
	}
}
