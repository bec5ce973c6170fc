// Package main runs the fittrack MCP server over stdio, for local MCP clients.
// The backend serves the same tools at /mcp when mcp_enabled is set.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/db"
	fitmcp "github.com/2beens/fittrack/internal/mcp"
	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/pkg"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %v", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     secrets.PostgresUser,
		DBPassword: secrets.PostgresPassword,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	st := store.NewStore(store.NewStoreParams{DB: dbPool})
	server := fitmcp.NewServer(fitmcp.NewContextService(
		fitmcp.NewPoolSchemaRepo(dbPool),
		st,
		pkg.LoadLocation(cfg.DefaultTimezone, time.UTC),
	))

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
