package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Secrets are never kept in the TOML file.
type Secrets struct {
	SentryDSN             string `env:"SENTRY_DSN"`
	PostgresUser          string `env:"FIT_POSTGRES_USER, default=postgres"`
	PostgresPassword      string `env:"FIT_POSTGRES_PASS"`
	RedisPassword         string `env:"FIT_REDIS_PASS"`
	MCPSecret             string `env:"FIT_MCP_SECRET"`
	HoneycombEnabled      bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey       string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName       string `env:"OTEL_SERVICE_NAME, default=fittrack"`
	GoogleCredentialsFile string `env:"FIT_GDRIVE_CREDENTIALS_FILE"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return LoadSecretsWith(ctx, envconfig.OsLookuper())
}

func LoadSecretsWith(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &s, nil
}
