// Package config handles loading and validation of stratum.yaml project configuration.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ddbprov "github.com/buildera-io/stratum/internal/provider/dynamodb"
	pgprov "github.com/buildera-io/stratum/internal/provider/postgres"
	"github.com/buildera-io/stratum/internal/provider/redis"
	"github.com/buildera-io/stratum/pkg/types"
)

// providerConfigs is a helper struct used for a second YAML unmarshal pass
// to decode provider-specific config sections into their concrete types.
type providerConfigs struct {
	Redis    *redis.Config   `yaml:"redis,omitempty"`
	DynamoDB *ddbprov.Config `yaml:"dynamodb,omitempty"`
	Postgres *pgprov.Config  `yaml:"postgres,omitempty"`
}

// Load reads and parses stratum.yaml from the given directory. Secrets
// named in the secrets section are resolved from AWS Secrets Manager.
func Load(dir string) (*types.ProjectConfig, error) {
	cfg, err := load(dir)
	if err != nil {
		return nil, err
	}
	if err := resolveSecrets(context.Background(), cfg, nil); err != nil {
		return nil, fmt.Errorf("resolving secrets: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, "stratum.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Second pass: decode provider-specific sections into concrete types.
	var raw providerConfigs
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing provider config: %w", err)
	}
	if raw.Redis != nil {
		cfg.Redis = raw.Redis
	}
	if raw.DynamoDB != nil {
		cfg.DynamoDB = raw.DynamoDB
	}
	if raw.Postgres != nil {
		cfg.Postgres = raw.Postgres
	}

	return &cfg, nil
}

func validate(cfg *types.ProjectConfig) error {
	switch cfg.Provider {
	case "":
		return fmt.Errorf("provider is required")
	case "memory":
	case "redis":
		rc, _ := cfg.Redis.(*redis.Config)
		if rc == nil {
			return fmt.Errorf("redis config is required when provider is redis")
		}
		if rc.Addr == "" {
			return fmt.Errorf("redis.addr is required")
		}
	case "dynamodb":
		dc, _ := cfg.DynamoDB.(*ddbprov.Config)
		if dc == nil {
			return fmt.Errorf("dynamodb config is required when provider is dynamodb")
		}
		if dc.TableName == "" {
			return fmt.Errorf("dynamodb.tableName is required")
		}
	case "postgres":
		pc, _ := cfg.Postgres.(*pgprov.Config)
		if pc == nil {
			return fmt.Errorf("postgres config is required when provider is postgres")
		}
		if pc.DSN == "" {
			return fmt.Errorf("postgres.dsn is required (inline or via secrets.postgresDsn)")
		}
	default:
		return fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	for i, alert := range cfg.Alerts {
		switch alert.Type {
		case "console", "file", "webhook", "sns", "eventbridge":
		default:
			return fmt.Errorf("alerts[%d]: unknown type %q", i, alert.Type)
		}
	}

	if cfg.Ingest.Enabled && cfg.Ingest.QueueURL == "" {
		return fmt.Errorf("ingest.queueUrl is required when ingest is enabled")
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint is required when telemetry is enabled")
	}

	return nil
}
