// Package commands implements the CLI subcommands for the stratum binary.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/buildera-io/stratum/internal/provider"
	ddbprov "github.com/buildera-io/stratum/internal/provider/dynamodb"
	"github.com/buildera-io/stratum/internal/provider/memory"
	pgprov "github.com/buildera-io/stratum/internal/provider/postgres"
	"github.com/buildera-io/stratum/internal/provider/redis"
	"github.com/buildera-io/stratum/pkg/types"
)

// newProvider creates the configured storage provider.
func newProvider(ctx context.Context, cfg *types.ProjectConfig) (provider.Provider, error) {
	switch cfg.Provider {
	case "memory":
		return memory.New(), nil
	case "redis":
		rc, ok := cfg.Redis.(*redis.Config)
		if !ok || rc == nil {
			return nil, fmt.Errorf("redis config is required when provider is redis")
		}
		return redis.New(rc), nil
	case "dynamodb":
		dc, ok := cfg.DynamoDB.(*ddbprov.Config)
		if !ok || dc == nil {
			return nil, fmt.Errorf("dynamodb config is required when provider is dynamodb")
		}
		return ddbprov.New(dc)
	case "postgres":
		pc, ok := cfg.Postgres.(*pgprov.Config)
		if !ok || pc == nil {
			return nil, fmt.Errorf("postgres config is required when provider is postgres")
		}
		return pgprov.New(ctx, pc)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

// gapSeed is the YAML shape of one seeded gap.
type gapSeed struct {
	ID           string  `yaml:"id"`
	TenantID     string  `yaml:"tenantId"`
	Key          string  `yaml:"key"`
	Title        string  `yaml:"title"`
	Variable     string  `yaml:"variable"`
	Urgency      string  `yaml:"urgency"`
	ImpactWeight float64 `yaml:"impactWeight"`
	WeeksActive  int     `yaml:"weeksActive"`
}

// loadGapDir loads all gap seed YAML files from a directory. Each file
// holds a list of gaps to upsert.
func loadGapDir(dir string) ([]types.Gap, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var gaps []types.Gap
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var batch []gapSeed
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		now := time.Now().UTC()
		for _, s := range batch {
			if s.ID == "" || s.TenantID == "" {
				continue
			}
			gaps = append(gaps, types.Gap{
				ID:           s.ID,
				TenantID:     s.TenantID,
				Key:          s.Key,
				Title:        s.Title,
				Variable:     s.Variable,
				Urgency:      types.Urgency(s.Urgency),
				ImpactWeight: s.ImpactWeight,
				WeeksActive:  s.WeeksActive,
				CreatedAt:    now,
			})
		}
	}

	return gaps, nil
}
