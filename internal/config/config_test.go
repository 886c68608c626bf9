package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddbprov "github.com/buildera-io/stratum/internal/provider/dynamodb"
	pgprov "github.com/buildera-io/stratum/internal/provider/postgres"
	"github.com/buildera-io/stratum/internal/provider/redis"
	"github.com/buildera-io/stratum/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stratum.yaml"), []byte(content), 0o644))
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `provider: redis
redis:
  addr: localhost:6379
  keyPrefix: "stratum:"
server:
  addr: ":3000"
cycle:
  enabled: true
  interval: 30m
alerts:
  - type: console
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Provider)
	rc, ok := cfg.Redis.(*redis.Config)
	require.True(t, ok, "Redis config should be *redis.Config")
	assert.Equal(t, "localhost:6379", rc.Addr)
	assert.Equal(t, "stratum:", rc.KeyPrefix)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.True(t, cfg.Cycle.Enabled)
	assert.Equal(t, "30m", cfg.Cycle.Interval)
	assert.Len(t, cfg.Alerts, 1)
}

func TestLoadDynamoDB(t *testing.T) {
	dir := writeConfig(t, `provider: dynamodb
dynamodb:
  tableName: stratum-state
  region: us-east-1
  createTable: true
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	dc, ok := cfg.DynamoDB.(*ddbprov.Config)
	require.True(t, ok, "DynamoDB config should be *dynamodb.Config")
	assert.Equal(t, "stratum-state", dc.TableName)
	assert.True(t, dc.CreateTable)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := writeConfig(t, "invalid: [yaml")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidation_MissingProvider(t *testing.T) {
	dir := writeConfig(t, `server:
  addr: ":3000"
`)
	_, err := Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "provider is required")
}

func TestValidation_MissingRedisConfig(t *testing.T) {
	dir := writeConfig(t, "provider: redis\n")
	_, err := Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis config is required")
}

func TestValidation_MissingPostgresDSN(t *testing.T) {
	dir := writeConfig(t, `provider: postgres
postgres:
  migrate: true
`)
	_, err := Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "postgres.dsn")
}

func TestValidation_UnknownAlertType(t *testing.T) {
	dir := writeConfig(t, `provider: memory
alerts:
  - type: pager
`)
	_, err := Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestValidation_IngestRequiresQueue(t *testing.T) {
	dir := writeConfig(t, `provider: memory
ingest:
  enabled: true
`)
	_, err := Load(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "queueUrl")
}

type fakeSecrets struct {
	values map[string]string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, input *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	v, ok := f.values[aws.ToString(input.SecretId)]
	if !ok {
		return nil, assert.AnError
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(v)}, nil
}

func TestResolveSecrets(t *testing.T) {
	cfg := &types.ProjectConfig{
		Provider: "postgres",
		Alerts: []types.AlertConfig{
			{Type: "webhook", URL: "https://hooks.example.com/stratum"},
			{Type: "console"},
		},
		Secrets: types.SecretsConfig{
			PostgresDSN:  "stratum/postgres-dsn",
			WebhookToken: "stratum/webhook-token",
		},
	}

	fake := &fakeSecrets{values: map[string]string{
		"stratum/postgres-dsn":  "postgres://app:pw@db:5432/stratum",
		"stratum/webhook-token": "tok-123",
	}}
	require.NoError(t, resolveSecrets(context.Background(), cfg, fake))

	pc, ok := cfg.Postgres.(*pgprov.Config)
	require.True(t, ok)
	assert.Equal(t, "postgres://app:pw@db:5432/stratum", pc.DSN)
	assert.Equal(t, "tok-123", cfg.Alerts[0].BearerToken)
	assert.Empty(t, cfg.Alerts[1].BearerToken)
}

func TestResolveSecrets_NoReferencesIsNoop(t *testing.T) {
	cfg := &types.ProjectConfig{Provider: "memory"}
	require.NoError(t, resolveSecrets(context.Background(), cfg, nil))
}

func TestResolveSecrets_FetchFailure(t *testing.T) {
	cfg := &types.ProjectConfig{
		Provider: "postgres",
		Secrets:  types.SecretsConfig{PostgresDSN: "missing"},
	}
	err := resolveSecrets(context.Background(), cfg, &fakeSecrets{})
	assert.Error(t, err)
}
