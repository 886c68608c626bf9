package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	pgprov "github.com/buildera-io/stratum/internal/provider/postgres"
	"github.com/buildera-io/stratum/pkg/types"
)

// SecretsAPI is the subset of the Secrets Manager client used by the loader.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, input *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// resolveSecrets replaces secret references in the config with values from
// AWS Secrets Manager. A nil client builds one lazily, and only when the
// config actually names a secret.
func resolveSecrets(ctx context.Context, cfg *types.ProjectConfig, client SecretsAPI) error {
	sec := cfg.Secrets
	if sec.PostgresDSN == "" && sec.WebhookToken == "" {
		return nil
	}

	if client == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if sec.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(sec.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return fmt.Errorf("loading AWS config: %w", err)
		}
		client = secretsmanager.NewFromConfig(awsCfg)
	}

	fetch := func(secretID string) (string, error) {
		out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(secretID),
		})
		if err != nil {
			return "", fmt.Errorf("fetching secret %q: %w", secretID, err)
		}
		if out.SecretString == nil {
			return "", fmt.Errorf("secret %q has no string value", secretID)
		}
		return *out.SecretString, nil
	}

	if sec.PostgresDSN != "" {
		dsn, err := fetch(sec.PostgresDSN)
		if err != nil {
			return err
		}
		pc, _ := cfg.Postgres.(*pgprov.Config)
		if pc == nil {
			pc = &pgprov.Config{}
			cfg.Postgres = pc
		}
		pc.DSN = dsn
	}

	if sec.WebhookToken != "" {
		token, err := fetch(sec.WebhookToken)
		if err != nil {
			return err
		}
		for i := range cfg.Alerts {
			if cfg.Alerts[i].Type == "webhook" && cfg.Alerts[i].BearerToken == "" {
				cfg.Alerts[i].BearerToken = token
			}
		}
	}

	return nil
}
