// Package lambda provides shared wiring for the AWS Lambda entrypoints.
package lambda

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/buildera-io/stratum/internal/alert"
	"github.com/buildera-io/stratum/internal/engine"
	"github.com/buildera-io/stratum/internal/provider"
	"github.com/buildera-io/stratum/internal/provider/dynamodb"
	"github.com/buildera-io/stratum/internal/snapshot"
	"github.com/buildera-io/stratum/pkg/types"
)

// Deps holds shared dependencies for Lambda handlers.
type Deps struct {
	Provider              provider.Provider
	Engine                *engine.Engine
	AlertFn               engine.AlertFunc
	SNSClient             alert.SNSAPI
	ObservabilityTopicARN string
	Logger                *slog.Logger
}

// Init creates shared dependencies from environment variables.
// Reads: TABLE_NAME, AWS_REGION, SNS_TOPIC_ARN, OBSERVABILITY_TOPIC_ARN
func Init(ctx context.Context) (*Deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	tableName := os.Getenv("TABLE_NAME")
	region := os.Getenv("AWS_REGION")
	if tableName == "" {
		return nil, fmt.Errorf("TABLE_NAME environment variable required")
	}
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION environment variable required")
	}

	prov, err := dynamodb.New(&dynamodb.Config{
		TableName: tableName,
		Region:    region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB provider: %w", err)
	}

	// Alert function
	var alertFn engine.AlertFunc
	if topicARN := os.Getenv("SNS_TOPIC_ARN"); topicARN != "" {
		dispatcher, err := alert.NewDispatcher([]types.AlertConfig{
			{Type: "sns", TopicARN: topicARN, Region: region},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("creating alert dispatcher: %w", err)
		}
		alertFn = dispatcher.Dispatch
	} else {
		alertFn = func(_ context.Context, a types.Alert) {
			logger.Info("alert", "level", a.Level, "tenant", a.TenantID, "message", a.Message)
		}
	}

	eng := engine.New(prov, snapshot.NewWriter(prov, logger), alertFn, logger)

	d := &Deps{
		Provider: prov,
		Engine:   eng,
		AlertFn:  alertFn,
		Logger:   logger,
	}

	// Observability publisher for DynamoDB stream records
	if topicARN := os.Getenv("OBSERVABILITY_TOPIC_ARN"); topicARN != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		d.SNSClient = awssns.NewFromConfig(awsCfg)
		d.ObservabilityTopicARN = topicARN
	}

	return d, nil
}
