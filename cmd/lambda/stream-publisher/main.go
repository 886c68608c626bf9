// stream-publisher Lambda forwards DynamoDB Stream records to the
// observability SNS topic as normalized strategic-state events.
package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	intlambda "github.com/buildera-io/stratum/internal/lambda"
)

var (
	deps     *intlambda.Deps
	depsOnce sync.Once
	depsErr  error
)

func getDeps() (*intlambda.Deps, error) {
	depsOnce.Do(func() {
		deps, depsErr = intlambda.Init(context.Background())
	})
	return deps, depsErr
}

func handleStreamEvent(ctx context.Context, d *intlambda.Deps, event events.DynamoDBEvent) error {
	logger := slog.Default()

	for _, record := range event.Records {
		if record.EventName != "INSERT" && record.EventName != "MODIFY" {
			continue
		}

		keys := record.Change.Keys
		pkAttr, hasPK := keys["PK"]
		skAttr, hasSK := keys["SK"]
		if !hasPK || !hasSK {
			logger.Warn("stream record missing PK/SK", "eventID", record.EventID)
			continue
		}

		intlambda.PublishObservabilityEvent(ctx, d, logger, pkAttr.String(), skAttr.String(), record)
	}

	return nil
}

func main() {
	awslambda.Start(func(ctx context.Context, event events.DynamoDBEvent) error {
		d, err := getDeps()
		if err != nil {
			return err
		}
		return handleStreamEvent(ctx, d, event)
	})
}
