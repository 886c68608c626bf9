// ingestor Lambda consumes impact events from SQS and applies them
// through the marketing impact bridge.
package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/buildera-io/stratum/internal/bridge"
	intlambda "github.com/buildera-io/stratum/internal/lambda"
	"github.com/buildera-io/stratum/internal/metrics"
	"github.com/buildera-io/stratum/pkg/types"
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

// handleSQSEvent applies each impact event in the batch. Malformed
// payloads are dropped; the bridge's writes are best-effort, so a record
// is consumed once its payload parses.
func handleSQSEvent(ctx context.Context, d *intlambda.Deps, event events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, record := range event.Records {
		var ev types.ImpactEvent
		if err := json.Unmarshal([]byte(record.Body), &ev); err != nil {
			metrics.EventsRejected.Add(1)
			d.Logger.Warn("dropping malformed impact event", "messageID", record.MessageId, "error", err)
			continue
		}
		if ev.TenantID == "" {
			metrics.EventsRejected.Add(1)
			d.Logger.Warn("dropping impact event without tenant id", "messageID", record.MessageId)
			continue
		}

		b := bridge.Load(ctx, d.Provider, ev.TenantID, d.Logger, bridge.Options{TriggeredBy: "sqs"})
		b.RecordMarketingImpact(ctx, ev)
		metrics.EventsIngested.Add(1)
	}

	return resp, nil
}

func main() {
	awslambda.Start(func(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
		d, err := getDeps()
		if err != nil {
			return events.SQSEventResponse{}, err
		}
		return handleSQSEvent(ctx, d, event)
	})
}
