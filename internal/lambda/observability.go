package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// skippedSKPrefixes are SK prefixes that should not be published to the
// observability topic (tenant config and internal counters).
var skippedSKPrefixes = []string{"CONFIG", "VERSION"}

// skPrefixToRecordType maps DynamoDB SK prefix to observability record type.
var skPrefixToRecordType = map[string]string{
	"HISTORY#":  "SCORE_HISTORY",
	"MEMORY#":   "MEMORY",
	"IMPACT#":   "IMPACT",
	"SNAPSHOT#": "SNAPSHOT",
	"GAP#":      "GAP",
}

// recordTypeToEventType maps record type to the published event type.
var recordTypeToEventType = map[string]string{
	"SCORE_HISTORY": "SCORE_RECORDED",
	"MEMORY":        "MEMORY_APPENDED",
	"IMPACT":        "IMPACT_RECORDED",
	"SNAPSHOT":      "SNAPSHOT_CAPTURED",
	"GAP":           "GAP_UPSERTED",
}

// PublishObservabilityEvent publishes a normalized event to the
// observability SNS topic for eligible DynamoDB stream records.
// Best-effort: errors are logged, not returned. No-op when
// OBSERVABILITY_TOPIC_ARN is not configured.
func PublishObservabilityEvent(ctx context.Context, d *Deps, logger *slog.Logger, pk, sk string, record events.DynamoDBEventRecord) {
	if d.SNSClient == nil || d.ObservabilityTopicARN == "" {
		return
	}

	// Skip internal record types
	for _, prefix := range skippedSKPrefixes {
		if strings.HasPrefix(sk, prefix) {
			return
		}
	}

	// Determine record type from SK prefix
	recordType := ""
	for prefix, rt := range skPrefixToRecordType {
		if strings.HasPrefix(sk, prefix) {
			recordType = rt
			break
		}
	}
	if recordType == "" {
		return // unknown record type, skip
	}

	tenantID := strings.TrimPrefix(pk, "TENANT#")
	if tenantID == pk {
		return // not a tenant record
	}

	evt := ObservabilityEvent{
		EventID:    fmt.Sprintf("%s:%s", record.EventName, record.EventID),
		RecordType: recordType,
		EventType:  recordTypeToEventType[recordType],
		TenantID:   tenantID,
		Timestamp:  time.Now(),
	}

	// Rows carry their payload as a JSON string in the data attribute;
	// snapshot rows additionally carry a top-level version number.
	if newImage := record.Change.NewImage; newImage != nil {
		if attr, ok := newImage["version"]; ok {
			evt.Version = attr.Number()
		}
		if attr, ok := newImage["data"]; ok {
			var payload struct {
				ActionType string `json:"action_type"`
				Stage      string `json:"maturity_stage"`
				EventType  string `json:"event_type"`
			}
			if err := json.Unmarshal([]byte(attr.String()), &payload); err == nil {
				evt.ActionType = payload.ActionType
				evt.Stage = payload.Stage
				// Impact rows carry the marketing event type themselves.
				if recordType == "IMPACT" && payload.EventType != "" {
					evt.EventType = payload.EventType
				}
			}
		}
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		logger.Error("failed to marshal observability event",
			"tenant", tenantID, "recordType", recordType, "error", err)
		return
	}

	// Truncate if > 256KB (SNS limit)
	msg := string(payload)
	if len(msg) > 256*1024 {
		msg = msg[:256*1024]
	}

	_, err = d.SNSClient.Publish(ctx, &awssns.PublishInput{
		TopicArn: &d.ObservabilityTopicARN,
		Message:  &msg,
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"recordType": {
				DataType:    strPtr("String"),
				StringValue: &recordType,
			},
		},
	})
	if err != nil {
		logger.Error("failed to publish observability event",
			"tenant", tenantID, "recordType", recordType, "error", err)
		return
	}

	logger.Debug("published observability event",
		"tenant", tenantID, "recordType", recordType, "eventType", evt.EventType)
}

func strPtr(s string) *string { return &s }
