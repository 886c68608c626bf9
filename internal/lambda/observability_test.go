package lambda

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	published []*awssns.PublishInput
}

func (f *fakeSNS) Publish(_ context.Context, input *awssns.PublishInput, _ ...func(*awssns.Options)) (*awssns.PublishOutput, error) {
	f.published = append(f.published, input)
	return &awssns.PublishOutput{}, nil
}

func streamRecord(dataJSON string) events.DynamoDBEventRecord {
	return events.DynamoDBEventRecord{
		EventID:   "ev-1",
		EventName: "INSERT",
		Change: events.DynamoDBStreamRecord{
			NewImage: map[string]events.DynamoDBAttributeValue{
				"data": events.NewStringAttribute(dataJSON),
			},
		},
	}
}

func TestPublishObservabilityEvent_Impact(t *testing.T) {
	sns := &fakeSNS{}
	d := &Deps{SNSClient: sns, ObservabilityTopicARN: "arn:aws:sns:us-east-1:1:obs"}

	rec := streamRecord(`{"event_type":"conversion","tenant_id":"t1"}`)
	PublishObservabilityEvent(t.Context(), d, slog.Default(), "TENANT#t1", "IMPACT#01ABC", rec)

	require.Len(t, sns.published, 1)
	var evt ObservabilityEvent
	require.NoError(t, json.Unmarshal([]byte(*sns.published[0].Message), &evt))
	assert.Equal(t, "IMPACT", evt.RecordType)
	assert.Equal(t, "conversion", evt.EventType)
	assert.Equal(t, "t1", evt.TenantID)
}

func TestPublishObservabilityEvent_SkipsInternalRecords(t *testing.T) {
	sns := &fakeSNS{}
	d := &Deps{SNSClient: sns, ObservabilityTopicARN: "arn:aws:sns:us-east-1:1:obs"}

	for _, sk := range []string{"CONFIG", "VERSION", "LOCK#x"} {
		PublishObservabilityEvent(t.Context(), d, slog.Default(), "TENANT#t1", sk, streamRecord(`{}`))
	}
	assert.Empty(t, sns.published)
}

func TestPublishObservabilityEvent_SkipsNonTenantPK(t *testing.T) {
	sns := &fakeSNS{}
	d := &Deps{SNSClient: sns, ObservabilityTopicARN: "arn:aws:sns:us-east-1:1:obs"}

	PublishObservabilityEvent(t.Context(), d, slog.Default(), "OTHER#x", "SNAPSHOT#000000000001", streamRecord(`{}`))
	assert.Empty(t, sns.published)
}

func TestPublishObservabilityEvent_NoTopicConfigured(t *testing.T) {
	d := &Deps{}
	// Must not panic without a client.
	PublishObservabilityEvent(t.Context(), d, slog.Default(), "TENANT#t1", "SNAPSHOT#000000000001", streamRecord(`{}`))
}
