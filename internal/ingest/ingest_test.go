package ingest

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildera-io/stratum/pkg/types"
)

// fakeSQS serves one batch of messages, then empty batches.
type fakeSQS struct {
	mu       sync.Mutex
	messages []sqstypes.Message
	served   bool
	deleted  []string
}

func (f *fakeSQS) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.served {
		// Simulate long-poll wait so the loop does not spin.
		select {
		case <-ctx.Done():
		case <-time.After(10 * time.Millisecond):
		}
		return &sqs.ReceiveMessageOutput{}, nil
	}
	f.served = true
	return &sqs.ReceiveMessageOutput{Messages: f.messages}, nil
}

func (f *fakeSQS) DeleteMessage(_ context.Context, input *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, aws.ToString(input.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func msg(receipt, body string) sqstypes.Message {
	return sqstypes.Message{ReceiptHandle: aws.String(receipt), Body: aws.String(body)}
}

func TestConsumerProcessesAndDeletes(t *testing.T) {
	fake := &fakeSQS{messages: []sqstypes.Message{
		msg("r1", `{"tenant_id":"tenant-1","event_type":"post_published","event_source":"social","dimension":"brand"}`),
		msg("r2", `{"tenant_id":"tenant-1","event_type":"conversion","event_source":"crm","dimension":"acquisition"}`),
	}}

	var mu sync.Mutex
	var got []types.ImpactEvent
	handler := func(_ context.Context, ev types.ImpactEvent) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
		return nil
	}

	c, err := New(types.IngestConfig{QueueURL: "https://sqs.test/queue"}, handler, slog.Default(), WithSQSClient(fake))
	require.NoError(t, err)

	ctx := context.Background()
	c.Start(ctx)

	require.Eventually(t, func() bool {
		return len(fake.deletedHandles()) == 2
	}, time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	c.Stop(stopCtx)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, types.EventPostPublished, got[0].Type)
	assert.Equal(t, types.ImpactBrand, got[0].Dimension)
	assert.Equal(t, types.EventConversion, got[1].Type)
	assert.ElementsMatch(t, []string{"r1", "r2"}, fake.deletedHandles())
}

func TestConsumerDropsMalformedPayloads(t *testing.T) {
	fake := &fakeSQS{messages: []sqstypes.Message{
		msg("bad-json", `not json`),
		msg("no-tenant", `{"event_type":"conversion"}`),
	}}

	var handled int
	handler := func(_ context.Context, _ types.ImpactEvent) error {
		handled++
		return nil
	}

	c, err := New(types.IngestConfig{QueueURL: "https://sqs.test/queue"}, handler, slog.Default(), WithSQSClient(fake))
	require.NoError(t, err)

	ctx := context.Background()
	c.Start(ctx)

	// Malformed messages are deleted without reaching the handler.
	require.Eventually(t, func() bool {
		return len(fake.deletedHandles()) == 2
	}, time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	c.Stop(stopCtx)

	assert.Zero(t, handled)
}

func TestConsumerRetainsMessageOnHandlerError(t *testing.T) {
	fake := &fakeSQS{messages: []sqstypes.Message{
		msg("r1", `{"tenant_id":"tenant-1","event_type":"conversion","event_source":"crm","dimension":"acquisition"}`),
	}}

	handler := func(_ context.Context, _ types.ImpactEvent) error {
		return assert.AnError
	}

	c, err := New(types.IngestConfig{QueueURL: "https://sqs.test/queue"}, handler, slog.Default(), WithSQSClient(fake))
	require.NoError(t, err)

	ctx := context.Background()
	c.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	c.Stop(stopCtx)

	assert.Empty(t, fake.deletedHandles())
}

func TestNewConsumerValidation(t *testing.T) {
	_, err := New(types.IngestConfig{}, func(context.Context, types.ImpactEvent) error { return nil }, nil)
	assert.Error(t, err)

	_, err = New(types.IngestConfig{QueueURL: "https://sqs.test/queue"}, nil, nil)
	assert.Error(t, err)
}
