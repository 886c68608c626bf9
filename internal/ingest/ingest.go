// Package ingest consumes marketing impact events from an SQS queue.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/buildera-io/stratum/internal/metrics"
	"github.com/buildera-io/stratum/pkg/types"
)

// Polling defaults.
const (
	defaultWaitSeconds = 20
	maxBatchSize       = 10
)

// SQSAPI is the subset of the SQS client used by the Consumer.
type SQSAPI interface {
	ReceiveMessage(ctx context.Context, input *sqs.ReceiveMessageInput, opts ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput, opts ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// HandleFunc processes one decoded impact event. A non-nil error leaves the
// message on the queue for redelivery.
type HandleFunc func(ctx context.Context, ev types.ImpactEvent) error

// Consumer long-polls an SQS queue for JSON impact events and hands each
// one to the configured handler. Messages are deleted only after the
// handler succeeds; malformed payloads are deleted immediately since a
// retry cannot fix them.
type Consumer struct {
	client  SQSAPI
	handler HandleFunc
	logger  *slog.Logger
	config  types.IngestConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// ConsumerOption configures a Consumer.
type ConsumerOption func(*Consumer)

// WithSQSClient sets a custom SQS client (useful for testing).
func WithSQSClient(c SQSAPI) ConsumerOption {
	return func(cons *Consumer) { cons.client = c }
}

// New creates a Consumer for the configured queue.
func New(cfg types.IngestConfig, handler HandleFunc, logger *slog.Logger, opts ...ConsumerOption) (*Consumer, error) {
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("ingest queue URL required")
	}
	if handler == nil {
		return nil, fmt.Errorf("ingest handler required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Consumer{handler: handler, logger: logger, config: cfg}
	for _, o := range opts {
		o(c)
	}
	if c.client == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		c.client = sqs.NewFromConfig(awsCfg)
	}
	return c, nil
}

// Start begins the long-poll loop.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Info("impact ingest started", "queue", c.config.QueueURL)

		for {
			select {
			case <-ctx.Done():
				c.logger.Info("impact ingest stopping")
				return
			default:
			}
			c.poll(ctx)
		}
	}()
}

// Stop shuts the consumer down, waiting for the in-flight poll up to the
// context deadline.
func (c *Consumer) Stop(ctx context.Context) {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("impact ingest stopped")
	case <-ctx.Done():
		c.logger.Warn("impact ingest stop timed out")
	}
}

// poll receives one batch and processes each message.
func (c *Consumer) poll(ctx context.Context) {
	wait := c.config.WaitSeconds
	if wait <= 0 {
		wait = defaultWaitSeconds
	}

	out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(c.config.QueueURL),
		MaxNumberOfMessages: maxBatchSize,
		WaitTimeSeconds:     wait,
	})
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		c.logger.Error("receiving messages", "error", err)
		return
	}

	for _, msg := range out.Messages {
		body := aws.ToString(msg.Body)

		var ev types.ImpactEvent
		if err := json.Unmarshal([]byte(body), &ev); err != nil {
			metrics.EventsRejected.Add(1)
			c.logger.Warn("dropping malformed event", "error", err)
			c.delete(ctx, msg.ReceiptHandle)
			continue
		}
		if ev.TenantID == "" {
			metrics.EventsRejected.Add(1)
			c.logger.Warn("dropping event without tenant")
			c.delete(ctx, msg.ReceiptHandle)
			continue
		}

		if err := c.handler(ctx, ev); err != nil {
			// Leave the message for redelivery.
			c.logger.Error("handling event", "tenant", ev.TenantID, "type", ev.Type, "error", err)
			continue
		}

		metrics.EventsIngested.Add(1)
		c.delete(ctx, msg.ReceiptHandle)
	}
}

func (c *Consumer) delete(ctx context.Context, receipt *string) {
	_, err := c.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.config.QueueURL),
		ReceiptHandle: receipt,
	})
	if err != nil && ctx.Err() == nil {
		c.logger.Error("deleting message", "error", err)
	}
}
