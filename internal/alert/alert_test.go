package alert

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildera-io/stratum/pkg/types"
)

func testAlert() types.Alert {
	return types.Alert{
		Level:     types.AlertError,
		TenantID:  "tenant-1",
		Risk:      types.RiskVisibilityBottleneck,
		Message:   "execution score dropped below threshold",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

type recordingSink struct {
	name  string
	calls atomic.Int64
	err   error
}

func (s *recordingSink) Send(_ context.Context, _ types.Alert) error {
	s.calls.Add(1)
	return s.err
}

func (s *recordingSink) Name() string { return s.name }

func TestDispatcherFanOut(t *testing.T) {
	ok := &recordingSink{name: "ok"}
	failing := &recordingSink{name: "failing", err: assert.AnError}
	second := &recordingSink{name: "second"}

	d := &Dispatcher{sinks: []Sink{ok, failing, second}, logger: slog.Default()}
	d.Dispatch(context.Background(), testAlert())

	// Every sink is attempted even when an earlier one fails.
	assert.Equal(t, int64(1), ok.calls.Load())
	assert.Equal(t, int64(1), failing.calls.Load())
	assert.Equal(t, int64(1), second.calls.Load())
}

func TestNewDispatcherUnknownType(t *testing.T) {
	_, err := NewDispatcher([]types.AlertConfig{{Type: "pager"}}, slog.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pager")
}

func TestFileSinkAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.log")
	sink, err := NewFileSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Send(context.Background(), testAlert()))
	second := testAlert()
	second.TenantID = "tenant-2"
	require.NoError(t, sink.Send(context.Background(), second))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []types.Alert
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var a types.Alert
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &a))
		got = append(got, a)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, got, 2)
	assert.Equal(t, "tenant-1", got[0].TenantID)
	assert.Equal(t, "tenant-2", got[1].TenantID)
	assert.Equal(t, types.RiskVisibilityBottleneck, got[0].Risk)
}

func TestWebhookSinkPostsAlert(t *testing.T) {
	var gotAuth string
	var gotBody types.Alert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, "secret-token")
	require.NoError(t, sink.Send(context.Background(), testAlert()))

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "tenant-1", gotBody.TenantID)
	assert.Equal(t, types.AlertError, gotBody.Level)
}

func TestWebhookSinkBreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := NewWebhookSink(srv.URL, "")
	for i := 0; i < 8; i++ {
		assert.Error(t, sink.Send(context.Background(), testAlert()))
	}

	// The breaker trips after five consecutive failures, so later sends
	// never reach the endpoint.
	assert.Equal(t, int64(5), hits.Load())
}

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, input *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{}, nil
}

func TestSNSSinkPublishes(t *testing.T) {
	fake := &fakeSNS{}
	sink, err := NewSNSSink("arn:aws:sns:us-east-1:123456789012:alerts", "us-east-1", WithSNSClient(fake))
	require.NoError(t, err)

	require.NoError(t, sink.Send(context.Background(), testAlert()))
	require.NotNil(t, fake.input)
	assert.Equal(t, "arn:aws:sns:us-east-1:123456789012:alerts", *fake.input.TopicArn)
	assert.Equal(t, "[error] tenant-1", *fake.input.Subject)

	var a types.Alert
	require.NoError(t, json.Unmarshal([]byte(*fake.input.Message), &a))
	assert.Equal(t, types.RiskVisibilityBottleneck, a.Risk)
}

func TestNewSNSSinkRequiresTopic(t *testing.T) {
	_, err := NewSNSSink("", "us-east-1")
	assert.Error(t, err)
}

type fakeEventBridge struct {
	input *eventbridge.PutEventsInput
}

func (f *fakeEventBridge) PutEvents(_ context.Context, input *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.input = input
	return &eventbridge.PutEventsOutput{FailedEntryCount: 0}, nil
}

func TestEventBridgeSinkPutsEvent(t *testing.T) {
	fake := &fakeEventBridge{}
	sink, err := NewEventBridgeSink("stratum-bus", "us-east-1", WithEventBridgeClient(fake))
	require.NoError(t, err)

	require.NoError(t, sink.Send(context.Background(), testAlert()))
	require.NotNil(t, fake.input)
	require.Len(t, fake.input.Entries, 1)

	entry := fake.input.Entries[0]
	assert.Equal(t, "stratum", *entry.Source)
	assert.Equal(t, "stratum.risk_raised", *entry.DetailType)
	assert.Equal(t, "stratum-bus", *entry.EventBusName)

	var a types.Alert
	require.NoError(t, json.Unmarshal([]byte(*entry.Detail), &a))
	assert.Equal(t, "tenant-1", a.TenantID)
}
