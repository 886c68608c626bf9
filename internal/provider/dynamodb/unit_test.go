package dynamodb

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/buildera-io/stratum/pkg/types"
)

// mockDDB is a minimal mock of the DDBAPI interface for unit testing.
type mockDDB struct {
	putItemFn       func(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	getItemFn       func(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	queryFn         func(ctx context.Context, input *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	updateItemFn    func(ctx context.Context, input *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	deleteItemFn    func(ctx context.Context, input *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	describeTableFn func(ctx context.Context, input *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	createTableFn   func(ctx context.Context, input *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	deleteTableFn   func(ctx context.Context, input *dynamodb.DeleteTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error)
}

func (m *mockDDB) PutItem(ctx context.Context, input *dynamodb.PutItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.putItemFn != nil {
		return m.putItemFn(ctx, input, opts...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDB) GetItem(ctx context.Context, input *dynamodb.GetItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.getItemFn != nil {
		return m.getItemFn(ctx, input, opts...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDDB) Query(ctx context.Context, input *dynamodb.QueryInput, opts ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, input, opts...)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (m *mockDDB) UpdateItem(ctx context.Context, input *dynamodb.UpdateItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if m.updateItemFn != nil {
		return m.updateItemFn(ctx, input, opts...)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (m *mockDDB) DeleteItem(ctx context.Context, input *dynamodb.DeleteItemInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if m.deleteItemFn != nil {
		return m.deleteItemFn(ctx, input, opts...)
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDDB) DescribeTable(ctx context.Context, input *dynamodb.DescribeTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if m.describeTableFn != nil {
		return m.describeTableFn(ctx, input, opts...)
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func (m *mockDDB) CreateTable(ctx context.Context, input *dynamodb.CreateTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if m.createTableFn != nil {
		return m.createTableFn(ctx, input, opts...)
	}
	return &dynamodb.CreateTableOutput{}, nil
}

func (m *mockDDB) DeleteTable(ctx context.Context, input *dynamodb.DeleteTableInput, opts ...func(*dynamodb.Options)) (*dynamodb.DeleteTableOutput, error) {
	if m.deleteTableFn != nil {
		return m.deleteTableFn(ctx, input, opts...)
	}
	return &dynamodb.DeleteTableOutput{}, nil
}

func newTestProvider(mock *mockDDB) *DynamoDBProvider {
	return &DynamoDBProvider{
		client:    mock,
		tableName: "test-table",
		logger:    slog.Default(),
	}
}

// ---------------------------------------------------------------------------
// Tenant marshaling tests
// ---------------------------------------------------------------------------

func TestRegisterTenant_MarshaledData(t *testing.T) {
	var captured *dynamodb.PutItemInput
	mock := &mockDDB{
		putItemFn: func(_ context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			captured = input
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	p := newTestProvider(mock)

	cfg := types.TenantConfig{ID: "acme", Name: "Acme Co", BusinessModel: types.BusinessModel("B2B")}
	if err := p.RegisterTenant(context.Background(), cfg); err != nil {
		t.Fatalf("RegisterTenant: %v", err)
	}

	if captured == nil {
		t.Fatal("PutItem was not called")
	}
	if *captured.TableName != "test-table" {
		t.Errorf("table = %q, want %q", *captured.TableName, "test-table")
	}

	pk := captured.Item["PK"].(*ddbtypes.AttributeValueMemberS).Value
	sk := captured.Item["SK"].(*ddbtypes.AttributeValueMemberS).Value
	if pk != "TENANT#acme" {
		t.Errorf("PK = %q, want %q", pk, "TENANT#acme")
	}
	if sk != "CONFIG" {
		t.Errorf("SK = %q, want %q", sk, "CONFIG")
	}

	dataStr := captured.Item["data"].(*ddbtypes.AttributeValueMemberS).Value
	var roundTrip types.TenantConfig
	if err := json.Unmarshal([]byte(dataStr), &roundTrip); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if roundTrip.Name != "Acme Co" {
		t.Errorf("name = %q, want %q", roundTrip.Name, "Acme Co")
	}
	if roundTrip.BusinessModel != types.BusinessModel("B2B") {
		t.Errorf("businessModel = %q, want %q", roundTrip.BusinessModel, types.BusinessModel("B2B"))
	}
}

func TestGetTenant_NotFoundReturnsNil(t *testing.T) {
	mock := &mockDDB{
		getItemFn: func(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: nil}, nil
		},
	}
	p := newTestProvider(mock)

	got, err := p.GetTenant(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("GetTenant: %v", err)
	}
	if got != nil {
		t.Errorf("tenant = %+v, want nil", got)
	}
}

// ---------------------------------------------------------------------------
// Snapshot version counter tests
// ---------------------------------------------------------------------------

func TestNextSnapshotVersion_AtomicAdd(t *testing.T) {
	var captured *dynamodb.UpdateItemInput
	mock := &mockDDB{
		updateItemFn: func(_ context.Context, input *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			captured = input
			return &dynamodb.UpdateItemOutput{
				Attributes: map[string]ddbtypes.AttributeValue{
					"version": &ddbtypes.AttributeValueMemberN{Value: "7"},
				},
			}, nil
		},
	}
	p := newTestProvider(mock)

	version, err := p.NextSnapshotVersion(context.Background(), "acme")
	if err != nil {
		t.Fatalf("NextSnapshotVersion: %v", err)
	}
	if version != 7 {
		t.Errorf("version = %d, want 7", version)
	}

	if captured == nil {
		t.Fatal("UpdateItem was not called")
	}
	pk := captured.Key["PK"].(*ddbtypes.AttributeValueMemberS).Value
	sk := captured.Key["SK"].(*ddbtypes.AttributeValueMemberS).Value
	if pk != "TENANT#acme" {
		t.Errorf("PK = %q, want %q", pk, "TENANT#acme")
	}
	if sk != "VERSION" {
		t.Errorf("SK = %q, want %q", sk, "VERSION")
	}
	if !strings.HasPrefix(*captured.UpdateExpression, "ADD") {
		t.Errorf("update expression = %q, want ADD counter", *captured.UpdateExpression)
	}
}

func TestInsertSnapshot_RejectsDuplicateVersion(t *testing.T) {
	mock := &mockDDB{
		putItemFn: func(_ context.Context, _ *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, &ddbtypes.ConditionalCheckFailedException{}
		},
	}
	p := newTestProvider(mock)

	err := p.InsertSnapshot(context.Background(), types.Snapshot{TenantID: "acme", Version: 3})
	if err == nil {
		t.Fatal("expected error for duplicate version")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("err = %v, want duplicate-version message", err)
	}
}

func TestLatestSnapshot_QueriesDescendingLimitOne(t *testing.T) {
	snap := types.Snapshot{TenantID: "acme", Version: 12, Stage: types.StageGrowth, CreatedAt: time.Now().UTC()}
	data, _ := json.Marshal(snap)

	var captured *dynamodb.QueryInput
	mock := &mockDDB{
		queryFn: func(_ context.Context, input *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			captured = input
			return &dynamodb.QueryOutput{
				Items: []map[string]ddbtypes.AttributeValue{{
					"data": &ddbtypes.AttributeValueMemberS{Value: string(data)},
				}},
			}, nil
		},
	}
	p := newTestProvider(mock)

	got, err := p.LatestSnapshot(context.Background(), "acme")
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if got == nil || got.Version != 12 {
		t.Fatalf("snapshot = %+v, want version 12", got)
	}

	if captured == nil {
		t.Fatal("Query was not called")
	}
	if *captured.ScanIndexForward {
		t.Error("expected descending scan for latest snapshot")
	}
	if *captured.Limit != 1 {
		t.Errorf("limit = %d, want 1", *captured.Limit)
	}
}

// ---------------------------------------------------------------------------
// Impact patch tests
// ---------------------------------------------------------------------------

func TestUpdateImpact_PatchesScoreFieldsOnly(t *testing.T) {
	rec := types.ImpactRecord{
		ID:        "01HXYZ",
		TenantID:  "acme",
		EventType: types.EventOnboardingStep,
		Source:    "onboarding",
		Dimension: types.ImpactAcquisition,
		Evidence:  map[string]any{"step": "connectSocial"},
	}
	data, _ := json.Marshal(rec)

	var written *dynamodb.PutItemInput
	mock := &mockDDB{
		getItemFn: func(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{
				Item: map[string]ddbtypes.AttributeValue{
					"data": &ddbtypes.AttributeValueMemberS{Value: string(data)},
				},
			}, nil
		},
		putItemFn: func(_ context.Context, input *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			written = input
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	p := newTestProvider(mock)

	patch := types.ImpactPatch{
		ScoreBefore:    42,
		ScoreAfter:     45,
		Delta:          3,
		DimensionDelta: map[types.ImpactDimension]float64{types.ImpactAcquisition: 3},
	}
	if err := p.UpdateImpact(context.Background(), "acme", "01HXYZ", patch); err != nil {
		t.Fatalf("UpdateImpact: %v", err)
	}

	if written == nil {
		t.Fatal("PutItem was not called")
	}
	var updated types.ImpactRecord
	dataStr := written.Item["data"].(*ddbtypes.AttributeValueMemberS).Value
	if err := json.Unmarshal([]byte(dataStr), &updated); err != nil {
		t.Fatalf("unmarshal patched data: %v", err)
	}
	if updated.ScoreAfter != 45 || updated.Delta != 3 {
		t.Errorf("patched scores = %+v, want after=45 delta=3", updated)
	}
	// Non-score fields survive the patch.
	if updated.EventType != types.EventOnboardingStep {
		t.Errorf("eventType = %q, want %q", updated.EventType, types.EventOnboardingStep)
	}
	if updated.Evidence["step"] != "connectSocial" {
		t.Errorf("evidence = %+v, want step preserved", updated.Evidence)
	}
}

func TestUpdateImpact_MissingRow(t *testing.T) {
	mock := &mockDDB{
		getItemFn: func(_ context.Context, _ *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{Item: nil}, nil
		},
	}
	p := newTestProvider(mock)

	err := p.UpdateImpact(context.Background(), "acme", "missing", types.ImpactPatch{})
	if err == nil {
		t.Fatal("expected error for missing impact row")
	}
}

// ---------------------------------------------------------------------------
// Gap filter tests
// ---------------------------------------------------------------------------

func TestListGaps_FiltersResolved(t *testing.T) {
	resolvedAt := time.Now().UTC()
	open := types.Gap{ID: "g1", TenantID: "acme", Key: "no_value_prop", Urgency: types.UrgencyCritical}
	closed := types.Gap{ID: "g2", TenantID: "acme", Key: "no_channels", ResolvedAt: &resolvedAt}
	openData, _ := json.Marshal(open)
	closedData, _ := json.Marshal(closed)

	mock := &mockDDB{
		queryFn: func(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{
				Items: []map[string]ddbtypes.AttributeValue{
					{"data": &ddbtypes.AttributeValueMemberS{Value: string(openData)}},
					{"data": &ddbtypes.AttributeValueMemberS{Value: string(closedData)}},
				},
			}, nil
		},
	}
	p := newTestProvider(mock)

	active, err := p.ListGaps(context.Background(), "acme", false)
	if err != nil {
		t.Fatalf("ListGaps: %v", err)
	}
	if len(active) != 1 || active[0].ID != "g1" {
		t.Errorf("active gaps = %+v, want only g1", active)
	}

	all, err := p.ListGaps(context.Background(), "acme", true)
	if err != nil {
		t.Fatalf("ListGaps(includeResolved): %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all gaps = %d, want 2", len(all))
	}
}

func TestListMemory_SkipsCorruptEntries(t *testing.T) {
	good := types.MemoryEntry{ID: "01A", TenantID: "acme", ActionType: "marketing_conversion"}
	goodData, _ := json.Marshal(good)

	mock := &mockDDB{
		queryFn: func(_ context.Context, _ *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{
				Items: []map[string]ddbtypes.AttributeValue{
					{"data": &ddbtypes.AttributeValueMemberS{Value: "not-json{{{"}},
					{"data": &ddbtypes.AttributeValueMemberS{Value: string(goodData)}},
				},
			}, nil
		},
	}
	p := newTestProvider(mock)

	entries, err := p.ListMemory(context.Background(), "acme", 0)
	if err != nil {
		t.Fatalf("ListMemory: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "01A" {
		t.Errorf("entries = %+v, want only the valid row", entries)
	}
}
