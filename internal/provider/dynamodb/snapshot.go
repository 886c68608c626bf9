package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/buildera-io/stratum/pkg/types"
)

// NextSnapshotVersion atomically reserves the next version number using an
// ADD update on the tenant's VERSION counter item. DynamoDB serializes the
// increment, so concurrent callers never collide.
func (p *DynamoDBProvider) NextSnapshotVersion(ctx context.Context, tenantID string) (int64, error) {
	out, err := p.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: &p.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: versionSK()},
		},
		UpdateExpression: aws.String("ADD #v :one"),
		ExpressionAttributeNames: map[string]string{
			"#v": "version",
		},
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":one": &ddbtypes.AttributeValueMemberN{Value: "1"},
		},
		ReturnValues: ddbtypes.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("incrementing snapshot version: %w", err)
	}

	var version int64
	if err := attributevalue.Unmarshal(out.Attributes["version"], &version); err != nil {
		return 0, fmt.Errorf("unmarshaling snapshot version: %w", err)
	}
	return version, nil
}

// InsertSnapshot stores an immutable snapshot. A condition on the sort key
// rejects duplicate versions.
func (p *DynamoDBProvider) InsertSnapshot(ctx context.Context, snap types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &p.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":      &ddbtypes.AttributeValueMemberS{Value: tenantPK(snap.TenantID)},
			"SK":      &ddbtypes.AttributeValueMemberS{Value: snapshotSK(snap.Version)},
			"version": &ddbtypes.AttributeValueMemberN{Value: strconv.FormatInt(snap.Version, 10)},
			"data":    &ddbtypes.AttributeValueMemberS{Value: string(data)},
		},
		ConditionExpression: aws.String("attribute_not_exists(SK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return fmt.Errorf("snapshot version %d already exists for tenant %s", snap.Version, snap.TenantID)
		}
		return err
	}
	return nil
}

// LatestSnapshot returns the greatest-version snapshot, or nil when none.
func (p *DynamoDBProvider) LatestSnapshot(ctx context.Context, tenantID string) (*types.Snapshot, error) {
	snaps, err := p.ListSnapshots(ctx, tenantID, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

// ListSnapshots returns snapshots newest first, at most limit.
func (p *DynamoDBProvider) ListSnapshots(ctx context.Context, tenantID string, limit int) ([]types.Snapshot, error) {
	items, err := p.queryPrefix(ctx, tenantID, prefixSnapshot, limit, true)
	if err != nil {
		return nil, err
	}

	snaps := make([]types.Snapshot, 0, len(items))
	for _, item := range items {
		data, err := attributeStr(item, "data")
		if err != nil {
			p.logger.Warn("skipping corrupt snapshot entry", "error", err)
			continue
		}
		var snap types.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			p.logger.Warn("skipping corrupt snapshot data", "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}
