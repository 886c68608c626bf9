package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/buildera-io/stratum/pkg/types"
)

// AppendMemory stores one strategic memory entry.
func (p *DynamoDBProvider) AppendMemory(ctx context.Context, entry types.MemoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling memory entry: %w", err)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &p.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":   &ddbtypes.AttributeValueMemberS{Value: tenantPK(entry.TenantID)},
			"SK":   &ddbtypes.AttributeValueMemberS{Value: memorySK(entry.ID)},
			"data": &ddbtypes.AttributeValueMemberS{Value: string(data)},
		},
	})
	return err
}

// ListMemory returns the newest memory entries first, at most limit.
func (p *DynamoDBProvider) ListMemory(ctx context.Context, tenantID string, limit int) ([]types.MemoryEntry, error) {
	items, err := p.queryPrefix(ctx, tenantID, prefixMemory, limit, true)
	if err != nil {
		return nil, err
	}

	entries := make([]types.MemoryEntry, 0, len(items))
	for _, item := range items {
		data, err := attributeStr(item, "data")
		if err != nil {
			p.logger.Warn("skipping corrupt memory entry", "error", err)
			continue
		}
		var entry types.MemoryEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			p.logger.Warn("skipping corrupt memory data", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LatestMemory returns the most recent memory entry, or nil when none exists.
func (p *DynamoDBProvider) LatestMemory(ctx context.Context, tenantID string) (*types.MemoryEntry, error) {
	entries, err := p.ListMemory(ctx, tenantID, 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// CountMemory returns the tenant's cumulative memory entry count.
func (p *DynamoDBProvider) CountMemory(ctx context.Context, tenantID string) (int, error) {
	total := 0
	var startKey map[string]ddbtypes.AttributeValue
	for {
		out, err := p.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              &p.tableName,
			KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":pk":     &ddbtypes.AttributeValueMemberS{Value: tenantPK(tenantID)},
				":prefix": &ddbtypes.AttributeValueMemberS{Value: prefixMemory},
			},
			Select:            ddbtypes.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}
