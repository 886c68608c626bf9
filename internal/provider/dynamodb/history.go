package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/buildera-io/stratum/pkg/types"
)

// AppendScoreHistory stores one scoring-cycle history row.
func (p *DynamoDBProvider) AppendScoreHistory(ctx context.Context, entry types.ScoreHistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &p.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":   &ddbtypes.AttributeValueMemberS{Value: tenantPK(entry.TenantID)},
			"SK":   &ddbtypes.AttributeValueMemberS{Value: historySK(entry.CreatedAt)},
			"data": &ddbtypes.AttributeValueMemberS{Value: string(data)},
		},
	})
	return err
}

// ListScoreHistory returns the newest history rows first, at most limit.
func (p *DynamoDBProvider) ListScoreHistory(ctx context.Context, tenantID string, limit int) ([]types.ScoreHistoryEntry, error) {
	items, err := p.queryPrefix(ctx, tenantID, prefixHistory, limit, true)
	if err != nil {
		return nil, err
	}

	entries := make([]types.ScoreHistoryEntry, 0, len(items))
	for _, item := range items {
		data, err := attributeStr(item, "data")
		if err != nil {
			p.logger.Warn("skipping corrupt history entry", "error", err)
			continue
		}
		var entry types.ScoreHistoryEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			p.logger.Warn("skipping corrupt history data", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
