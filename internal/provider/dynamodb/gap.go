package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/buildera-io/stratum/pkg/types"
)

// PutGap upserts a gap keyed by id.
func (p *DynamoDBProvider) PutGap(ctx context.Context, gap types.Gap) error {
	data, err := json.Marshal(gap)
	if err != nil {
		return fmt.Errorf("marshaling gap: %w", err)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &p.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":   &ddbtypes.AttributeValueMemberS{Value: tenantPK(gap.TenantID)},
			"SK":   &ddbtypes.AttributeValueMemberS{Value: gapSK(gap.ID)},
			"data": &ddbtypes.AttributeValueMemberS{Value: string(data)},
		},
	})
	return err
}

// ListGaps returns the tenant's gaps. Resolved gaps are filtered out unless
// includeResolved is set.
func (p *DynamoDBProvider) ListGaps(ctx context.Context, tenantID string, includeResolved bool) ([]types.Gap, error) {
	items, err := p.queryPrefix(ctx, tenantID, prefixGap, 0, false)
	if err != nil {
		return nil, err
	}

	gaps := make([]types.Gap, 0, len(items))
	for _, item := range items {
		data, err := attributeStr(item, "data")
		if err != nil {
			p.logger.Warn("skipping corrupt gap entry", "error", err)
			continue
		}
		var gap types.Gap
		if err := json.Unmarshal([]byte(data), &gap); err != nil {
			p.logger.Warn("skipping corrupt gap data", "error", err)
			continue
		}
		if gap.Resolved() && !includeResolved {
			continue
		}
		gaps = append(gaps, gap)
	}
	return gaps, nil
}
