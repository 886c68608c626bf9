package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/buildera-io/stratum/pkg/types"
)

// InsertImpact stores one impact ledger row.
func (p *DynamoDBProvider) InsertImpact(ctx context.Context, rec types.ImpactRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling impact: %w", err)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &p.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":   &ddbtypes.AttributeValueMemberS{Value: tenantPK(rec.TenantID)},
			"SK":   &ddbtypes.AttributeValueMemberS{Value: impactSK(rec.ID)},
			"data": &ddbtypes.AttributeValueMemberS{Value: string(data)},
		},
	})
	return err
}

// UpdateImpact applies a partial patch to an existing ledger row. The patch
// only touches the score fields; everything else on the row is preserved.
func (p *DynamoDBProvider) UpdateImpact(ctx context.Context, tenantID, id string, patch types.ImpactPatch) error {
	out, err := p.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &p.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: impactSK(id)},
		},
	})
	if err != nil {
		return err
	}
	if out.Item == nil {
		return fmt.Errorf("impact %q not found", id)
	}

	data, err := attributeStr(out.Item, "data")
	if err != nil {
		return err
	}
	var rec types.ImpactRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return err
	}

	rec.ScoreBefore = patch.ScoreBefore
	rec.ScoreAfter = patch.ScoreAfter
	rec.Delta = patch.Delta
	rec.DimensionDelta = patch.DimensionDelta

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling patched impact: %w", err)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &p.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":   &ddbtypes.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK":   &ddbtypes.AttributeValueMemberS{Value: impactSK(id)},
			"data": &ddbtypes.AttributeValueMemberS{Value: string(updated)},
		},
	})
	return err
}

// ListImpacts returns ledger rows newest first, at most limit.
func (p *DynamoDBProvider) ListImpacts(ctx context.Context, tenantID string, limit int) ([]types.ImpactRecord, error) {
	items, err := p.queryPrefix(ctx, tenantID, prefixImpact, limit, true)
	if err != nil {
		return nil, err
	}

	recs := make([]types.ImpactRecord, 0, len(items))
	for _, item := range items {
		data, err := attributeStr(item, "data")
		if err != nil {
			p.logger.Warn("skipping corrupt impact entry", "error", err)
			continue
		}
		var rec types.ImpactRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			p.logger.Warn("skipping corrupt impact data", "error", err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
