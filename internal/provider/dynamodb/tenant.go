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

// RegisterTenant stores a tenant configuration.
func (p *DynamoDBProvider) RegisterTenant(ctx context.Context, cfg types.TenantConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling tenant: %w", err)
	}

	_, err = p.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &p.tableName,
		Item: map[string]ddbtypes.AttributeValue{
			"PK":     &ddbtypes.AttributeValueMemberS{Value: tenantPK(cfg.ID)},
			"SK":     &ddbtypes.AttributeValueMemberS{Value: configSK()},
			"GSI1PK": &ddbtypes.AttributeValueMemberS{Value: prefixType + "tenant"},
			"GSI1SK": &ddbtypes.AttributeValueMemberS{Value: tenantPK(cfg.ID)},
			"data":   &ddbtypes.AttributeValueMemberS{Value: string(data)},
		},
	})
	return err
}

// GetTenant retrieves a tenant configuration, or nil when unknown.
func (p *DynamoDBProvider) GetTenant(ctx context.Context, tenantID string) (*types.TenantConfig, error) {
	out, err := p.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &p.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: configSK()},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}

	data, err := attributeStr(out.Item, "data")
	if err != nil {
		return nil, err
	}
	var cfg types.TenantConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ListTenants returns all registered tenants via GSI1.
func (p *DynamoDBProvider) ListTenants(ctx context.Context) ([]types.TenantConfig, error) {
	out, err := p.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &p.tableName,
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :pk"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":pk": &ddbtypes.AttributeValueMemberS{Value: prefixType + "tenant"},
		},
	})
	if err != nil {
		return nil, err
	}

	var tenants []types.TenantConfig
	for _, item := range out.Items {
		data, err := attributeStr(item, "data")
		if err != nil {
			p.logger.Warn("skipping corrupt tenant entry", "error", err)
			continue
		}
		var cfg types.TenantConfig
		if err := json.Unmarshal([]byte(data), &cfg); err != nil {
			p.logger.Warn("skipping corrupt tenant data", "error", err)
			continue
		}
		tenants = append(tenants, cfg)
	}
	return tenants, nil
}

// DeleteTenant removes a tenant configuration. The tenant's history,
// snapshots, and ledger rows are left in place for audit.
func (p *DynamoDBProvider) DeleteTenant(ctx context.Context, tenantID string) error {
	_, err := p.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &p.tableName,
		Key: map[string]ddbtypes.AttributeValue{
			"PK": &ddbtypes.AttributeValueMemberS{Value: tenantPK(tenantID)},
			"SK": &ddbtypes.AttributeValueMemberS{Value: configSK()},
		},
	})
	return err
}
