//go:build integration

package dynamodb

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/buildera-io/stratum/internal/provider/providertest"
)

func setupTestProvider(t *testing.T) *DynamoDBProvider {
	t.Helper()
	ctx := context.Background()
	tableName := fmt.Sprintf("stratum-test-%d", time.Now().UnixNano())
	cfg := &Config{
		TableName:   tableName,
		Region:      "us-east-1",
		Endpoint:    "http://localhost:8000",
		CreateTable: true,
	}
	prov, err := New(cfg)
	if err != nil {
		t.Skipf("DynamoDB Local not available: %v", err)
	}
	if err := prov.Start(ctx); err != nil {
		t.Skipf("DynamoDB Local not available: %v", err)
	}
	t.Cleanup(func() {
		_, _ = prov.client.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{
			TableName: &tableName,
		})
	})
	return prov
}

func TestDynamoDBProviderConformance(t *testing.T) {
	providertest.RunAll(t, setupTestProvider(t))
}
