package lambda

import "time"

// CycleRequest is the input to the cycler Lambda. An empty TenantID means
// every registered tenant is scored.
type CycleRequest struct {
	TenantID string `json:"tenantId,omitempty"`
}

// CycleResponse is the output of the cycler Lambda.
type CycleResponse struct {
	TenantsScored int      `json:"tenantsScored"`
	Failed        []string `json:"failed,omitempty"`
}

// ObservabilityEvent is the normalized payload published to the
// observability SNS topic for eligible DynamoDB stream records.
type ObservabilityEvent struct {
	EventID    string    `json:"eventId"`
	RecordType string    `json:"recordType"`
	EventType  string    `json:"eventType"`
	TenantID   string    `json:"tenantId"`
	Version    string    `json:"version,omitempty"`
	ActionType string    `json:"actionType,omitempty"`
	Stage      string    `json:"stage,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
