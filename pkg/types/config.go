package types

// ProjectConfig is the parsed stratum.yaml project configuration.
// Provider-specific sections are decoded in a second pass by
// internal/config into their concrete types and stored here as opaque
// values to avoid an import cycle between pkg/types and the providers.
type ProjectConfig struct {
	Provider string `yaml:"provider"` // memory | redis | dynamodb | postgres

	// Provider-specific sections, populated by internal/config.
	Redis    interface{} `yaml:"-"`
	DynamoDB interface{} `yaml:"-"`
	Postgres interface{} `yaml:"-"`

	Server    ServerConfig    `yaml:"server"`
	Cycle     CycleConfig     `yaml:"cycle"`
	Alerts    []AlertConfig   `yaml:"alerts"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Secrets   SecretsConfig   `yaml:"secrets"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr   string `yaml:"addr"`
	APIKey string `yaml:"apiKey"`
}

// CycleConfig configures the periodic scoring-cycle scheduler.
type CycleConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Interval    string `yaml:"interval"`    // Go duration, default 1h
	Concurrency int    `yaml:"concurrency"` // max tenants scored in parallel, default 4
}

// AlertConfig configures one alert sink.
type AlertConfig struct {
	Type string `yaml:"type"` // console | file | webhook | sns | eventbridge

	// file
	Path string `yaml:"path,omitempty"`

	// webhook
	URL         string `yaml:"url,omitempty"`
	BearerToken string `yaml:"bearerToken,omitempty"`

	// sns
	TopicARN string `yaml:"topicArn,omitempty"`

	// eventbridge
	EventBus string `yaml:"eventBus,omitempty"`

	// aws sinks
	Region string `yaml:"region,omitempty"`
}

// IngestConfig configures the SQS impact-event consumer.
type IngestConfig struct {
	Enabled  bool   `yaml:"enabled"`
	QueueURL string `yaml:"queueUrl"`
	Region   string `yaml:"region,omitempty"`
	// WaitSeconds is the SQS long-poll wait, default 20.
	WaitSeconds int32 `yaml:"waitSeconds,omitempty"`
}

// TelemetryConfig configures optional OpenTelemetry export.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"` // OTLP gRPC endpoint, e.g. localhost:4317
	Insecure bool   `yaml:"insecure"`
}

// SecretsConfig names AWS Secrets Manager secrets resolved at load time.
type SecretsConfig struct {
	Region string `yaml:"region,omitempty"`
	// PostgresDSN is the ARN or name of a secret holding the Postgres DSN.
	PostgresDSN string `yaml:"postgresDsn,omitempty"`
	// WebhookToken is the ARN or name of a secret holding the webhook bearer token.
	WebhookToken string `yaml:"webhookToken,omitempty"`
}
