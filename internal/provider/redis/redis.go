// Package redis implements the Provider interface using Redis/Valkey.
package redis

import (
	"context"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/buildera-io/stratum/internal/provider"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*RedisProvider)(nil)

// Config holds Redis/Valkey connection and store settings.
type Config struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password,omitempty"`
	DB        int    `yaml:"db,omitempty"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// RedisProvider implements the Provider interface backed by Redis/Valkey.
type RedisProvider struct {
	client *goredis.Client
	prefix string
	logger *slog.Logger
}

// New creates a new RedisProvider.
func New(cfg *Config) *RedisProvider {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "stratum:"
	}

	return &RedisProvider{
		client: client,
		prefix: prefix,
		logger: slog.Default(),
	}
}

// NewFromClient creates a RedisProvider from an existing client (useful for testing).
func NewFromClient(client *goredis.Client, prefix string) *RedisProvider {
	if prefix == "" {
		prefix = "stratum:"
	}
	return &RedisProvider{
		client: client,
		prefix: prefix,
		logger: slog.Default(),
	}
}

// Start initializes the provider connection.
func (p *RedisProvider) Start(ctx context.Context) error {
	return p.Ping(ctx)
}

// Stop closes the provider connection.
func (p *RedisProvider) Stop(_ context.Context) error {
	return p.client.Close()
}

// Ping checks connectivity to the Redis server.
func (p *RedisProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Client returns the underlying Redis client (for advanced usage/testing).
func (p *RedisProvider) Client() *goredis.Client {
	return p.client
}
