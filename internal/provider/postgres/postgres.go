package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buildera-io/stratum/internal/provider"
)

// Compile-time interface satisfaction check.
var _ provider.Provider = (*PostgresProvider)(nil)

// Config holds Postgres connection settings. DSN may be resolved from
// Secrets Manager by the config loader before the provider is built.
type Config struct {
	DSN     string `yaml:"dsn"`
	Migrate bool   `yaml:"migrate,omitempty"`
}

// PostgresProvider implements the Provider interface backed by PostgreSQL.
type PostgresProvider struct {
	pool    *pgxpool.Pool
	logger  *slog.Logger
	migrate bool
}

// New creates a new PostgresProvider and verifies the connection.
func New(ctx context.Context, cfg *Config) (*PostgresProvider, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &PostgresProvider{
		pool:    pool,
		logger:  slog.Default(),
		migrate: cfg.Migrate,
	}, nil
}

// NewFromPool creates a PostgresProvider from an existing pool (useful for
// testing).
func NewFromPool(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool, logger: slog.Default()}
}

// Start optionally runs the schema DDL, then pings.
func (p *PostgresProvider) Start(ctx context.Context) error {
	if p.migrate {
		if err := p.Migrate(ctx); err != nil {
			return err
		}
	}
	return p.Ping(ctx)
}

// Stop closes the connection pool.
func (p *PostgresProvider) Stop(_ context.Context) error {
	p.pool.Close()
	return nil
}

// Ping checks connectivity to the database.
func (p *PostgresProvider) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

// Migrate runs the schema DDL to create tables and indexes.
func (p *PostgresProvider) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaDDL)
	if err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}
