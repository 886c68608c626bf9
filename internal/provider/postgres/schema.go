// Package postgres implements the Provider interface using PostgreSQL via pgx.
package postgres

const schemaDDL = `
CREATE TABLE IF NOT EXISTS tenants (
    id          TEXT PRIMARY KEY,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS company_score_history (
    id          BIGSERIAL PRIMARY KEY,
    tenant_id   TEXT NOT NULL,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_score_history_tenant_created
    ON company_score_history (tenant_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS company_strategic_memory (
    id          TEXT PRIMARY KEY,
    tenant_id   TEXT NOT NULL,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_strategic_memory_tenant_created
    ON company_strategic_memory (tenant_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS strategic_state_versions (
    tenant_id   TEXT PRIMARY KEY,
    version     BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS company_strategic_state_snapshots (
    tenant_id   TEXT NOT NULL,
    version     BIGINT NOT NULL,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (tenant_id, version)
);

CREATE TABLE IF NOT EXISTS marketing_strategic_impact (
    id          TEXT PRIMARY KEY,
    tenant_id   TEXT NOT NULL,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_marketing_impact_tenant_created
    ON marketing_strategic_impact (tenant_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS company_strategic_gaps (
    id          TEXT PRIMARY KEY,
    tenant_id   TEXT NOT NULL,
    resolved_at TIMESTAMPTZ,
    data        JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_strategic_gaps_tenant
    ON company_strategic_gaps (tenant_id);
`
