package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/buildera-io/stratum/internal/provider/redis"
	"github.com/buildera-io/stratum/pkg/types"
)

func TestNewProvider_Memory(t *testing.T) {
	cfg := &types.ProjectConfig{Provider: "memory"}
	p, err := newProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
}

func TestNewProvider_Redis(t *testing.T) {
	cfg := &types.ProjectConfig{
		Provider: "redis",
		Redis:    &redis.Config{Addr: "localhost:6379"},
	}
	p, err := newProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p == nil {
		t.Fatal("expected non-nil provider")
	}
}

func TestNewProvider_RedisMissingConfig(t *testing.T) {
	cfg := &types.ProjectConfig{Provider: "redis"}
	_, err := newProvider(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for missing redis config")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := &types.ProjectConfig{Provider: "etcd"}
	_, err := newProvider(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadGapDir_Valid(t *testing.T) {
	dir := t.TempDir()

	data := []byte(`- id: g1
  tenantId: t1
  key: no_brand
  variable: brand
  urgency: critical
  impactWeight: 8
`)
	if err := os.WriteFile(filepath.Join(dir, "seed.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	gaps, err := loadGapDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	if gaps[0].ID != "g1" || gaps[0].TenantID != "t1" {
		t.Errorf("unexpected gap %+v", gaps[0])
	}
	if gaps[0].Urgency != types.UrgencyCritical {
		t.Errorf("expected critical urgency, got %q", gaps[0].Urgency)
	}
	if gaps[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestLoadGapDir_MissingDir(t *testing.T) {
	gaps, err := loadGapDir("/nonexistent/path/xyzzy")
	if err != nil {
		t.Fatalf("expected nil error for missing dir, got %v", err)
	}
	if gaps != nil {
		t.Fatalf("expected nil gaps, got %v", gaps)
	}
}

func TestLoadGapDir_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(":\n  :\n  - [invalid"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadGapDir(dir)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadGapDir_IncompleteSeedsSkipped(t *testing.T) {
	dir := t.TempDir()
	// Seeds without an id or tenantId are dropped
	data := []byte("- key: no_brand\n- id: g1\n  key: orphan\n")
	if err := os.WriteFile(filepath.Join(dir, "partial.yaml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	gaps, err := loadGapDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 0 {
		t.Fatalf("expected 0 gaps, got %d", len(gaps))
	}
}

func TestLoadGapDir_NonYAMLFilesSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.json"), []byte(`{"foo":"bar"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	gaps, err := loadGapDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 0 {
		t.Fatalf("expected 0 gaps, got %d", len(gaps))
	}
}

func TestLoadGapDir_YMLExtension(t *testing.T) {
	dir := t.TempDir()
	data := []byte("- id: g1\n  tenantId: t1\n  key: no_channels\n")
	if err := os.WriteFile(filepath.Join(dir, "seed.yml"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	gaps, err := loadGapDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
}

func TestLoadGapDir_SubdirectoriesSkipped(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	gaps, err := loadGapDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 0 {
		t.Fatalf("expected 0 gaps, got %d", len(gaps))
	}
}
