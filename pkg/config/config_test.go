package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
environment: test
server:
  port: 8080
history:
  backend: clickhouse
  batch_size: 100
  batch_timeout: 2s
clickhouse:
  host: localhost
  port: 9000
  database: gwp
cache:
  ttl: 30s
`

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return p
}

func TestLoad(t *testing.T) {
	c, err := Load(writeTemp(t, sample))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "test" {
		t.Fatalf("unexpected environment %q", c.Environment)
	}
	if c.History.Backend != "clickhouse" {
		t.Fatalf("unexpected backend %q", c.History.Backend)
	}
	if c.ClickHouse.Host != "localhost" {
		t.Fatalf("unexpected clickhouse host %q", c.ClickHouse.Host)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	if _, err := Load(writeTemp(t, "environment: test\nhistory:\n  backend: sqlite\n")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestValidateRequiresEnvironment(t *testing.T) {
	if _, err := Load(writeTemp(t, "history:\n  backend: none\n")); err == nil {
		t.Fatalf("expected error for missing environment")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("HISTORY_BACKEND", "none")
	t.Setenv("REDIS_ADDR", "redis:6379")

	c, err := LoadWithEnv(writeTemp(t, sample))
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if c.History.Backend != "none" {
		t.Fatalf("env override not applied, backend %q", c.History.Backend)
	}
	if !c.Cache.Redis.Enabled || c.Cache.Redis.Addr != "redis:6379" {
		t.Fatalf("redis env override not applied: %+v", c.Cache.Redis)
	}
}
