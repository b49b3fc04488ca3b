package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CHARGEHUB_POSTGRES_DSN", "postgres://localhost:5432/chargehub")
	t.Setenv("CHARGEHUB_JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddress() != ":8080" {
		t.Errorf("address = %q, want :8080", cfg.HTTPAddress())
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.TokenTTL() != time.Hour {
		t.Errorf("token ttl = %v, want 1h", cfg.TokenTTL())
	}
	if cfg.BroadcastInterval() != 5*time.Second {
		t.Errorf("broadcast interval = %v, want 5s", cfg.BroadcastInterval())
	}
	if cfg.ActiveSessionTTL() != 24*time.Hour {
		t.Errorf("session ttl = %v, want 24h", cfg.ActiveSessionTTL())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CHARGEHUB_POSTGRES_DSN", "postgres://db:5432/chargehub")
	t.Setenv("CHARGEHUB_JWT_SECRET", "test-secret")
	t.Setenv("CHARGEHUB_HTTP_PORT", "9090")
	t.Setenv("CHARGEHUB_REDIS_ADDR", "redis:6379")
	t.Setenv("CHARGEHUB_TOKEN_TTL_MINUTES", "15")
	t.Setenv("CHARGEHUB_BROADCAST_INTERVAL", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddress() != ":9090" {
		t.Errorf("address = %q, want :9090", cfg.HTTPAddress())
	}
	if cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis addr = %q, want redis:6379", cfg.Redis.Addr)
	}
	if cfg.TokenTTL() != 15*time.Minute {
		t.Errorf("token ttl = %v, want 15m", cfg.TokenTTL())
	}
	if cfg.BroadcastInterval() != 2*time.Second {
		t.Errorf("broadcast interval = %v, want 2s", cfg.BroadcastInterval())
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("CHARGEHUB_POSTGRES_DSN", "")
	t.Setenv("CHARGEHUB_JWT_SECRET", "test-secret")
	if _, err := Load(); err == nil {
		t.Error("expected error without database dsn")
	}

	t.Setenv("CHARGEHUB_POSTGRES_DSN", "postgres://db:5432/chargehub")
	t.Setenv("CHARGEHUB_JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("expected error without jwt secret")
	}
}
