package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-at-least-16")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.TokenTTL != 60*time.Minute {
		t.Errorf("TokenTTL = %v, want 60m", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Errorf("BcryptCost = %d, want 12", cfg.BcryptCost)
	}
	if cfg.HashWorkers != 4 {
		t.Errorf("HashWorkers = %d, want 4", cfg.HashWorkers)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ADDR", ":9000")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("HASH_WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
	if cfg.HashWorkers != 8 {
		t.Errorf("HashWorkers = %d, want 8", cfg.HashWorkers)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() without JWT_SECRET should fail")
	}
}

func TestLoadShortSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too short")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with a short JWT_SECRET should fail")
	}
}

func TestLoadBadWorkers(t *testing.T) {
	setRequired(t)
	t.Setenv("HASH_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with HASH_WORKERS=0 should fail")
	}
}
