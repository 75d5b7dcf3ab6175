package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("default port should be 8080, got %d", cfg.Port)
	}
	if cfg.Store != "memory" {
		t.Fatalf("default store should be memory, got %q", cfg.Store)
	}
	if cfg.RoomTTL != 24*time.Hour {
		t.Fatalf("default room TTL should be 24h, got %v", cfg.RoomTTL)
	}
	if cfg.AutoJoinCreator {
		t.Fatalf("creator autojoin should default off")
	}
	if cfg.MaxFrameBytes != 1<<20 {
		t.Fatalf("default frame cap should be 1MiB, got %d", cfg.MaxFrameBytes)
	}
	if len(cfg.STUNServers) == 0 {
		t.Fatalf("at least one default STUN server expected")
	}
}

func TestEnvOverridesPort(t *testing.T) {
	t.Setenv("PORT", "9999")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9999 {
		t.Fatalf("PORT env should override, got %d", cfg.Port)
	}
}
