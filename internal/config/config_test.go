package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "UPSTREAM_URL", "UPSTREAM_TIMEOUT_SECONDS", "MAP_ZOOM", "MAP_CENTER_LAT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != ":8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.UpstreamURL != "http://127.0.0.1:80" {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}
	if cfg.UpstreamTimeout != 0 {
		t.Errorf("UpstreamTimeout = %s, want none", cfg.UpstreamTimeout)
	}
	if cfg.MapZoom != 13 || cfg.MapCenterLat != 40.7431 {
		t.Errorf("camera = %f/%d", cfg.MapCenterLat, cfg.MapZoom)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPSTREAM_URL", "http://paths.internal:5000")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "15")
	t.Setenv("MAP_ZOOM", "not-a-number")

	cfg := Load()
	if cfg.UpstreamURL != "http://paths.internal:5000" {
		t.Errorf("UpstreamURL = %q", cfg.UpstreamURL)
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("UpstreamTimeout = %s", cfg.UpstreamTimeout)
	}
	if cfg.MapZoom != 13 {
		t.Errorf("MapZoom = %d, want default for bad value", cfg.MapZoom)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: ":8080", UpstreamURL: "http://x", MapZoom: 13, RateLimitPerMinute: 1, SessionTTL: time.Hour}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := base
	bad.MapZoom = 40
	if err := bad.Validate(); err == nil {
		t.Errorf("expected zoom error")
	}

	bad = base
	bad.UpstreamTimeout = -time.Second
	if err := bad.Validate(); err == nil {
		t.Errorf("expected timeout error")
	}
}
