package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file must yield empty config, got error: %v", err)
	}
	if cfg.API.Username != "" || cfg.API.Token != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	want := &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080/api_v2",
			Username:       "user",
			Password:       "secret",
			Token:          "tok",
			UserID:         2044,
			TimeoutSeconds: 10,
		},
		Report: ReportConfig{FuelPrice: 5.50, AvgEconomy: 10},
		MQTT:   MQTTConfig{Enabled: true, Broker: "localhost:1883", TopicPrefix: "frota"},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}

	if got := cfg.GetBaseURL(); got != "https://teresinagps.rastrosystem.com.br/api_v2" {
		t.Errorf("GetBaseURL() = %q", got)
	}
	if got := cfg.GetTimeout(); got != 30*time.Second {
		t.Errorf("GetTimeout() = %v, want 30s", got)
	}
	if got := cfg.GetTopicPrefix(); got != "fleet_report" {
		t.Errorf("GetTopicPrefix() = %q", got)
	}
	if cfg.GetFuelPrice() != 0 || cfg.GetAvgEconomy() != 0 {
		t.Errorf("unset report defaults must be zero")
	}

	cfg.API.TimeoutSeconds = 5
	if got := cfg.GetTimeout(); got != 5*time.Second {
		t.Errorf("GetTimeout() = %v, want 5s", got)
	}
}
