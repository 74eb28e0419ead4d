package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
gtfsrt:
  tripUpdatesURLs:
    - "https://example.com/gtfs-rt/trip-updates"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.GTFSRT.ReadIntervalMS != DefaultReadIntervalMS {
		t.Errorf("readIntervalMS = %d, want default %d", cfg.GTFSRT.ReadIntervalMS, DefaultReadIntervalMS)
	}
	if cfg.Tracker.ClockTickMS != DefaultClockTickMS {
		t.Errorf("clockTickMS = %d, want default %d", cfg.Tracker.ClockTickMS, DefaultClockTickMS)
	}
	if cfg.NATS.SubjectPrefix != "trains" {
		t.Errorf("subjectPrefix = %q, want trains", cfg.NATS.SubjectPrefix)
	}
}

func TestLoad_DefaultPortWhenUnset(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("port = %d, want default %d", cfg.Server.Port, DefaultPort)
	}
}

func TestLoad_RejectsInvalidFeedURL(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
gtfsrt:
  tripUpdatesURLs:
    - "not a url"
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for malformed feed URL")
	}
}

func TestLoad_EnvOverridesPort(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)
	t.Setenv("TRAINWATCH_PORT", "9999")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want env override 9999", cfg.Server.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
