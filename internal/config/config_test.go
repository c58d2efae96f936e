package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v := viper.New()
	if err := Init(v, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte(`
quiescence: 300ms
seed: 10
pump:
  rate: 5
  burst: 2
feed:
  path: records.jsonc
filter:
  color: blue
  min_progress: 25
logging:
  level: DEBUG
  format: json
metrics:
  addr: localhost:9090
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	v := viper.New()
	if err := Init(v, path); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Quiescence != 300*time.Millisecond {
		t.Errorf("expected 300ms, got %v", cfg.Quiescence)
	}
	if cfg.Seed != 10 || cfg.Pump.Rate != 5 || cfg.Pump.Burst != 2 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Feed.Path != "records.jsonc" {
		t.Errorf("expected feed path, got %q", cfg.Feed.Path)
	}
	if cfg.Filter.Color != "blue" || cfg.Filter.MinProgress != 25 {
		t.Errorf("unexpected filter: %+v", cfg.Filter)
	}
	if cfg.Metrics.Addr != "localhost:9090" {
		t.Errorf("expected metrics addr, got %q", cfg.Metrics.Addr)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SIEVE_PUMP_RATE", "7.5")
	t.Setenv("SIEVE_SEED", "3")

	v := viper.New()
	if err := Init(v, ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Pump.Rate != 7.5 {
		t.Errorf("expected rate 7.5, got %v", cfg.Pump.Rate)
	}
	if cfg.Seed != 3 {
		t.Errorf("expected seed 3, got %d", cfg.Seed)
	}
}

func TestInit_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	if err := Init(v, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative seed", func(c *Config) { c.Seed = -1 }},
		{"zero burst", func(c *Config) { c.Pump.Burst = 0 }},
		{"progress above 100", func(c *Config) { c.Filter.MinProgress = 101 }},
		{"bad level", func(c *Config) { c.Logging.Level = "LOUD" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad metrics addr", func(c *Config) { c.Metrics.Addr = "not an address" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("expected defaults to be valid, got %v", err)
	}
}
