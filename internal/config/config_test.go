package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := writeEnv(t, "READALOUD_BACKEND=oto\nREADALOUD_RATE=1.25\nREADALOUD_LOG_FILE=/tmp/r.log\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "oto" || cfg.Rate != 1.25 || cfg.LogFile != "/tmp/r.log" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestEnvironmentWinsOverFile(t *testing.T) {
	path := writeEnv(t, "READALOUD_BACKEND=oto\nREADALOUD_RATE=1.25\n")
	t.Setenv(EnvBackend, "null")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != "null" {
		t.Errorf("expected environment backend, got %q", cfg.Backend)
	}
	if cfg.Rate != 1.25 {
		t.Errorf("expected file rate, got %v", cfg.Rate)
	}
}

func TestFlagsWin(t *testing.T) {
	t.Setenv(EnvRate, "0.75")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	if err := fs.Parse([]string{"-rate", "2", "-lesson", "l.json", "-no-tui"}); err != nil {
		t.Fatal(err)
	}

	if cfg.Rate != 2 || cfg.Lesson != "l.json" || !cfg.NoTUI {
		t.Errorf("flags not applied: %+v", cfg)
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	cfg2, _ := Load("")
	cfg2.RegisterFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if cfg2.Rate != 0.75 {
		t.Errorf("environment rate should survive empty flags, got %v", cfg2.Rate)
	}
}

func TestLoadBadRate(t *testing.T) {
	t.Setenv(EnvRate, "fast")
	if _, err := Load(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"null backend", func(c *Config) { c.Backend = "null" }, false},
		{"zero rate", func(c *Config) { c.Rate = 0 }, true},
		{"negative rate", func(c *Config) { c.Rate = -1 }, true},
		{"unknown backend", func(c *Config) { c.Backend = "jack" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
