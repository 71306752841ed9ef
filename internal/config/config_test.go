package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.URL != DefaultBackendURL || cfg.Console.Port != DefaultConsolePort {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
backend:
  url: http://quiz.internal:9000
  timeout: 3s
launch:
  redirect_delay: 500ms
redis:
  addr: localhost:6379
  db: 2
log:
  env: production
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend.URL != "http://quiz.internal:9000" || cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Console.Port != DefaultConsolePort {
		t.Fatalf("expected default console port, got %q", cfg.Console.Port)
	}
	if got := Duration(cfg.Launch.RedirectDelay, time.Second); got != 500*time.Millisecond {
		t.Fatalf("unexpected redirect delay %v", got)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 5 * time.Second},
		{"1500ms", 1500 * time.Millisecond},
		{"not-a-duration", 5 * time.Second},
	}
	for _, tt := range tests {
		if got := Duration(tt.raw, 5*time.Second); got != tt.want {
			t.Fatalf("Duration(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
