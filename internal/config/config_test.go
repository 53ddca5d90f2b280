package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "econfetch.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.ListenAddr != def.ListenAddr || cfg.Fetch != def.Fetch {
		t.Errorf("Load(\"\") = %+v, want defaults %+v", cfg, def)
	}
	if cfg.UseS3() {
		t.Error("defaults should not enable s3")
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
listen_addr = ":9090"
cache_dir = "/var/cache/econfetch"

[fetch]
max_retries = 5
retry_delay_ms = 100
workers = 4

[s3]
endpoint = "minio.local:9000"
access_key = "ak"
secret_key = "sk"
bucket = "datasets"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.Fetch.MaxRetries != 5 || cfg.Fetch.Workers != 4 {
		t.Errorf("Fetch = %+v", cfg.Fetch)
	}
	// Unset keys keep their defaults.
	if cfg.Fetch.ItemDelayMS != 1000 {
		t.Errorf("ItemDelayMS = %d, want default 1000", cfg.Fetch.ItemDelayMS)
	}
	if cfg.DBPath != "econfetch.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
	if !cfg.UseS3() || cfg.S3.Bucket != "datasets" {
		t.Errorf("S3 = %+v", cfg.S3)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero retries", "[fetch]\nmax_retries = 0\n"},
		{"zero workers", "[fetch]\nworkers = 0\n"},
		{"not toml", "{\"listen_addr\": \":8080\"}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRetryPolicyConversion(t *testing.T) {
	cfg := Default()
	cfg.Fetch.RetryDelayMS = 250
	cfg.Fetch.ItemDelayMS = 2000

	policy := cfg.RetryPolicy()
	if policy.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d", policy.MaxAttempts)
	}
	if policy.RetryDelay != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v", policy.RetryDelay)
	}
	if policy.ItemDelay != 2*time.Second {
		t.Errorf("ItemDelay = %v", policy.ItemDelay)
	}
}
