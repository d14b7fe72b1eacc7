package config

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("unexpected default port %q", cfg.Port)
	}
	if cfg.ReplicateModel != "google/nano-banana" {
		t.Errorf("unexpected default image model %q", cfg.ReplicateModel)
	}
	if cfg.MaxUploadSize != 10485760 {
		t.Errorf("unexpected default upload size %d", cfg.MaxUploadSize)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAX_UPLOAD_SIZE", "1024")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9999" || cfg.MaxUploadSize != 1024 || !cfg.OTelEnabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestManagedKeysRoundTrip(t *testing.T) {
	cfg := &Config{EnvFile: filepath.Join(t.TempDir(), ".env")}
	t.Setenv(KeyOpenAI, "") // keep the process env clean after the test

	if err := cfg.SetManagedKeys(map[string]string{KeyOpenAI: "sk-first"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// A second write keeps keys it does not touch.
	if err := cfg.SetManagedKeys(map[string]string{KeyImgBB: "imgbb-key"}); err != nil {
		t.Fatalf("set again: %v", err)
	}

	keys := cfg.ManagedKeys()
	if keys[KeyOpenAI] != "sk-first" || keys[KeyImgBB] != "imgbb-key" {
		t.Fatalf("round trip mismatch: %v", keys)
	}
	if keys[KeyMail] != "" {
		t.Fatalf("unset key should be empty, got %q", keys[KeyMail])
	}
}
