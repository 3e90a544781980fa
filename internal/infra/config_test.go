package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VISION_MAX_RETRIES", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.GeminiValidateModel != "gemini-3-flash-preview" {
		t.Fatalf("GeminiValidateModel = %q, want %q", cfg.GeminiValidateModel, "gemini-3-flash-preview")
	}
	if cfg.GeminiGenerateModel != "gemini-2.5-flash-image" {
		t.Fatalf("GeminiGenerateModel = %q, want %q", cfg.GeminiGenerateModel, "gemini-2.5-flash-image")
	}
	if cfg.VisionMaxRetries != 2 {
		t.Fatalf("VisionMaxRetries = %d, want 2", cfg.VisionMaxRetries)
	}
	if cfg.VisionRetryDelay != 500*time.Millisecond {
		t.Fatalf("VisionRetryDelay = %v, want 500ms", cfg.VisionRetryDelay)
	}
	if cfg.StrictValidation {
		t.Fatal("StrictValidation should default to false (fail-open validation)")
	}
}

func TestLoadConfigMissingKeyIsNotFatal(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GeminiAPIKey != "" {
		t.Fatalf("GeminiAPIKey = %q, want empty", cfg.GeminiAPIKey)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("VISION_GENERATE_TIMEOUT_SECONDS", "45")
	t.Setenv("VISION_STRICT_VALIDATION", "true")
	t.Setenv("SESSION_MAX_IDLE_HOURS", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.VisionGenerateTimeout != 45*time.Second {
		t.Fatalf("VisionGenerateTimeout = %v, want 45s", cfg.VisionGenerateTimeout)
	}
	if !cfg.StrictValidation {
		t.Fatal("StrictValidation override not applied")
	}
	if cfg.SessionMaxIdle != time.Hour {
		t.Fatalf("SessionMaxIdle = %v, want 1h", cfg.SessionMaxIdle)
	}
}
