package config

import (
	"os"
	"testing"
	"time"

	"github.com/richinex/scribe/llm"
)

func TestNewDefaults(t *testing.T) {
	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(settings.Gateway.Backends) != 2 {
		t.Fatalf("expected 2 default backends, got %d", len(settings.Gateway.Backends))
	}
	if settings.Gateway.Backends[0] != llm.ProviderAnthropic {
		t.Errorf("expected anthropic first, got %s", settings.Gateway.Backends[0])
	}
	if settings.Cache.TTL != 24*time.Hour {
		t.Errorf("expected 24h default TTL, got %v", settings.Cache.TTL)
	}
	if settings.Pipeline.RunTimeout != 5*time.Minute {
		t.Errorf("expected 5m default run timeout, got %v", settings.Pipeline.RunTimeout)
	}
	if settings.Quality.Thresholds.JobAlignment != 0.85 {
		t.Errorf("expected default job alignment threshold 0.85, got %f", settings.Quality.Thresholds.JobAlignment)
	}
	if settings.Quality.WarningMargin != 0.05 {
		t.Errorf("expected default warning margin 0.05, got %f", settings.Quality.WarningMargin)
	}
}

func TestNewBackendOrder(t *testing.T) {
	original := os.Getenv("SCRIBE_BACKENDS")
	os.Setenv("SCRIBE_BACKENDS", "deepseek, claude ,openai")
	defer os.Setenv("SCRIBE_BACKENDS", original)

	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []llm.ProviderType{llm.ProviderDeepSeek, llm.ProviderAnthropic, llm.ProviderOpenAI}
	if len(settings.Gateway.Backends) != len(want) {
		t.Fatalf("expected %d backends, got %d", len(want), len(settings.Gateway.Backends))
	}
	for i, p := range want {
		if settings.Gateway.Backends[i] != p {
			t.Errorf("backend %d: expected %s, got %s", i, p, settings.Gateway.Backends[i])
		}
	}
}

func TestNewUnknownBackend(t *testing.T) {
	original := os.Getenv("SCRIBE_BACKENDS")
	os.Setenv("SCRIBE_BACKENDS", "mystery")
	defer os.Setenv("SCRIBE_BACKENDS", original)

	if _, err := New(); err == nil {
		t.Error("expected error for unknown backend name")
	}
}

func TestNewInvalidDuration(t *testing.T) {
	original := os.Getenv("SCRIBE_CACHE_TTL")
	os.Setenv("SCRIBE_CACHE_TTL", "not-a-duration")
	defer os.Setenv("SCRIBE_CACHE_TTL", original)

	if _, err := New(); err == nil {
		t.Error("expected error for invalid TTL")
	}
}

func TestNewInvalidThreshold(t *testing.T) {
	original := os.Getenv("SCRIBE_THRESHOLD_VOICE_ALIGNMENT")
	os.Setenv("SCRIBE_THRESHOLD_VOICE_ALIGNMENT", "high")
	defer os.Setenv("SCRIBE_THRESHOLD_VOICE_ALIGNMENT", original)

	if _, err := New(); err == nil {
		t.Error("expected error for unparseable threshold")
	}
}

func TestNewThresholdOverride(t *testing.T) {
	original := os.Getenv("SCRIBE_THRESHOLD_JOB_ALIGNMENT")
	os.Setenv("SCRIBE_THRESHOLD_JOB_ALIGNMENT", "0.6")
	defer os.Setenv("SCRIBE_THRESHOLD_JOB_ALIGNMENT", original)

	settings, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Quality.Thresholds.JobAlignment != 0.6 {
		t.Errorf("expected overridden threshold 0.6, got %f", settings.Quality.Thresholds.JobAlignment)
	}
}
