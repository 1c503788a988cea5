// Package config provides application settings loaded from environment
// variables.
//
// Settings are created via New() which handles:
// - Environment variable parsing with validation
// - Default value application
// - Backend preference order parsing
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/richinex/scribe/llm"
	"github.com/richinex/scribe/quality"
)

// Settings holds all application configuration.
type Settings struct {
	Gateway  GatewayConfig
	Cache    CacheConfig
	Pipeline PipelineConfig
	Quality  QualityConfig
}

// GatewayConfig holds backend routing configuration.
type GatewayConfig struct {
	// Backends is the fallback order, first preferred.
	Backends    []llm.ProviderType
	RetryBudget int
	MaxTokens   uint32
	Temperature float64
}

// CacheConfig holds result cache configuration.
type CacheConfig struct {
	TTL time.Duration
	// Path of the SQLite cache file; empty disables persistence.
	Path string
}

// PipelineConfig holds run execution configuration.
type PipelineConfig struct {
	RunTimeout time.Duration
}

// QualityConfig holds quality gate configuration.
type QualityConfig struct {
	Thresholds    quality.Thresholds
	WarningMargin float64
}

// New loads settings from environment variables, applying defaults.
// Returns an error on unparseable values or unknown backend names.
func New() (Settings, error) {
	backends, err := parseBackends(os.Getenv("SCRIBE_BACKENDS"))
	if err != nil {
		return Settings{}, err
	}

	retryBudget, err := getEnvInt("SCRIBE_RETRY_BUDGET", 1)
	if err != nil {
		return Settings{}, err
	}

	maxTokens, err := getEnvUint32("LLM_MAX_TOKENS", 4096)
	if err != nil {
		return Settings{}, err
	}

	temperature, err := getEnvFloat64("LLM_TEMPERATURE", 0.7)
	if err != nil {
		return Settings{}, err
	}

	ttl, err := getEnvDuration("SCRIBE_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return Settings{}, err
	}

	runTimeout, err := getEnvDuration("SCRIBE_RUN_TIMEOUT", 5*time.Minute)
	if err != nil {
		return Settings{}, err
	}

	margin, err := getEnvFloat64("SCRIBE_WARNING_MARGIN", quality.DefaultWarningMargin)
	if err != nil {
		return Settings{}, err
	}

	thresholds, err := loadThresholds()
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Gateway: GatewayConfig{
			Backends:    backends,
			RetryBudget: retryBudget,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		},
		Cache: CacheConfig{
			TTL:  ttl,
			Path: os.Getenv("SCRIBE_CACHE_PATH"),
		},
		Pipeline: PipelineConfig{
			RunTimeout: runTimeout,
		},
		Quality: QualityConfig{
			Thresholds:    thresholds,
			WarningMargin: margin,
		},
	}, nil
}

// MustNew loads settings, panicking on invalid configuration.
// Use this only when configuration errors should be fatal.
func MustNew() Settings {
	settings, err := New()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return settings
}

// parseBackends parses a comma-separated backend preference list.
// Empty input yields the default order: anthropic then openai.
func parseBackends(raw string) ([]llm.ProviderType, error) {
	if strings.TrimSpace(raw) == "" {
		return []llm.ProviderType{llm.ProviderAnthropic, llm.ProviderOpenAI}, nil
	}

	var backends []llm.ProviderType
	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p, err := llm.ParseProviderType(name)
		if err != nil {
			return nil, fmt.Errorf("SCRIBE_BACKENDS: %w", err)
		}
		backends = append(backends, p)
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("SCRIBE_BACKENDS: no usable backend names in %q", raw)
	}
	return backends, nil
}

// loadThresholds reads per-metric thresholds, falling back to defaults.
func loadThresholds() (quality.Thresholds, error) {
	defaults := quality.DefaultThresholds()

	voice, err := getEnvFloat64("SCRIBE_THRESHOLD_VOICE_ALIGNMENT", defaults.VoiceAlignment)
	if err != nil {
		return quality.Thresholds{}, err
	}
	job, err := getEnvFloat64("SCRIBE_THRESHOLD_JOB_ALIGNMENT", defaults.JobAlignment)
	if err != nil {
		return quality.Thresholds{}, err
	}
	content, err := getEnvFloat64("SCRIBE_THRESHOLD_CONTENT_QUALITY", defaults.ContentQuality)
	if err != nil {
		return quality.Thresholds{}, err
	}
	comprehensive, err := getEnvFloat64("SCRIBE_THRESHOLD_COMPREHENSIVENESS", defaults.Comprehensiveness)
	if err != nil {
		return quality.Thresholds{}, err
	}
	professional, err := getEnvFloat64("SCRIBE_THRESHOLD_PROFESSIONAL_STANDARDS", defaults.ProfessionalStandards)
	if err != nil {
		return quality.Thresholds{}, err
	}

	return quality.Thresholds{
		VoiceAlignment:        voice,
		JobAlignment:          job,
		ContentQuality:        content,
		Comprehensiveness:     comprehensive,
		ProfessionalStandards: professional,
	}, nil
}

// Environment variable helpers with proper error handling

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return i, nil
}

func getEnvUint32(key string, defaultVal uint32) (uint32, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	u, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return uint32(u), nil
}

func getEnvFloat64(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return f, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %q: %w", key, val, err)
	}
	return d, nil
}
