// Command execution for CLI commands.
//
// Information Hiding:
// - Component wiring hidden (gateway, cache, agents, gate)
// - Input file parsing hidden
// - Output formatting hidden
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/richinex/scribe/agent"
	"github.com/richinex/scribe/cache"
	"github.com/richinex/scribe/config"
	"github.com/richinex/scribe/llm"
	"github.com/richinex/scribe/model"
	"github.com/richinex/scribe/pipeline"
	"github.com/richinex/scribe/quality"
	"github.com/richinex/scribe/report"
	"github.com/richinex/scribe/storage"
)

// Options holds CLI execution options.
type Options struct {
	JobPath     string
	ProfilePath string
	ReportPath  string // markdown report destination; empty prints to stdout
	JSONPath    string // raw RunReport destination; empty skips
	Verbose     bool
}

// Run executes one full pipeline run from input files to rendered report.
func Run(ctx context.Context, opts Options) error {
	settings, err := config.New()
	if err != nil {
		return err
	}

	logger := newLogger(opts.Verbose)

	job, err := loadJob(opts.JobPath)
	if err != nil {
		return err
	}
	profile, err := loadProfile(opts.ProfilePath)
	if err != nil {
		return err
	}

	// Validation-fail-fast: malformed input aborts before any wiring.
	if err := job.Validate(); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	gateway, err := buildGateway(settings, logger)
	if err != nil {
		return err
	}

	cacheMgr, closeStore, err := buildCache(settings, logger)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	agents := []*agent.Agent{
		agent.New(agent.RequirementAnalyzer{}, gateway, cacheMgr, logger),
		agent.New(agent.NewVoiceSynthesizer(), gateway, cacheMgr, logger),
		agent.New(agent.NewIntroComposer(), gateway, cacheMgr, logger),
		agent.New(agent.MetaEvaluator{}, gateway, cacheMgr, logger),
	}

	orchestrator, err := pipeline.New(agents, logger)
	if err != nil {
		return err
	}
	orchestrator.WithTimeout(settings.Pipeline.RunTimeout)

	rc, err := orchestrator.Run(ctx, job, profile)
	if err != nil {
		return err
	}

	gate := quality.NewGate(settings.Quality.Thresholds, settings.Quality.WarningMargin, logger)
	runReport := gate.Evaluate(rc, gateway.TotalCost())

	if opts.JSONPath != "" {
		if err := writeReportJSON(opts.JSONPath, runReport); err != nil {
			return err
		}
	}

	if err := emitMarkdown(opts.ReportPath, runReport); err != nil {
		return err
	}

	stats := cacheMgr.Stats()
	fmt.Printf("\nRun %s: %s (overall confidence %.1f%%)\n",
		runReport.RunID, runReport.Decision, runReport.OverallConfidence*100)
	fmt.Printf("Cache: %d hits, %d misses, $%.4f saved. Spend: $%.4f\n",
		stats.Hits, stats.Misses, stats.CostSaved, runReport.TotalCostEstimate)

	return nil
}

// Render reads a saved RunReport JSON and renders its markdown report.
func Render(jsonPath, reportPath string) error {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	var runReport model.RunReport
	if err := json.Unmarshal(data, &runReport); err != nil {
		return fmt.Errorf("failed to parse report: %w", err)
	}
	return emitMarkdown(reportPath, runReport)
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadJob reads the job posting. JSON files carry the structured form;
// anything else is treated as the raw description text.
func loadJob(path string) (model.JobPosting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.JobPosting{}, fmt.Errorf("failed to read job posting: %w", err)
	}
	if strings.HasSuffix(path, ".json") {
		var job model.JobPosting
		if err := json.Unmarshal(data, &job); err != nil {
			return model.JobPosting{}, fmt.Errorf("failed to parse job posting: %w", err)
		}
		return job, nil
	}
	return model.JobPosting{Description: string(data)}, nil
}

func loadProfile(path string) (model.CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.CandidateProfile{}, fmt.Errorf("failed to read candidate profile: %w", err)
	}
	var profile model.CandidateProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.CandidateProfile{}, fmt.Errorf("failed to parse candidate profile: %w", err)
	}
	return profile, nil
}

// buildGateway constructs providers in the configured fallback order.
// Backends without credentials are skipped with a warning; at least one
// must come up.
func buildGateway(settings config.Settings, logger zerolog.Logger) (*llm.Gateway, error) {
	var candidates []llm.Provider
	for _, backend := range settings.Gateway.Backends {
		provider, err := llm.NewProviderBuilder(backend).
			MaxTokens(settings.Gateway.MaxTokens).
			Temperature(float32(settings.Gateway.Temperature)).
			FromEnv()
		if err != nil {
			logger.Warn().Str("backend", backend.String()).Err(err).Msg("backend unavailable, skipping")
			continue
		}
		candidates = append(candidates, provider)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no usable backends: set an API key for one of the configured backends")
	}

	gateway, err := llm.NewGateway(candidates, logger)
	if err != nil {
		return nil, err
	}
	gateway.WithRetryBudget(settings.Gateway.RetryBudget)
	return gateway, nil
}

// buildCache creates the result cache, with SQLite persistence when a
// path is configured.
func buildCache(settings config.Settings, logger zerolog.Logger) (*cache.Manager, func(), error) {
	var store cache.Store
	var closeStore func()
	if settings.Cache.Path != "" {
		s, err := storage.OpenSqlite(settings.Cache.Path)
		if err != nil {
			return nil, nil, err
		}
		store = s
		closeStore = func() { _ = s.Close() }
	}

	mgr, err := cache.NewManager(settings.Cache.TTL, store, logger)
	if err != nil {
		if closeStore != nil {
			closeStore()
		}
		return nil, nil, err
	}
	return mgr, closeStore, nil
}

func writeReportJSON(path string, runReport model.RunReport) error {
	data, err := json.MarshalIndent(runReport, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func emitMarkdown(path string, runReport model.RunReport) error {
	markdown := report.Markdown(runReport)
	if path == "" {
		fmt.Println(markdown)
		return nil
	}
	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
