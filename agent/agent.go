// Agent execution - the shared contract every pipeline agent honors.
//
// All four variants run through the same path: fingerprint the inputs,
// consult the cache, produce via the gateway on a miss, parse the
// response into the variant's schema, and derive a reproducible
// confidence from the parsed output. The variants differ only in prompt
// construction, output schema, and confidence signals.
//
// Information Hiding:
// - Cache interaction hidden
// - Gateway communication hidden
// - Degradation policy hidden (failures become placeholder results)
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/richinex/scribe/cache"
	"github.com/richinex/scribe/llm"
	"github.com/richinex/scribe/model"
)

// Completer is the completion surface the agent needs from the gateway.
// Satisfied by *llm.Gateway; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Response, error)
}

// Assessment is a variant's deterministic self-evaluation of its parsed
// output. Confidence is a declared function of the payload, never an
// opaque model-reported number.
type Assessment struct {
	Confidence   float64
	Rationale    string
	Alternatives []string
}

// Variant is one specialized agent: prompt construction, output schema,
// and confidence signals for a single AgentKind.
type Variant interface {
	Kind() model.AgentKind

	// FingerprintPayload returns the normalized inputs that define this
	// computation's cache identity. Two calls with semantically equal
	// inputs must return equal payloads.
	FingerprintPayload(rc *model.PipelineContext) any

	// BuildRequest constructs the completion request for the inputs.
	BuildRequest(rc *model.PipelineContext) llm.Request

	// Parse unmarshals the raw response into the variant's payload
	// schema. The pipeline context is available for variants that fold
	// deterministic fields into their payload.
	Parse(raw string, rc *model.PipelineContext) (model.Payload, error)

	// Assess derives confidence, rationale, and alternatives from the
	// parsed payload. Pure: same payload, same assessment.
	Assess(payload model.Payload, rc *model.PipelineContext) Assessment
}

// Agent wraps a variant with the cache and gateway plumbing.
type Agent struct {
	variant Variant
	gateway Completer
	cache   *cache.Manager
	logger  zerolog.Logger
}

// New creates an agent for the given variant.
func New(variant Variant, gateway Completer, cacheMgr *cache.Manager, logger zerolog.Logger) *Agent {
	return &Agent{
		variant: variant,
		gateway: gateway,
		cache:   cacheMgr,
		logger:  logger.With().Str("agent", variant.Kind().String()).Logger(),
	}
}

// Kind returns the variant's agent kind.
func (a *Agent) Kind() model.AgentKind {
	return a.variant.Kind()
}

// Run executes the variant against the pipeline context. It never returns
// an error: gateway exhaustion, parse failures, and cancellation all
// degrade to a confidence-0 placeholder whose rationale names the
// failure, so the pipeline always has a result to reason about.
func (a *Agent) Run(ctx context.Context, rc *model.PipelineContext) model.AgentResult {
	kind := a.variant.Kind()

	fp, err := cache.NewFingerprint(kind, a.variant.FingerprintPayload(rc))
	if err != nil {
		a.logger.Error().Err(err).Msg("fingerprint derivation failed")
		return model.FailureResult(kind, fmt.Sprintf("fingerprint derivation failed: %v", err))
	}

	result, err := a.cache.GetOrCompute(ctx, fp, func(ctx context.Context) (model.AgentResult, error) {
		return a.produce(ctx, rc)
	})
	if err != nil {
		// Producer failures are shared by every waiter on the
		// fingerprint and never cached; each caller degrades
		// independently.
		a.logger.Warn().Err(err).Msg("agent degraded to placeholder result")
		return model.FailureResult(kind, err.Error())
	}

	return result
}

// produce is the cache-miss path: gateway call, schema parse, assessment.
func (a *Agent) produce(ctx context.Context, rc *model.PipelineContext) (model.AgentResult, error) {
	req := a.variant.BuildRequest(rc)

	resp, err := a.gateway.Complete(ctx, req)
	if err != nil {
		return model.AgentResult{}, fmt.Errorf("completion failed: %w", err)
	}

	payload, err := a.variant.Parse(resp.Text, rc)
	if err != nil {
		return model.AgentResult{}, fmt.Errorf("response parse failed: %w", err)
	}

	assessment := a.variant.Assess(payload, rc)

	a.logger.Debug().
		Float64("confidence", assessment.Confidence).
		Str("model", resp.Model).
		Msg("agent produced result")

	return model.AgentResult{
		Kind:         a.variant.Kind(),
		Payload:      payload,
		Confidence:   clamp01(assessment.Confidence),
		Rationale:    assessment.Rationale,
		Alternatives: assessment.Alternatives,
		Timestamp:    time.Now().UTC(),
		CostEstimate: resp.CostEstimate,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
