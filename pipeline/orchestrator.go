// Pipeline orchestration - the static agent DAG for one run.
//
// The stage graph is fixed: the requirement analyzer and voice
// synthesizer run concurrently, their results merge, then the intro
// composer runs against the merged context, then the meta evaluator
// reviews everything. Stages advance through a barrier, not a
// race-to-first: the merge waits for every parallel agent to reach a
// terminal result, placeholder or not.
//
// Information Hiding:
// - Stage sequencing and join barrier hidden
// - State machine transitions hidden
// - Timeout and cancellation policy hidden
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/richinex/scribe/agent"
	"github.com/richinex/scribe/model"
)

const defaultRunTimeout = 5 * time.Minute

// Orchestrator sequences the four agents over a shared pipeline context.
// Safe for concurrent runs; each run owns its own context accumulator.
type Orchestrator struct {
	agents  map[model.AgentKind]*agent.Agent
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates an orchestrator. Every agent kind must be covered exactly
// once; a pipeline with a hole cannot honor the always-a-result contract.
func New(agents []*agent.Agent, logger zerolog.Logger) (*Orchestrator, error) {
	byKind := make(map[model.AgentKind]*agent.Agent, len(agents))
	for _, a := range agents {
		if _, dup := byKind[a.Kind()]; dup {
			return nil, fmt.Errorf("duplicate agent for kind %s", a.Kind())
		}
		byKind[a.Kind()] = a
	}
	for _, kind := range model.AllAgentKinds() {
		if _, ok := byKind[kind]; !ok {
			return nil, fmt.Errorf("missing agent for kind %s", kind)
		}
	}
	return &Orchestrator{
		agents:  byKind,
		timeout: defaultRunTimeout,
		logger:  logger,
	}, nil
}

// WithTimeout sets the run-level deadline. Agents still running when it
// expires contribute failure placeholders instead of blocking the run.
func (o *Orchestrator) WithTimeout(d time.Duration) *Orchestrator {
	if d > 0 {
		o.timeout = d
	}
	return o
}

// Run executes the full pipeline for one input pair. Only malformed input
// returns an error; every other failure degrades the affected result and
// the run still terminates with a complete context.
func (o *Orchestrator) Run(ctx context.Context, job model.JobPosting, profile model.CandidateProfile) (*model.PipelineContext, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	rc := model.NewPipelineContext(runID, job, profile)
	logger := o.logger.With().Str("run_id", runID).Logger()

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	state := model.StatePending
	advance := func(next model.RunState) {
		logger.Info().
			Str("from", state.String()).
			Str("to", next.String()).
			Msg("pipeline state transition")
		state = next
	}

	// Parallel stage: analyzer and voice read raw input only, so they
	// run concurrently. Results come back over a channel and merge
	// after the barrier; the orchestrator stays the sole writer of rc.
	advance(model.StateRunningParallel)
	parallel := []model.AgentKind{model.KindRequirementAnalyzer, model.KindVoiceSynthesizer}
	results := make(chan model.AgentResult, len(parallel))

	var wg sync.WaitGroup
	for _, kind := range parallel {
		wg.Add(1)
		go func(a *agent.Agent) {
			defer wg.Done()
			results <- a.Run(ctx, rc)
		}(o.agents[kind])
	}
	wg.Wait()
	close(results)

	advance(model.StateMerging)
	for result := range results {
		if !rc.Put(result) {
			// Can't happen with distinct kinds per stage; guard anyway.
			logger.Error().Str("kind", result.Kind.String()).Msg("duplicate result rejected at merge")
		}
	}

	// Dependent stage: the composer reads the analyzer's merged result.
	advance(model.StateRunningDependent)
	rc.Put(o.agents[model.KindIntroComposer].Run(ctx, rc))

	// Evaluation: the meta evaluator reviews all three artifacts.
	advance(model.StateEvaluating)
	rc.Put(o.agents[model.KindMetaEvaluator].Run(ctx, rc))

	advance(model.StateTerminated)
	return rc, nil
}
