package model

import "time"

// RunState tracks where a pipeline run is in its lifecycle.
// Transitions are linear; terminal state is always reached.
type RunState int

const (
	StatePending RunState = iota
	StateRunningParallel
	StateMerging
	StateRunningDependent
	StateEvaluating
	StateTerminated
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateRunningParallel:
		return "RUNNING(parallel)"
	case StateMerging:
		return "MERGING"
	case StateRunningDependent:
		return "RUNNING(dependent)"
	case StateEvaluating:
		return "EVALUATING"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "unknown"
	}
}

// PipelineContext accumulates agent results over a single run.
// It is owned exclusively by one run; the orchestrator is the only writer.
// After the run terminates it is treated as immutable and handed to the
// quality gate.
type PipelineContext struct {
	RunID   string
	Job     JobPosting
	Profile CandidateProfile
	results map[AgentKind]AgentResult
}

// NewPipelineContext creates the accumulator for one run.
func NewPipelineContext(runID string, job JobPosting, profile CandidateProfile) *PipelineContext {
	return &PipelineContext{
		RunID:   runID,
		Job:     job,
		Profile: profile,
		results: make(map[AgentKind]AgentResult),
	}
}

// Put records an agent result. Later writes for the same kind are rejected;
// results are immutable once merged.
func (c *PipelineContext) Put(result AgentResult) bool {
	if _, exists := c.results[result.Kind]; exists {
		return false
	}
	c.results[result.Kind] = result
	return true
}

// Get returns the result for a kind, if present.
func (c *PipelineContext) Get(kind AgentKind) (AgentResult, bool) {
	r, ok := c.results[kind]
	return r, ok
}

// Results returns a snapshot of all results in pipeline order.
func (c *PipelineContext) Results() []AgentResult {
	out := make([]AgentResult, 0, len(c.results))
	for _, kind := range AllAgentKinds() {
		if r, ok := c.results[kind]; ok {
			out = append(out, r)
		}
	}
	return out
}

// MetricStatus classifies a quality metric against its threshold.
type MetricStatus string

const (
	StatusPass    MetricStatus = "PASS"
	StatusWarning MetricStatus = "WARNING"
	StatusFail    MetricStatus = "FAIL"
)

// QualityMetric is one scored check in a run report.
// Status is purely a function of (score, threshold, margin).
type QualityMetric struct {
	Name      string       `json:"name"`
	Score     float64      `json:"score"`
	Threshold float64      `json:"threshold"`
	Status    MetricStatus `json:"status"`
	Details   string       `json:"details"`
}

// ClassifyMetric derives the status for a score against a threshold.
// score >= threshold is PASS; within margin below is WARNING; else FAIL.
func ClassifyMetric(score, threshold, margin float64) MetricStatus {
	switch {
	case score >= threshold:
		return StatusPass
	case score >= threshold-margin:
		return StatusWarning
	default:
		return StatusFail
	}
}

// Decision records one choice made by a component, with the transparency
// fields the whole system exists to provide.
type Decision struct {
	Component    string   `json:"component"`
	Decision     string   `json:"decision"`
	Rationale    string   `json:"rationale"`
	Alternatives []string `json:"alternatives_considered"`
}

// RunDecision describes whether a run's output is publishable.
type RunDecision string

const (
	RunAccepted            RunDecision = "accepted"
	RunAcceptedWithCaveats RunDecision = "accepted_with_caveats"
	RunRejected            RunDecision = "rejected"
)

// RunReport is the terminal, read-only artifact of a pipeline run.
// Failing metrics add risk notes; outputs are always surfaced regardless.
type RunReport struct {
	RunID             string          `json:"run_id"`
	GeneratedAt       time.Time       `json:"generated_at"`
	Results           []AgentResult   `json:"results"`
	Metrics           []QualityMetric `json:"quality_metrics"`
	OverallConfidence float64         `json:"overall_confidence"`
	Decision          RunDecision     `json:"decision"`
	DecisionLog       []Decision      `json:"decision_log"`
	RiskNotes         []string        `json:"risk_notes"`
	TotalCostEstimate float64         `json:"total_cost_estimate"`
}

// Accepted reports whether the run's output passed the quality gate,
// with or without caveats.
func (r RunReport) Accepted() bool {
	return r.Decision == RunAccepted || r.Decision == RunAcceptedWithCaveats
}
