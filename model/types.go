// Package model provides domain types shared across packages.
package model

import (
	"fmt"
	"time"
)

// AgentKind identifies one of the four specialized agents in the pipeline.
type AgentKind int

const (
	// KindRequirementAnalyzer extracts explicit and implicit requirements
	// from a job posting.
	KindRequirementAnalyzer AgentKind = iota
	// KindVoiceSynthesizer drafts an outreach email in the target
	// executive's voice.
	KindVoiceSynthesizer
	// KindIntroComposer writes a personal introduction positioned against
	// the analyzed requirements.
	KindIntroComposer
	// KindMetaEvaluator scores the whole run and surfaces risks.
	KindMetaEvaluator
)

// String returns the canonical agent name.
func (k AgentKind) String() string {
	switch k {
	case KindRequirementAnalyzer:
		return "requirement_analyzer"
	case KindVoiceSynthesizer:
		return "voice_synthesizer"
	case KindIntroComposer:
		return "intro_composer"
	case KindMetaEvaluator:
		return "meta_evaluator"
	default:
		return "unknown"
	}
}

// AllAgentKinds returns the agent kinds in pipeline order.
func AllAgentKinds() []AgentKind {
	return []AgentKind{
		KindRequirementAnalyzer,
		KindVoiceSynthesizer,
		KindIntroComposer,
		KindMetaEvaluator,
	}
}

// AgentResult is the fixed result contract every agent honors.
// Immutable once produced; a result is never returned without a rationale.
type AgentResult struct {
	Kind         AgentKind `json:"kind"`
	Payload      Payload   `json:"payload"`
	Confidence   float64   `json:"confidence"`
	Rationale    string    `json:"rationale"`
	Alternatives []string  `json:"alternatives_considered"`
	Timestamp    time.Time `json:"timestamp"`
	CostEstimate float64   `json:"cost_estimate"`
}

// Payload is the variant-specific output schema of an agent.
// Exactly one pointer is non-nil for a well-formed result; a failure
// placeholder carries the zero value for its kind.
type Payload struct {
	Requirements *RequirementAnalysis `json:"requirements,omitempty"`
	Email        *VoiceEmail          `json:"email,omitempty"`
	Intro        *PersonalIntro       `json:"intro,omitempty"`
	Evaluation   *MetaEvaluation      `json:"evaluation,omitempty"`
}

// RequirementImportance classifies how hard a requirement is.
type RequirementImportance string

const (
	ImportanceCritical  RequirementImportance = "critical"
	ImportanceImportant RequirementImportance = "important"
	ImportancePreferred RequirementImportance = "preferred"
)

// Requirement is a single extracted job requirement.
type Requirement struct {
	Category       string                `json:"category"` // technical, experience, soft_skills, domain_knowledge
	Requirement    string                `json:"requirement"`
	Importance     RequirementImportance `json:"importance"`
	EvidenceNeeded string                `json:"evidence_needed"`
}

// RequirementAnalysis is the RequirementAnalyzer output schema.
type RequirementAnalysis struct {
	PositionTitle      string        `json:"position_title"`
	Company            string        `json:"company"`
	KeyRequirements    []Requirement `json:"key_requirements"`
	HiddenRequirements []string      `json:"hidden_requirements"`
	CultureSignals     []string      `json:"company_culture_signals"`
	TechnicalStack     []string      `json:"technical_stack"`
	ExperienceLevel    string        `json:"experience_level"`
	RedFlags           []string      `json:"red_flags"`
}

// VoiceEmail is the VoiceSynthesizer output schema.
type VoiceEmail struct {
	Subject             string   `json:"subject"`
	Body                string   `json:"body"`
	KeyPointsCovered    []string `json:"key_points_covered"`
	PersonalizationRefs []string `json:"personalization_refs"`
}

// IntroSection is one section of a personal introduction.
type IntroSection struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance_score"`
}

// PersonalIntro is the IntroComposer output schema.
type PersonalIntro struct {
	Positioning  string         `json:"positioning"`
	Sections     []IntroSection `json:"sections"`
	Achievements []string       `json:"key_achievements_highlighted"`
	CallToAction string         `json:"call_to_action"`
}

// MetaEvaluation is the MetaEvaluator output schema.
type MetaEvaluation struct {
	Strengths         []string          `json:"strengths"`
	Risks             map[string]string `json:"risk_assessment"`
	Recommendations   []string          `json:"improvement_recommendations"`
	SuccessIndicators []string          `json:"success_indicators"`
}

// EmptyPayload returns the well-typed empty payload for a kind.
// Used for failure placeholders so the pipeline never carries a hole.
func EmptyPayload(kind AgentKind) Payload {
	switch kind {
	case KindRequirementAnalyzer:
		return Payload{Requirements: &RequirementAnalysis{}}
	case KindVoiceSynthesizer:
		return Payload{Email: &VoiceEmail{}}
	case KindIntroComposer:
		return Payload{Intro: &PersonalIntro{}}
	case KindMetaEvaluator:
		return Payload{Evaluation: &MetaEvaluation{}}
	default:
		return Payload{}
	}
}

// FailureResult builds the degraded placeholder result for a kind.
// Confidence is zero and the rationale names the failure; the contract
// that every result carries a rationale holds even here.
func FailureResult(kind AgentKind, reason string) AgentResult {
	return AgentResult{
		Kind:         kind,
		Payload:      EmptyPayload(kind),
		Confidence:   0,
		Rationale:    fmt.Sprintf("degraded result: %s", reason),
		Alternatives: []string{},
		Timestamp:    time.Now().UTC(),
	}
}
