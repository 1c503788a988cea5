package agent

import (
	"fmt"

	jsonutil "github.com/richinex/scribe/internal/json"
	"github.com/richinex/scribe/llm"
	"github.com/richinex/scribe/model"
)

const metaSystemPrompt = "You are a meta-evaluator reviewing the output of a multi-agent drafting system. Respond only with JSON."

const metaPromptTemplate = `Review the combined output of a drafting pipeline: a requirement
analysis, an executive outreach email, and a personal introduction.
Evaluate the set as a whole, not each piece in isolation.

REQUIREMENT ANALYSIS:
%s

EMAIL SUBJECT: %s
EMAIL KEY POINTS: %v

INTRODUCTION POSITIONING: %s
INTRODUCTION SECTIONS: %d

Respond with a JSON object:
{
  "strengths": ["..."],
  "risk_assessment": {"risk name": "description and mitigation"},
  "improvement_recommendations": ["..."]
}`

// MetaEvaluator reviews the whole run. It runs last, after the dependent
// stage, and its fingerprint covers every prior result so a change
// anywhere upstream invalidates its cached evaluation.
type MetaEvaluator struct{}

var _ Variant = MetaEvaluator{}

func (MetaEvaluator) Kind() model.AgentKind {
	return model.KindMetaEvaluator
}

func (MetaEvaluator) FingerprintPayload(rc *model.PipelineContext) any {
	type upstream struct {
		Payload    model.Payload `json:"payload"`
		Confidence float64       `json:"confidence"`
	}
	inputs := make(map[string]upstream, 3)
	for _, kind := range []model.AgentKind{
		model.KindRequirementAnalyzer,
		model.KindVoiceSynthesizer,
		model.KindIntroComposer,
	} {
		if r, ok := rc.Get(kind); ok {
			inputs[kind.String()] = upstream{Payload: r.Payload, Confidence: r.Confidence}
		}
	}
	return inputs
}

func (MetaEvaluator) BuildRequest(rc *model.PipelineContext) llm.Request {
	analysis := requirementsOf(rc)
	email := emailOf(rc)
	intro := introOf(rc)

	return llm.Request{
		System: metaSystemPrompt,
		Prompt: fmt.Sprintf(metaPromptTemplate,
			describeRequirements(analysis),
			email.Subject,
			email.KeyPointsCovered,
			intro.Positioning,
			len(intro.Sections),
		),
	}
}

// Parse unmarshals the model's evaluation and folds in the deterministic
// success indicators, which are computed locally rather than asked of
// the model.
func (MetaEvaluator) Parse(raw string, rc *model.PipelineContext) (model.Payload, error) {
	evaluation, err := jsonutil.Parse[model.MetaEvaluation](raw)
	if err != nil {
		return model.Payload{}, err
	}
	evaluation.SuccessIndicators = successIndicators(rc)
	return model.Payload{Evaluation: &evaluation}, nil
}

// Assess uses comprehensiveness of the combined upstream output as
// confidence: the evaluator can only be as sure as the material it saw
// is complete.
func (MetaEvaluator) Assess(_ model.Payload, rc *model.PipelineContext) Assessment {
	score := comprehensivenessScore(rc)

	return Assessment{
		Confidence: score,
		Rationale: fmt.Sprintf(
			"evaluation grounded in upstream comprehensiveness %.2f (requirements, email coverage, introduction depth)",
			score,
		),
		Alternatives: []string{
			"per-artifact review without cross-artifact consistency checks",
			"rubric-free holistic impression scoring",
		},
	}
}

// comprehensivenessScore measures how complete the combined upstream
// output is, in fixed 0.2 increments.
func comprehensivenessScore(rc *model.PipelineContext) float64 {
	analysis := requirementsOf(rc)
	email := emailOf(rc)
	intro := introOf(rc)

	score := 0.0
	if len(analysis.KeyRequirements) >= 5 {
		score += 0.2
	}
	if len(analysis.HiddenRequirements) >= 3 {
		score += 0.2
	}
	if len(analysis.CultureSignals) >= 3 {
		score += 0.2
	}
	if len(email.KeyPointsCovered) >= 4 {
		score += 0.2
	}
	if len(intro.Sections) >= 3 {
		score += 0.2
	}
	return score
}

// successIndicators derives the notable-strength list from upstream
// results. Deterministic and threshold-based.
func successIndicators(rc *model.PipelineContext) []string {
	analysis := requirementsOf(rc)

	indicators := []string{}
	if n := len(analysis.KeyRequirements); n >= 8 {
		indicators = append(indicators,
			fmt.Sprintf("comprehensive requirement analysis (%d requirements identified)", n))
	}
	if n := len(analysis.HiddenRequirements); n >= 5 {
		indicators = append(indicators,
			fmt.Sprintf("deep insight discovery (%d implicit needs identified)", n))
	}
	if r, ok := rc.Get(model.KindVoiceSynthesizer); ok && r.Confidence >= 0.85 {
		indicators = append(indicators,
			fmt.Sprintf("high-quality voice synthesis (%.0f%% confidence)", r.Confidence*100))
	}
	if r, ok := rc.Get(model.KindIntroComposer); ok && r.Confidence >= 0.90 {
		indicators = append(indicators,
			fmt.Sprintf("excellent introduction relevance (%.0f%% confidence)", r.Confidence*100))
	}
	if n := categoryCount(analysis.KeyRequirements); n >= 3 {
		indicators = append(indicators,
			fmt.Sprintf("broad requirement coverage (%d categories)", n))
	}
	return indicators
}

func emailOf(rc *model.PipelineContext) *model.VoiceEmail {
	if r, ok := rc.Get(model.KindVoiceSynthesizer); ok && r.Payload.Email != nil {
		return r.Payload.Email
	}
	return &model.VoiceEmail{}
}

func introOf(rc *model.PipelineContext) *model.PersonalIntro {
	if r, ok := rc.Get(model.KindIntroComposer); ok && r.Payload.Intro != nil {
		return r.Payload.Intro
	}
	return &model.PersonalIntro{}
}
