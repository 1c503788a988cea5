package agent

import (
	"fmt"
	"strings"

	jsonutil "github.com/richinex/scribe/internal/json"
	"github.com/richinex/scribe/cache"
	"github.com/richinex/scribe/llm"
	"github.com/richinex/scribe/model"
)

const analyzerSystemPrompt = "You are an expert job analyst. Provide detailed, structured analysis and respond only with JSON."

const analyzerPromptTemplate = `Analyze this job description thoroughly. Extract the explicit
requirements, then read between the lines for implicit needs, culture
signals, and red flags.

JOB DESCRIPTION:
%s

Respond with a JSON object:
{
  "position_title": "...",
  "company": "...",
  "key_requirements": [
    {"category": "technical|experience|soft_skills|domain_knowledge",
     "requirement": "...",
     "importance": "critical|important|preferred",
     "evidence_needed": "what would demonstrate this"}
  ],
  "hidden_requirements": ["implicit needs not stated directly"],
  "company_culture_signals": ["..."],
  "technical_stack": ["..."],
  "experience_level": "...",
  "red_flags": ["..."]
}`

// RequirementAnalyzer extracts explicit and implicit requirements from a
// job posting. It runs in the parallel stage and depends only on raw input.
type RequirementAnalyzer struct{}

var _ Variant = RequirementAnalyzer{}

func (RequirementAnalyzer) Kind() model.AgentKind {
	return model.KindRequirementAnalyzer
}

func (RequirementAnalyzer) FingerprintPayload(rc *model.PipelineContext) any {
	return struct {
		Job string `json:"job"`
	}{
		Job: cache.NormalizeText(rc.Job.Description),
	}
}

func (RequirementAnalyzer) BuildRequest(rc *model.PipelineContext) llm.Request {
	return llm.Request{
		System: analyzerSystemPrompt,
		Prompt: fmt.Sprintf(analyzerPromptTemplate, rc.Job.Description),
	}
}

func (RequirementAnalyzer) Parse(raw string, _ *model.PipelineContext) (model.Payload, error) {
	analysis, err := jsonutil.Parse[model.RequirementAnalysis](raw)
	if err != nil {
		return model.Payload{}, err
	}
	return model.Payload{Requirements: &analysis}, nil
}

// Assess scores extraction completeness: breadth of requirements, depth of
// implicit findings, and coverage of the secondary fields. Purely
// count-based so the same analysis always scores the same.
func (RequirementAnalyzer) Assess(payload model.Payload, _ *model.PipelineContext) Assessment {
	analysis := payload.Requirements

	score := 0.0
	if len(analysis.KeyRequirements) >= 5 {
		score += 0.25
	} else if len(analysis.KeyRequirements) >= 3 {
		score += 0.15
	}
	if len(analysis.HiddenRequirements) >= 3 {
		score += 0.20
	}
	if len(analysis.CultureSignals) >= 3 {
		score += 0.15
	}
	if len(analysis.TechnicalStack) >= 1 {
		score += 0.10
	}
	if strings.TrimSpace(analysis.PositionTitle) != "" {
		score += 0.10
	}
	if strings.TrimSpace(analysis.ExperienceLevel) != "" {
		score += 0.05
	}
	if categoryCount(analysis.KeyRequirements) >= 3 {
		score += 0.15
	}

	rationale := fmt.Sprintf(
		"extraction completeness: %d requirements across %d categories, %d hidden requirements, %d culture signals",
		len(analysis.KeyRequirements),
		categoryCount(analysis.KeyRequirements),
		len(analysis.HiddenRequirements),
		len(analysis.CultureSignals),
	)

	return Assessment{
		Confidence: score,
		Rationale:  rationale,
		Alternatives: []string{
			"keyword extraction without importance ranking",
			"single-pass analysis without implicit-requirement probing",
		},
	}
}

func categoryCount(reqs []model.Requirement) int {
	seen := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		seen[r.Category] = struct{}{}
	}
	return len(seen)
}
