package agent

import (
	"fmt"
	"strings"

	jsonutil "github.com/richinex/scribe/internal/json"
	"github.com/richinex/scribe/cache"
	"github.com/richinex/scribe/llm"
	"github.com/richinex/scribe/model"
	"github.com/richinex/scribe/style"
)

const introSystemPrompt = "You write first-person professional introductions in the candidate's authentic voice. Respond only with JSON."

const introPromptTemplate = `Write a personal introduction for the candidate below, positioned
against the analyzed requirements of the role. Each section must map to
something the role actually needs; rate each section's relevance to the
role in [0,1].

%s
ANALYZED REQUIREMENTS:
%s

CANDIDATE:
%s

Respond with a JSON object:
{
  "positioning": "one-line framing of the candidate for this role",
  "sections": [
    {"title": "...", "content": "...", "relevance_score": 0.0}
  ],
  "key_achievements_highlighted": ["..."],
  "call_to_action": "..."
}`

// IntroComposer writes the personal introduction. It runs in the
// dependent stage: it positions the candidate against the
// RequirementAnalyzer's output, so its fingerprint covers that result.
type IntroComposer struct {
	profile style.VoiceProfile
}

var _ Variant = IntroComposer{}

// NewIntroComposer creates the variant with the candidate voice profile.
func NewIntroComposer() IntroComposer {
	return IntroComposer{profile: style.CandidateVoice()}
}

func (IntroComposer) Kind() model.AgentKind {
	return model.KindIntroComposer
}

func (c IntroComposer) FingerprintPayload(rc *model.PipelineContext) any {
	return struct {
		Job          string                     `json:"job"`
		Profile      model.CandidateProfile     `json:"profile"`
		Requirements *model.RequirementAnalysis `json:"requirements"`
		Voice        string                     `json:"voice"`
	}{
		Job:          cache.NormalizeText(rc.Job.Description),
		Profile:      rc.Profile,
		Requirements: requirementsOf(rc),
		Voice:        c.profile.Name,
	}
}

func (c IntroComposer) BuildRequest(rc *model.PipelineContext) llm.Request {
	return llm.Request{
		System: introSystemPrompt,
		Prompt: fmt.Sprintf(introPromptTemplate,
			c.profile.PromptGuidance(),
			describeRequirements(requirementsOf(rc)),
			describeProfile(rc.Profile),
		),
	}
}

func (IntroComposer) Parse(raw string, _ *model.PipelineContext) (model.Payload, error) {
	intro, err := jsonutil.Parse[model.PersonalIntro](raw)
	if err != nil {
		return model.Payload{}, err
	}
	return model.Payload{Intro: &intro}, nil
}

// Assess blends requirement alignment (mean section relevance) with
// measured voice authenticity of the section text.
func (c IntroComposer) Assess(payload model.Payload, _ *model.PipelineContext) Assessment {
	intro := payload.Intro

	alignment := 0.0
	var body strings.Builder
	for _, s := range intro.Sections {
		alignment += s.Relevance
		body.WriteString(s.Content)
		body.WriteString("\n")
	}
	if len(intro.Sections) > 0 {
		alignment /= float64(len(intro.Sections))
	}

	authenticity := c.profile.Score(body.String())

	confidence := 0.6*alignment + 0.4*authenticity
	if len(intro.Sections) < 3 {
		// Thin introductions under-cover the role regardless of how
		// well each section scores.
		confidence *= 0.8
	}

	rationale := fmt.Sprintf(
		"requirement alignment %.2f over %d sections, voice authenticity %.2f against %s profile",
		alignment, len(intro.Sections), authenticity, c.profile.Name,
	)

	return Assessment{
		Confidence: confidence,
		Rationale:  rationale,
		Alternatives: []string{
			"chronological career narrative without requirement mapping",
			"single-paragraph summary without per-section relevance",
		},
	}
}

// requirementsOf returns the analyzer's output, or the empty placeholder
// when the analyzer degraded. The composer still runs either way.
func requirementsOf(rc *model.PipelineContext) *model.RequirementAnalysis {
	if r, ok := rc.Get(model.KindRequirementAnalyzer); ok && r.Payload.Requirements != nil {
		return r.Payload.Requirements
	}
	return &model.RequirementAnalysis{}
}

// describeRequirements renders an analysis as prompt text.
func describeRequirements(a *model.RequirementAnalysis) string {
	var b strings.Builder
	if a.PositionTitle != "" {
		fmt.Fprintf(&b, "Position: %s", a.PositionTitle)
		if a.Company != "" {
			fmt.Fprintf(&b, " at %s", a.Company)
		}
		b.WriteString("\n")
	}
	for _, r := range a.KeyRequirements {
		fmt.Fprintf(&b, "- [%s/%s] %s\n", r.Category, r.Importance, r.Requirement)
	}
	if len(a.HiddenRequirements) > 0 {
		fmt.Fprintf(&b, "Implicit needs: %s\n", strings.Join(a.HiddenRequirements, "; "))
	}
	if len(a.TechnicalStack) > 0 {
		fmt.Fprintf(&b, "Stack: %s\n", strings.Join(a.TechnicalStack, ", "))
	}
	if b.Len() == 0 {
		b.WriteString("(no structured analysis available)\n")
	}
	return b.String()
}
