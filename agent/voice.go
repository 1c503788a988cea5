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

const voiceSystemPrompt = "You write executive outreach email in a specific target voice. Respond only with JSON."

const voicePromptTemplate = `Draft an introduction email from a senior technology executive to the
candidate below, about the role described in the job posting. The email
must read as if the executive wrote it personally.

%s
JOB POSTING:
%s

CANDIDATE:
%s

Respond with a JSON object:
{
  "subject": "...",
  "body": "full email body",
  "key_points_covered": ["..."],
  "personalization_refs": ["specific candidate details referenced"]
}`

// VoiceSynthesizer drafts the outreach email in the target executive's
// voice. It runs in the parallel stage; it reads raw input only, not
// other agents' results.
type VoiceSynthesizer struct {
	profile style.VoiceProfile
}

var _ Variant = VoiceSynthesizer{}

// NewVoiceSynthesizer creates the variant with the executive voice profile.
func NewVoiceSynthesizer() VoiceSynthesizer {
	return VoiceSynthesizer{profile: style.ExecutiveVoice()}
}

func (VoiceSynthesizer) Kind() model.AgentKind {
	return model.KindVoiceSynthesizer
}

func (v VoiceSynthesizer) FingerprintPayload(rc *model.PipelineContext) any {
	return struct {
		Job     string                 `json:"job"`
		Profile model.CandidateProfile `json:"profile"`
		Voice   string                 `json:"voice"`
	}{
		Job:     cache.NormalizeText(rc.Job.Description),
		Profile: rc.Profile,
		Voice:   v.profile.Name,
	}
}

func (v VoiceSynthesizer) BuildRequest(rc *model.PipelineContext) llm.Request {
	return llm.Request{
		System: voiceSystemPrompt,
		Prompt: fmt.Sprintf(voicePromptTemplate,
			v.profile.PromptGuidance(),
			rc.Job.Description,
			describeProfile(rc.Profile),
		),
	}
}

func (VoiceSynthesizer) Parse(raw string, _ *model.PipelineContext) (model.Payload, error) {
	email, err := jsonutil.Parse[model.VoiceEmail](raw)
	if err != nil {
		return model.Payload{}, err
	}
	return model.Payload{Email: &email}, nil
}

// Assess blends the measured voice alignment of the body with structural
// completeness. Voice alignment dominates: an email that does not sound
// like the executive fails its purpose regardless of coverage.
func (v VoiceSynthesizer) Assess(payload model.Payload, _ *model.PipelineContext) Assessment {
	email := payload.Email

	alignment := v.profile.Score(email.Body)

	completeness := 0.0
	if strings.TrimSpace(email.Subject) != "" {
		completeness += 0.3
	}
	if len(email.KeyPointsCovered) >= 4 {
		completeness += 0.4
	} else if len(email.KeyPointsCovered) >= 2 {
		completeness += 0.2
	}
	if len(email.PersonalizationRefs) >= 1 {
		completeness += 0.3
	}

	confidence := 0.75*alignment + 0.25*completeness

	rationale := fmt.Sprintf(
		"voice alignment %.2f against %s profile, completeness %.2f (%d key points, %d personalization references)",
		alignment, v.profile.Name, completeness,
		len(email.KeyPointsCovered), len(email.PersonalizationRefs),
	)

	return Assessment{
		Confidence: confidence,
		Rationale:  rationale,
		Alternatives: []string{
			"template-based email with slot filling",
			"neutral professional tone without voice replication",
		},
	}
}

// describeProfile renders the candidate profile as prompt text.
func describeProfile(p model.CandidateProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Current role: %s\n", p.CurrentRole)
	if len(p.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
	}
	for _, a := range p.Achievements {
		fmt.Fprintf(&b, "Achievement: %s", a.Summary)
		if a.Impact != "" {
			fmt.Fprintf(&b, " (impact: %s)", a.Impact)
		}
		if a.Metrics != "" {
			fmt.Fprintf(&b, " [%s]", a.Metrics)
		}
		b.WriteString("\n")
	}
	if p.Summary != "" {
		fmt.Fprintf(&b, "Summary: %s\n", p.Summary)
	}
	return b.String()
}
