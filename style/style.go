// Package style scores generated text against a target voice profile.
//
// Scoring is deterministic: it counts occurrences of regex markers and
// credits a fixed weight when a marker clears its minimum count. The same
// text always yields the same score, so agent confidence derived from it
// is reproducible across runs.
package style

import (
	"regexp"
	"strings"
)

// Marker is one measurable voice characteristic. Weight is credited when
// the text contains at least Min occurrences of Pattern.
type Marker struct {
	Name    string
	Pattern *regexp.Regexp
	Min     int
	Weight  float64
}

// VoiceProfile describes a target communication style.
type VoiceProfile struct {
	Name             string
	ToneDescriptors  []string
	SignaturePhrases []string
	Markers          []Marker
}

// Features returns the raw marker occurrence counts for the text.
func (p VoiceProfile) Features(text string) map[string]int {
	features := make(map[string]int, len(p.Markers))
	for _, m := range p.Markers {
		features[m.Name] = len(m.Pattern.FindAllString(text, -1))
	}
	return features
}

// Score returns the voice alignment of the text in [0, 1]: the sum of
// weights for markers that clear their minimum, capped at 1.
func (p VoiceProfile) Score(text string) float64 {
	score := 0.0
	for _, m := range p.Markers {
		if len(m.Pattern.FindAllString(text, -1)) >= m.Min {
			score += m.Weight
		}
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// Density returns marker occurrences per 100 words, a secondary signal
// for how saturated the text is with the profile's vocabulary.
func (p VoiceProfile) Density(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	total := 0
	for _, count := range p.Features(text) {
		total += count
	}
	return float64(total) / float64(words) * 100
}

// ExecutiveVoice is the profile for executive outreach email: structured,
// technically grounded, forward-looking, with the double-dash emphasis tic.
func ExecutiveVoice() VoiceProfile {
	return VoiceProfile{
		Name: "executive",
		ToneDescriptors: []string{
			"authoritative yet approachable",
			"technically grounded",
			"strategically minded",
			"pragmatically optimistic",
		},
		SignaturePhrases: []string{
			"-- which opens up interesting possibilities",
			"From a strategic perspective",
			"The architectural implications",
			"Looking ahead",
		},
		Markers: []Marker{
			{
				Name:    "double_dash",
				Pattern: regexp.MustCompile(`--`),
				Min:     1,
				Weight:  0.20,
			},
			{
				Name:    "technical_depth",
				Pattern: regexp.MustCompile(`(?i)(architecture|framework|implementation|system|protocol)`),
				Min:     3,
				Weight:  0.25,
			},
			{
				Name:    "future_vision",
				Pattern: regexp.MustCompile(`(?i)(will|future|next|evolution|transform|enable)`),
				Min:     2,
				Weight:  0.20,
			},
			{
				Name:    "structured_thinking",
				Pattern: regexp.MustCompile(`(?i)(first|second|third|therefore|however|moreover)`),
				Min:     2,
				Weight:  0.20,
			},
			{
				Name:    "industry_terms",
				Pattern: regexp.MustCompile(`(?i)(enterprise|scale|ecosystem|integration|deployment)`),
				Min:     3,
				Weight:  0.15,
			},
		},
	}
}

// CandidateVoice is the profile for the personal introduction: authentic,
// metrics-driven, story-led.
func CandidateVoice() VoiceProfile {
	return VoiceProfile{
		Name: "candidate",
		ToneDescriptors: []string{
			"enthusiastic",
			"authentic",
			"metrics-driven",
			"future-focused",
		},
		Markers: []Marker{
			{
				Name:    "authenticity",
				Pattern: regexp.MustCompile(`(?i)(actually|honestly|genuinely|truly)`),
				Min:     1,
				Weight:  0.20,
			},
			{
				Name:    "metrics",
				Pattern: regexp.MustCompile(`\d+%|\d+x|\d+K|\d+M`),
				Min:     2,
				Weight:  0.25,
			},
			{
				Name:    "storytelling",
				Pattern: regexp.MustCompile(`(?i)(journey|story|experience|challenge|achievement)`),
				Min:     2,
				Weight:  0.20,
			},
			{
				Name:    "enthusiasm",
				Pattern: regexp.MustCompile(`(?i)(amazing|incredible|exciting|fantastic|love)`),
				Min:     1,
				Weight:  0.15,
			},
			{
				Name:    "future_focus",
				Pattern: regexp.MustCompile(`(?i)(vision|future|next|building|creating)`),
				Min:     2,
				Weight:  0.20,
			},
		},
	}
}

// PromptGuidance renders the profile as instruction text for a generation
// prompt.
func (p VoiceProfile) PromptGuidance() string {
	var b strings.Builder
	b.WriteString("VOICE CHARACTERISTICS:\n")
	for _, t := range p.ToneDescriptors {
		b.WriteString("- ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	if len(p.SignaturePhrases) > 0 {
		b.WriteString("SIGNATURE PHRASES (use naturally, not all at once):\n")
		for _, s := range p.SignaturePhrases {
			b.WriteString("- ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}
