package style

import "testing"

const executiveSample = `From a strategic perspective, the architecture here matters --
the framework and system integration decisions will transform how the
ecosystem evolves. First, the deployment model must scale; second, the
implementation has to stay robust; moreover the enterprise protocol
surface will enable the next evolution.`

func TestExecutiveVoiceScoresAlignedText(t *testing.T) {
	profile := ExecutiveVoice()

	score := profile.Score(executiveSample)
	if score < 0.8 {
		t.Errorf("strongly aligned text scored %.2f, expected >= 0.8", score)
	}
}

func TestExecutiveVoiceScoresUnalignedText(t *testing.T) {
	profile := ExecutiveVoice()

	score := profile.Score("Hi. Quick note. Lunch on Friday?")
	if score != 0 {
		t.Errorf("casual text scored %.2f, expected 0", score)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	profile := ExecutiveVoice()
	a := profile.Score(executiveSample)
	b := profile.Score(executiveSample)
	if a != b {
		t.Errorf("same text produced different scores: %f vs %f", a, b)
	}
}

func TestScoreCappedAtOne(t *testing.T) {
	for _, p := range []VoiceProfile{ExecutiveVoice(), CandidateVoice()} {
		total := 0.0
		for _, m := range p.Markers {
			total += m.Weight
		}
		if total > 1.001 {
			t.Errorf("%s: marker weights sum to %.2f, score would need capping", p.Name, total)
		}
	}
}

func TestCandidateVoiceFeatures(t *testing.T) {
	profile := CandidateVoice()
	text := `Honestly, the journey from 200K to 1M users was an incredible
experience -- a 5x growth story. Building the next vision means creating
the future, and I genuinely love that challenge. We cut costs 40%.`

	features := profile.Features(text)
	if features["metrics"] < 2 {
		t.Errorf("expected at least 2 metric markers, got %d", features["metrics"])
	}
	if features["authenticity"] < 2 {
		t.Errorf("expected at least 2 authenticity markers, got %d", features["authenticity"])
	}

	score := profile.Score(text)
	if score < 0.8 {
		t.Errorf("aligned candidate text scored %.2f, expected >= 0.8", score)
	}
}

func TestDensity(t *testing.T) {
	profile := ExecutiveVoice()
	if got := profile.Density(""); got != 0 {
		t.Errorf("empty text density should be 0, got %f", got)
	}
	if got := profile.Density("architecture architecture"); got <= 0 {
		t.Errorf("expected positive density, got %f", got)
	}
}

func TestPromptGuidanceMentionsTone(t *testing.T) {
	guidance := ExecutiveVoice().PromptGuidance()
	if guidance == "" {
		t.Fatal("expected non-empty guidance")
	}
}
