package llm

import "testing"

func TestEstimateCostKnownModel(t *testing.T) {
	got := EstimateCost(ModelAnthropicClaudeOpus45, 2000)
	if got != 0.03 {
		t.Errorf("expected 0.03, got %f", got)
	}
}

func TestEstimateCostUnknownModelUsesDefaultRate(t *testing.T) {
	got := EstimateCost("mystery-model", 1000)
	if got != defaultRatePer1K {
		t.Errorf("expected default rate %f, got %f", defaultRatePer1K, got)
	}
}

func TestEstimateCostZeroTokens(t *testing.T) {
	if got := EstimateCost(ModelOpenAIGPT52, 0); got != 0 {
		t.Errorf("expected 0 for zero tokens, got %f", got)
	}
}
