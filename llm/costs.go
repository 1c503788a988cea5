package llm

// Rough pricing per 1K tokens, blended across prompt and completion.
// Used for cost accounting only, never for billing.
var pricingPer1K = map[string]float64{
	ModelAnthropicClaudeOpus45:  0.015,
	ModelAnthropicClaudeSonnet4: 0.003,
	ModelAnthropicClaudeHaiku4:  0.001,
	ModelOpenAIGPT52:            0.010,
	ModelOpenAIGPT5:             0.008,
	ModelOpenAIGPT4o:            0.005,
	ModelOpenAIGPT4oMini:        0.0006,
	ModelDeepSeekChat:           0.0014,
	ModelDeepSeekV32:            0.0020,
	ModelGeminiFlash3:           0.0008,
	ModelGeminiPro3:             0.0035,
}

const defaultRatePer1K = 0.005

// EstimateCost estimates the dollar cost of a call from its token count.
func EstimateCost(model string, tokens uint32) float64 {
	rate, ok := pricingPer1K[model]
	if !ok {
		rate = defaultRatePer1K
	}
	return float64(tokens) / 1000 * rate
}
