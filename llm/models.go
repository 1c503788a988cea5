// Package llm shared data models.
package llm

import "time"

// Request is a single text-completion request.
type Request struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	MaxTokens   uint32  `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

// Response is a completion from a backend. Model and CostEstimate are
// stamped by the gateway so callers do not need to know which candidate
// served the request.
type Response struct {
	Text         string        `json:"text"`
	Usage        *TokenUsage   `json:"token_usage,omitempty"`
	Latency      time.Duration `json:"latency"`
	Model        string        `json:"model,omitempty"`
	CostEstimate float64       `json:"cost_estimate,omitempty"`
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

// Total returns the total token count, deriving it when the backend
// reports only the split.
func (u *TokenUsage) Total() uint32 {
	if u == nil {
		return 0
	}
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.PromptTokens + u.CompletionTokens
}

// OpenAI model identifiers.
const (
	ModelOpenAIGPT52     = "gpt-5.2"
	ModelOpenAIGPT5      = "gpt-5"
	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
)

// Anthropic model identifiers.
const (
	ModelAnthropicClaudeOpus45  = "claude-opus-4-5-20251101"
	ModelAnthropicClaudeSonnet4 = "claude-sonnet-4-20250514"
	ModelAnthropicClaudeHaiku4  = "claude-haiku-4-20250514"
)

// DeepSeek model identifiers.
const (
	ModelDeepSeekChat = "deepseek-chat"
	ModelDeepSeekV32  = "deepseek-v3.2"
)

// Gemini model identifiers.
const (
	ModelGeminiFlash3 = "gemini-3-flash"
	ModelGeminiPro3   = "gemini-3-pro"
)
