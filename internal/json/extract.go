// Package json provides JSON extraction utilities for parsing LLM responses.
//
// Models often wrap JSON in markdown fences or surround it with commentary.
// Agents use this package to recover the structured portion before
// unmarshaling into their output schemas.
package json

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extract finds and returns the JSON object portion of a response string.
// It handles the common response patterns:
// 1. Pure JSON - returned as-is
// 2. JSON wrapped in markdown code blocks (```json ... ```)
// 3. JSON object embedded in text - first '{' to last '}'
//
// Limitations:
// - Only handles JSON objects, not arrays
// - Uses simple brace matching, not full JSON parsing
func Extract(response string) (string, error) {
	response = stripCodeFences(response)

	var probe interface{}
	if err := json.Unmarshal([]byte(response), &probe); err == nil {
		return response, nil
	}

	start := strings.Index(response, "{")
	if start != -1 {
		end := strings.LastIndex(response, "}")
		if end != -1 && end > start {
			candidate := response[start : end+1]
			if err := json.Unmarshal([]byte(candidate), &probe); err == nil {
				return candidate, nil
			}
		}
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// Parse extracts the JSON portion of a response and unmarshals it into T.
func Parse[T any](response string) (T, error) {
	var result T
	raw, err := Extract(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

// stripCodeFences removes markdown code block markers from a response.
// Handles ```json\n...\n``` and plain ```\n...\n```.
func stripCodeFences(response string) string {
	trimmed := strings.TrimSpace(response)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```json"))
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}

	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}
