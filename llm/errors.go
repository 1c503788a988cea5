package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrAllBackendsExhausted is returned when every candidate backend failed.
// Agents surface it as a degraded result, never as a run-fatal error.
var ErrAllBackendsExhausted = errors.New("all backend candidates exhausted")

// FailureKind classifies why a backend attempt failed.
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureQuota     FailureKind = "quota"
	FailureAuth      FailureKind = "auth"
	FailureMalformed FailureKind = "malformed_response"
	FailureNetwork   FailureKind = "network"
	FailureUnknown   FailureKind = "unknown"
)

// BackendError wraps a failure from one backend candidate.
// Recovered locally via fallback; callers only see it when all
// candidates are exhausted, via the Attempts on ExhaustedError.
type BackendError struct {
	Backend string
	Kind    FailureKind
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s failed (%s): %v", e.Backend, e.Kind, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Transient reports whether a retry within the same backend could help.
// Auth and malformed-request failures are not retried.
func (e *BackendError) Transient() bool {
	switch e.Kind {
	case FailureTimeout, FailureNetwork, FailureQuota:
		return true
	default:
		return false
	}
}

// classifyError maps a raw provider error to a failure kind.
// Provider SDKs differ in error types, so this falls back to message
// inspection for the common categories.
func classifyError(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "quota"):
		return FailureQuota
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized"):
		return FailureAuth
	case strings.Contains(msg, "500") || strings.Contains(msg, "502") || strings.Contains(msg, "503") || strings.Contains(msg, "overloaded"):
		return FailureNetwork
	case strings.Contains(msg, "empty response") || strings.Contains(msg, "unmarshal") || strings.Contains(msg, "decode"):
		return FailureMalformed
	default:
		return FailureUnknown
	}
}
