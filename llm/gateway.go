// Gateway - ordered fallback over interchangeable completion backends.
//
// Tries candidates in order; a candidate failure triggers fallback to the
// next one. Transient failures (network, timeout, quota) get a small retry
// budget within the same candidate; auth and malformed-request failures do
// not. Every attempt records latency and a cost estimate regardless of
// outcome.
package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Attempt is the accounting record for one backend call, successful or not.
type Attempt struct {
	Backend      string        `json:"backend"`
	Model        string        `json:"model"`
	Latency      time.Duration `json:"latency"`
	CostEstimate float64       `json:"cost_estimate"`
	Success      bool          `json:"success"`
	Failure      FailureKind   `json:"failure,omitempty"`
	Timestamp    time.Time     `json:"timestamp"`
}

// ExhaustedError is returned when every candidate failed. It carries the
// per-candidate failures so callers can explain what went wrong.
type ExhaustedError struct {
	Failures []*BackendError
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%v: %d candidates failed", ErrAllBackendsExhausted, len(e.Failures))
}

func (e *ExhaustedError) Unwrap() error {
	return ErrAllBackendsExhausted
}

// Gateway routes completion requests across an ordered list of backend
// candidates with fallback. Safe for concurrent use.
type Gateway struct {
	candidates  []Provider
	retryBudget int
	logger      zerolog.Logger

	mu       sync.Mutex
	attempts []Attempt
}

// NewGateway creates a gateway over the given candidates, tried in order.
func NewGateway(candidates []Provider, logger zerolog.Logger) (*Gateway, error) {
	if len(candidates) == 0 {
		return nil, errors.New("gateway needs at least one backend candidate")
	}
	return &Gateway{
		candidates:  candidates,
		retryBudget: 1,
		logger:      logger,
	}, nil
}

// WithRetryBudget sets how many extra tries a candidate gets for
// transient failures. Zero disables in-candidate retries.
func (g *Gateway) WithRetryBudget(n int) *Gateway {
	if n >= 0 {
		g.retryBudget = n
	}
	return g
}

// Complete tries each candidate in order until one succeeds.
// Exhausting all candidates yields an ExhaustedError.
func (g *Gateway) Complete(ctx context.Context, req Request) (Response, error) {
	var failures []*BackendError

	for _, candidate := range g.candidates {
		resp, backendErr := g.tryCandidate(ctx, candidate, req)
		if backendErr == nil {
			return resp, nil
		}
		failures = append(failures, backendErr)

		if ctx.Err() != nil {
			break
		}
	}

	g.logger.Warn().
		Int("candidates", len(g.candidates)).
		Int("failures", len(failures)).
		Msg("all backend candidates exhausted")

	return Response{}, &ExhaustedError{Failures: failures}
}

// tryCandidate runs one candidate with its transient retry budget.
func (g *Gateway) tryCandidate(ctx context.Context, candidate Provider, req Request) (Response, *BackendError) {
	var lastErr *BackendError

	for try := 0; try <= g.retryBudget; try++ {
		start := time.Now()
		resp, err := candidate.Complete(ctx, req)
		latency := time.Since(start)
		if resp.Latency == 0 {
			resp.Latency = latency
		}

		if err == nil {
			cost := EstimateCost(candidate.Model(), resp.Usage.Total())
			resp.Model = candidate.Model()
			resp.CostEstimate = cost
			g.record(Attempt{
				Backend:      candidate.Name(),
				Model:        candidate.Model(),
				Latency:      resp.Latency,
				CostEstimate: cost,
				Success:      true,
				Timestamp:    time.Now().UTC(),
			})
			g.logger.Debug().
				Str("backend", candidate.Name()).
				Dur("latency", resp.Latency).
				Float64("cost", cost).
				Msg("completion succeeded")
			return resp, nil
		}

		kind := classifyError(err)
		lastErr = &BackendError{Backend: candidate.Name(), Kind: kind, Err: err}

		// Failed attempts still consumed prompt tokens; estimate from
		// the request since the backend reported no usage.
		g.record(Attempt{
			Backend:      candidate.Name(),
			Model:        candidate.Model(),
			Latency:      latency,
			CostEstimate: EstimateCost(candidate.Model(), estimatePromptTokens(req)),
			Success:      false,
			Failure:      kind,
			Timestamp:    time.Now().UTC(),
		})
		g.logger.Warn().
			Str("backend", candidate.Name()).
			Str("failure", string(kind)).
			Int("try", try).
			Err(err).
			Msg("backend attempt failed")

		if !lastErr.Transient() || ctx.Err() != nil {
			break
		}
	}

	return Response{}, lastErr
}

func (g *Gateway) record(a Attempt) {
	g.mu.Lock()
	g.attempts = append(g.attempts, a)
	g.mu.Unlock()
}

// Attempts returns a copy of all recorded attempts, in call order.
func (g *Gateway) Attempts() []Attempt {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Attempt, len(g.attempts))
	copy(out, g.attempts)
	return out
}

// TotalCost returns the cumulative cost estimate across all attempts.
func (g *Gateway) TotalCost() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var total float64
	for _, a := range g.attempts {
		total += a.CostEstimate
	}
	return total
}

// estimatePromptTokens approximates token count for a request when the
// backend reported no usage. Four characters per token is the usual
// rule of thumb.
func estimatePromptTokens(req Request) uint32 {
	return uint32((len(req.System) + len(req.Prompt)) / 4)
}
