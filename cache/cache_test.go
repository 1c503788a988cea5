package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/richinex/scribe/model"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testResult(confidence float64) model.AgentResult {
	return model.AgentResult{
		Kind:         model.KindRequirementAnalyzer,
		Payload:      model.EmptyPayload(model.KindRequirementAnalyzer),
		Confidence:   confidence,
		Rationale:    "test rationale",
		CostEstimate: 0.01,
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	payload := struct {
		Job string `json:"job"`
	}{Job: "senior engineer"}

	a, err := NewFingerprint(model.KindRequirementAnalyzer, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := NewFingerprint(model.KindRequirementAnalyzer, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Errorf("same input produced different fingerprints: %s vs %s", a, b)
	}
}

func TestFingerprintDistinguishesKind(t *testing.T) {
	payload := struct {
		Job string `json:"job"`
	}{Job: "senior engineer"}

	a, _ := NewFingerprint(model.KindRequirementAnalyzer, payload)
	b, _ := NewFingerprint(model.KindVoiceSynthesizer, payload)
	if a == b {
		t.Error("different kinds produced the same fingerprint")
	}
}

func TestNormalizeText(t *testing.T) {
	a := NormalizeText("  senior   engineer\n\tremote ")
	b := NormalizeText("senior engineer remote")
	if a != b {
		t.Errorf("whitespace variants not normalized: %q vs %q", a, b)
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	m, err := NewManager(time.Hour, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fp := Fingerprint("abc123")
	calls := 0
	producer := func(ctx context.Context) (model.AgentResult, error) {
		calls++
		return testResult(0.9), nil
	}

	first, err := m.GetOrCompute(context.Background(), fp, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.GetOrCompute(context.Background(), fp, producer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("expected 1 producer call, got %d", calls)
	}
	if first.Confidence != second.Confidence {
		t.Error("cached result differs from computed result")
	}

	stats := m.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", stats.Hits, stats.Misses)
	}
	if stats.CostSaved != 0.01 {
		t.Errorf("expected cost saved 0.01, got %f", stats.CostSaved)
	}
}

func TestGetOrComputeAtMostOneInFlight(t *testing.T) {
	m, err := NewManager(time.Hour, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fp := Fingerprint("shared")
	var calls int32
	gate := make(chan struct{})
	producer := func(ctx context.Context) (model.AgentResult, error) {
		atomic.AddInt32(&calls, 1)
		<-gate
		return testResult(0.8), nil
	}

	const waiters = 10
	var wg sync.WaitGroup
	results := make([]model.AgentResult, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := m.GetOrCompute(context.Background(), fp, producer)
			if err != nil {
				t.Errorf("waiter %d got error: %v", i, err)
				return
			}
			results[i] = r
		}(i)
	}

	// Let the waiters pile onto the in-flight computation.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected exactly 1 producer call for concurrent waiters, got %d", n)
	}
	for i, r := range results {
		if r.Confidence != 0.8 {
			t.Errorf("waiter %d got wrong result: %+v", i, r)
		}
	}
}

func TestGetOrComputeUnrelatedKeysProceedInParallel(t *testing.T) {
	m, err := NewManager(time.Hour, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocked := make(chan struct{})
	go func() {
		_, _ = m.GetOrCompute(context.Background(), Fingerprint("slow"), func(ctx context.Context) (model.AgentResult, error) {
			<-blocked
			return testResult(0.5), nil
		})
	}()

	done := make(chan struct{})
	go func() {
		_, err := m.GetOrCompute(context.Background(), Fingerprint("fast"), func(ctx context.Context) (model.AgentResult, error) {
			return testResult(0.6), nil
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unrelated fingerprint blocked behind in-flight computation")
	}
	close(blocked)
}

func TestProducerFailurePropagatesAndIsNotCached(t *testing.T) {
	m, err := NewManager(time.Hour, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fp := Fingerprint("failing")
	boom := errors.New("backend down")
	calls := 0

	_, err = m.GetOrCompute(context.Background(), fp, func(ctx context.Context) (model.AgentResult, error) {
		calls++
		return model.AgentResult{}, boom
	})
	if err == nil {
		t.Fatal("expected compute error")
	}
	var computeErr *ComputeError
	if !errors.As(err, &computeErr) {
		t.Fatalf("expected ComputeError, got %T", err)
	}
	if !errors.Is(err, boom) {
		t.Error("compute error does not wrap the producer failure")
	}

	// The failure must not be cached; a retry runs the producer again.
	_, err = m.GetOrCompute(context.Background(), fp, func(ctx context.Context) (model.AgentResult, error) {
		calls++
		return testResult(0.7), nil
	})
	if err != nil {
		t.Fatalf("retry after failure errored: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected producer to run again after failure, calls=%d", calls)
	}
}

func TestTTLExpiry(t *testing.T) {
	m, err := NewManager(10*time.Millisecond, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fp := Fingerprint("short-lived")
	calls := 0
	producer := func(ctx context.Context) (model.AgentResult, error) {
		calls++
		return testResult(0.9), nil
	}

	if _, err := m.GetOrCompute(context.Background(), fp, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := m.GetOrCompute(context.Background(), fp, producer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected recompute after TTL expiry, calls=%d", calls)
	}
}

func TestInvalidate(t *testing.T) {
	m, err := NewManager(time.Hour, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fp := Fingerprint("doomed")
	calls := 0
	producer := func(ctx context.Context) (model.AgentResult, error) {
		calls++
		return testResult(0.9), nil
	}

	_, _ = m.GetOrCompute(context.Background(), fp, producer)
	m.Invalidate(context.Background(), fp)
	_, _ = m.GetOrCompute(context.Background(), fp, producer)

	if calls != 2 {
		t.Errorf("expected recompute after invalidation, calls=%d", calls)
	}
}

func TestOnEventHook(t *testing.T) {
	m, err := NewManager(time.Hour, nil, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var events []Event
	var mu sync.Mutex
	m.OnEvent(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	fp := Fingerprint("observed")
	producer := func(ctx context.Context) (model.AgentResult, error) {
		return testResult(0.9), nil
	}
	_, _ = m.GetOrCompute(context.Background(), fp, producer)
	_, _ = m.GetOrCompute(context.Background(), fp, producer)

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != EventMiss {
		t.Errorf("first event should be a miss, got %v", events[0].Type)
	}
	if events[1].Type != EventHit {
		t.Errorf("second event should be a hit, got %v", events[1].Type)
	}
}

func TestStatsHitRate(t *testing.T) {
	s := Stats{Hits: 3, Misses: 1}
	if got := s.HitRate(); got != 0.75 {
		t.Errorf("expected hit rate 0.75, got %f", got)
	}
	if got := (Stats{}).HitRate(); got != 0 {
		t.Errorf("expected zero hit rate for empty stats, got %f", got)
	}
}
