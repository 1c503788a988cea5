// Cache manager with per-fingerprint computation dedup and TTL expiry.
//
// Information Hiding:
// - Entry map and expiry discipline hidden
// - In-flight computation coordination hidden (singleflight)
// - Persistence hidden behind the Store interface
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/richinex/scribe/model"
)

// Producer computes the result for a fingerprint on a cache miss.
type Producer func(ctx context.Context) (model.AgentResult, error)

// ComputeError wraps a producer failure. It propagates to every waiter on
// the fingerprint; nothing is cached.
type ComputeError struct {
	Fingerprint Fingerprint
	Err         error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("cache compute failed for %.12s: %v", string(e.Fingerprint), e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}

// Entry is one cached result with its lifecycle bounds.
// Never mutated in place; expiry makes it invisible on the next lookup.
type Entry struct {
	Fingerprint Fingerprint        `json:"fingerprint"`
	Result      model.AgentResult  `json:"result"`
	CreatedAt   time.Time          `json:"created_at"`
	TTL         time.Duration      `json:"ttl"`
}

// live reports whether the entry is still within its TTL.
func (e Entry) live(now time.Time) bool {
	return now.Before(e.CreatedAt.Add(e.TTL))
}

// Manager is the cross-run shared cache. Lookups serialize per fingerprint:
// concurrent callers for the same key await a single in-flight computation,
// while unrelated keys proceed fully in parallel.
type Manager struct {
	ttl    time.Duration
	store  Store
	logger zerolog.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[Fingerprint]Entry

	stats   Stats
	statsMu sync.Mutex
	onEvent func(Event)
}

// NewManager creates a cache with the given default TTL.
// A nil store means pure in-memory caching.
func NewManager(ttl time.Duration, store Store, logger zerolog.Logger) (*Manager, error) {
	m := &Manager{
		ttl:     ttl,
		store:   store,
		logger:  logger,
		entries: make(map[Fingerprint]Entry),
	}

	if store != nil {
		entries, err := store.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted cache: %w", err)
		}
		now := time.Now()
		loaded := 0
		for _, e := range entries {
			if e.live(now) {
				m.entries[e.Fingerprint] = e
				loaded++
			}
		}
		if loaded > 0 {
			logger.Info().Int("entries", loaded).Msg("loaded cache entries from store")
		}
	}

	return m, nil
}

// OnEvent registers a hook invoked for every hit/miss event.
// Used for cost accounting; must be set before concurrent use.
func (m *Manager) OnEvent(fn func(Event)) *Manager {
	m.onEvent = fn
	return m
}

// GetOrCompute returns the live cached result for the fingerprint, or runs
// producer exactly once across all concurrent callers for that fingerprint.
// Producer failures propagate to every waiter and are not cached.
func (m *Manager) GetOrCompute(ctx context.Context, fp Fingerprint, producer Producer) (model.AgentResult, error) {
	if result, ok := m.lookup(fp); ok {
		m.emit(Event{Type: EventHit, Fingerprint: fp, CostSaved: result.CostEstimate})
		return result, nil
	}

	v, err, shared := m.group.Do(string(fp), func() (interface{}, error) {
		// A racing caller may have stored the entry between our lookup
		// and joining the flight.
		if result, ok := m.lookup(fp); ok {
			return result, nil
		}

		m.emit(Event{Type: EventMiss, Fingerprint: fp})

		result, err := producer(ctx)
		if err != nil {
			return nil, &ComputeError{Fingerprint: fp, Err: err}
		}

		m.put(ctx, fp, result)
		return result, nil
	})
	if err != nil {
		return model.AgentResult{}, err
	}

	result := v.(model.AgentResult)
	if shared {
		m.logger.Debug().Str("fingerprint", short(fp)).Msg("joined in-flight computation")
	}
	return result, nil
}

// Invalidate removes an entry regardless of its TTL.
func (m *Manager) Invalidate(ctx context.Context, fp Fingerprint) {
	m.mu.Lock()
	delete(m.entries, fp)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(ctx, fp); err != nil {
			m.logger.Warn().Err(err).Str("fingerprint", short(fp)).Msg("failed to delete persisted entry")
		}
	}
}

// Stats returns a snapshot of hit/miss counters and cost saved.
func (m *Manager) Stats() Stats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// Len returns the number of resident entries, expired or not.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// lookup returns a live entry's result. Expired entries are treated as
// absent and evicted lazily; no background sweep runs.
func (m *Manager) lookup(fp Fingerprint) (model.AgentResult, bool) {
	now := time.Now()

	m.mu.RLock()
	entry, ok := m.entries[fp]
	m.mu.RUnlock()
	if !ok {
		return model.AgentResult{}, false
	}

	if !entry.live(now) {
		m.mu.Lock()
		// Re-check: a fresh entry may have replaced the expired one.
		if current, ok := m.entries[fp]; ok && !current.live(now) {
			delete(m.entries, fp)
		}
		m.mu.Unlock()
		return model.AgentResult{}, false
	}

	return entry.Result, true
}

func (m *Manager) put(ctx context.Context, fp Fingerprint, result model.AgentResult) {
	entry := Entry{
		Fingerprint: fp,
		Result:      result,
		CreatedAt:   time.Now(),
		TTL:         m.ttl,
	}

	m.mu.Lock()
	m.entries[fp] = entry
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Save(ctx, entry); err != nil {
			// Persistence is best-effort; the in-memory entry stands.
			m.logger.Warn().Err(err).Str("fingerprint", short(fp)).Msg("failed to persist cache entry")
		}
	}
}

func (m *Manager) emit(e Event) {
	e.At = time.Now().UTC()

	m.statsMu.Lock()
	switch e.Type {
	case EventHit:
		m.stats.Hits++
		m.stats.CostSaved += e.CostSaved
	case EventMiss:
		m.stats.Misses++
	}
	m.statsMu.Unlock()

	if m.onEvent != nil {
		m.onEvent(e)
	}
}

func short(fp Fingerprint) string {
	if len(fp) > 12 {
		return string(fp[:12])
	}
	return string(fp)
}
