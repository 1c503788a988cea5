package cache

import "time"

// EventType distinguishes cache hit and miss events.
type EventType int

const (
	EventHit EventType = iota
	EventMiss
)

// String returns the event name.
func (t EventType) String() string {
	if t == EventHit {
		return "hit"
	}
	return "miss"
}

// Event is emitted on every lookup and consumed for cost accounting.
type Event struct {
	Type        EventType
	Fingerprint Fingerprint
	CostSaved   float64 // estimated dollars not spent, hits only
	At          time.Time
}

// Stats aggregates cache performance counters.
type Stats struct {
	Hits      int     `json:"hits"`
	Misses    int     `json:"misses"`
	CostSaved float64 `json:"cost_saved"`
}

// HitRate returns the fraction of lookups served from cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
