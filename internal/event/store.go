package event

import (
	"sort"
	"sync"
)

// DefaultCapacity is the buffer bound used when no capacity is configured.
const DefaultCapacity = 1000

// DefaultQueryLimit is the number of events a query returns when the caller
// does not specify a limit.
const DefaultQueryLimit = 50

// Query selects events from the store. Filters are conjunctive.
type Query struct {
	// Type keeps only events of this type when non-empty.
	Type Type
	// SinceTick keeps only events with GameTick >= *SinceTick when non-nil.
	SinceTick *int64
	// Limit caps the number of returned events. Zero means DefaultQueryLimit;
	// a negative limit yields no events (Total is still reported).
	Limit int
}

// Result is the outcome of a query. Total counts the events that matched the
// filters before the limit was applied, so callers can detect truncation.
type Result struct {
	Total  int     `json:"total"`
	Events []Event `json:"events"`
}

// Stats aggregates the store contents. MinTick and MaxTick are nil when the
// store is empty.
type Stats struct {
	Total   int          `json:"total"`
	ByType  map[Type]int `json:"byType"`
	MinTick *int64       `json:"minTick"`
	MaxTick *int64       `json:"maxTick"`
}

// Store is a bounded, insertion-ordered log of events with a runtime
// enabled-type policy. Appending beyond capacity evicts the oldest event.
//
// The buffer is guarded by a mutex: notification callbacks append from the
// connection's read loop while queries arrive from the tool transport.
type Store struct {
	mu       sync.RWMutex
	buf      []Event
	head     int
	count    int
	capacity int
	enabled  map[Type]struct{}
}

// NewStore creates a store bounded at the given capacity. A capacity of zero
// or less falls back to DefaultCapacity. All known event types start enabled.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	enabled := make(map[Type]struct{})
	for _, t := range Types() {
		enabled[t] = struct{}{}
	}
	return &Store{
		buf:      make([]Event, capacity),
		capacity: capacity,
		enabled:  enabled,
	}
}

// Append adds an event to the end of the log, evicting the oldest event when
// the buffer is full. It never fails.
func (s *Store) Append(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.count == s.capacity {
		// Overwrite the oldest slot.
		s.head = (s.head + 1) % s.capacity
		s.count--
		observeEviction()
	}
	s.buf[(s.head+s.count)%s.capacity] = ev
	s.count++
	observeAppend(ev.Type)
	observeBufferSize(s.count)
}

// Len reports the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

// Query returns the stored events matching q, sorted ascending by GameTick
// (stable for ties, preserving insertion order) and truncated to the limit.
func (s *Store) Query(q Query) Result {
	s.mu.RLock()
	matched := make([]Event, 0, s.count)
	for i := 0; i < s.count; i++ {
		ev := s.buf[(s.head+i)%s.capacity]
		if q.Type != "" && ev.Type != q.Type {
			continue
		}
		if q.SinceTick != nil && ev.GameTick < *q.SinceTick {
			continue
		}
		matched = append(matched, ev)
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].GameTick < matched[j].GameTick
	})

	limit := q.Limit
	if limit == 0 {
		limit = DefaultQueryLimit
	}
	total := len(matched)
	if limit < 0 {
		return Result{Total: total, Events: []Event{}}
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return Result{Total: total, Events: matched}
}

// Stats reports the total count, per-type counts and the tick range present.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: s.count, ByType: make(map[Type]int)}
	for i := 0; i < s.count; i++ {
		ev := s.buf[(s.head+i)%s.capacity]
		stats.ByType[ev.Type]++
		tick := ev.GameTick
		if stats.MinTick == nil || tick < *stats.MinTick {
			t := tick
			stats.MinTick = &t
		}
		if stats.MaxTick == nil || tick > *stats.MaxTick {
			t := tick
			stats.MaxTick = &t
		}
	}
	return stats
}

// CleanupBefore removes every event whose GameTick is strictly less than
// beforeTick and returns the number removed.
func (s *Store) CleanupBefore(beforeTick int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Event, 0, s.count)
	for i := 0; i < s.count; i++ {
		ev := s.buf[(s.head+i)%s.capacity]
		if ev.GameTick >= beforeTick {
			kept = append(kept, ev)
		}
	}
	removed := s.count - len(kept)
	s.head = 0
	s.count = copy(s.buf, kept)
	observeCleanup(removed)
	observeBufferSize(s.count)
	return removed
}

// Clear empties the buffer. The enabled-type policy is unaffected.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.head = 0
	s.count = 0
	observeBufferSize(0)
}

// SetEnabledTypes replaces the enabled-type set wholesale. Types absent from
// the list are disabled, including types the store has never seen.
func (s *Store) SetEnabledTypes(types []Type) {
	enabled := make(map[Type]struct{}, len(types))
	for _, t := range types {
		enabled[t] = struct{}{}
	}
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
}

// EnabledTypes returns the currently enabled known types in the canonical
// order of Types.
func (s *Store) EnabledTypes() []Type {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Type, 0, len(s.enabled))
	for _, t := range Types() {
		if _, ok := s.enabled[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Disabled reports whether events of type t are currently rejected. Handlers
// consult this before constructing an event, so a disabled type is never
// built at all rather than filtered at read time.
func (s *Store) Disabled(t Type) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.enabled[t]
	return !ok
}
