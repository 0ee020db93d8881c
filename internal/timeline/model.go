package timeline

import (
	"fmt"
	"sort"
	"time"
)

// Entry pairs a Period with the configuration active during it.
type Entry[T any] struct {
	Period Period
	Value  T
}

// TemporalModel is a sorted, non-overlapping registry of (Period, value)
// entries. It is built once from a start-keyed mapping and read-only
// afterwards.
//
// INVARIANTS:
//   - Entries are sorted ascending by Period.Start.
//   - Periods are contiguous: each entry ends where the next begins; the
//     last entry extends to the horizon end supplied at construction.
//   - Every instant inside the horizon maps to exactly one entry.
type TemporalModel[T any] struct {
	entries []Entry[T]
}

// NewTemporalModel builds a model from a mapping of period start times to
// configurations. Each configuration is active from its key until the next
// key in ascending order; the last configuration is active until horizonEnd.
//
// Returns an error when the mapping is empty or when horizonEnd does not lie
// after the latest start key.
func NewTemporalModel[T any](configs map[time.Time]T, horizonEnd time.Time) (*TemporalModel[T], error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("temporal model requires at least one configuration")
	}

	starts := make([]time.Time, 0, len(configs))
	for s := range configs {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	last := starts[len(starts)-1]
	if !horizonEnd.After(last) {
		return nil, fmt.Errorf("horizon end %s not after last configuration start %s",
			horizonEnd.Format(time.RFC3339), last.Format(time.RFC3339))
	}

	entries := make([]Entry[T], len(starts))
	for i, s := range starts {
		end := horizonEnd
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		entries[i] = Entry[T]{Period: Period{Start: s, End: end}, Value: configs[s]}
	}
	return &TemporalModel[T]{entries: entries}, nil
}

// All returns the entries in ascending period order. The returned slice is
// shared; callers must not modify it.
func (m *TemporalModel[T]) All() []Entry[T] {
	return m.entries
}

// Len returns the number of entries.
func (m *TemporalModel[T]) Len() int {
	return len(m.entries)
}

// Horizon returns the period spanned by the whole model.
func (m *TemporalModel[T]) Horizon() Period {
	return Period{Start: m.entries[0].Period.Start, End: m.entries[len(m.entries)-1].Period.End}
}

// Clip returns the entries whose periods intersect eval, each trimmed to the
// intersection. Entries outside eval are dropped.
func (m *TemporalModel[T]) Clip(eval Period) []Entry[T] {
	var out []Entry[T]
	for _, e := range m.entries {
		if p, ok := e.Period.Intersection(eval); ok {
			out = append(out, Entry[T]{Period: p, Value: e.Value})
		}
	}
	return out
}

// At returns the configuration active at t and whether one exists.
func (m *TemporalModel[T]) At(t time.Time) (T, bool) {
	// First entry starting after t is at index i; the candidate is i-1.
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Period.Start.After(t)
	})
	if i == 0 {
		var zero T
		return zero, false
	}
	e := m.entries[i-1]
	if !e.Period.Contains(t) {
		var zero T
		return zero, false
	}
	return e.Value, true
}

// Subset returns the half-open index range [lo, hi) of the ordered time
// vector times that falls inside p. The search is binary over the ordered
// vector, O(log n).
//
// The returned indices address parallel per-timestep arrays produced by
// expression evaluation; no data is copied.
func Subset(times []time.Time, p Period) (lo, hi int) {
	lo = sort.Search(len(times), func(i int) bool { return !times[i].Before(p.Start) })
	hi = sort.Search(len(times), func(i int) bool { return !times[i].Before(p.End) })
	return lo, hi
}
