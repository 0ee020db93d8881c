package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestModel builds a three-entry model spanning 2024-01-01 to 2024-07-01.
func newTestModel(t *testing.T) *TemporalModel[string] {
	t.Helper()
	m, err := NewTemporalModel(map[time.Time]string{
		date(2024, 1, 1): "a",
		date(2024, 3, 1): "b",
		date(2024, 5, 1): "c",
	}, date(2024, 7, 1))
	require.NoError(t, err)
	return m
}

func TestNewTemporalModel_SortsAndChainsPeriods(t *testing.T) {
	m := newTestModel(t)

	entries := m.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Value)
	assert.Equal(t, "b", entries[1].Value)
	assert.Equal(t, "c", entries[2].Value)

	// Contiguous: each period ends where the next begins.
	for i := 0; i+1 < len(entries); i++ {
		assert.Equal(t, entries[i].Period.End, entries[i+1].Period.Start)
	}
	assert.Equal(t, date(2024, 7, 1), entries[2].Period.End)
}

func TestNewTemporalModel_Validation(t *testing.T) {
	_, err := NewTemporalModel(map[time.Time]string{}, date(2024, 1, 1))
	require.Error(t, err)

	_, err = NewTemporalModel(map[time.Time]string{date(2024, 5, 1): "x"}, date(2024, 5, 1))
	require.Error(t, err, "horizon must extend past the last start")
}

// Every instant inside the horizon maps to exactly one entry.
func TestTemporalModel_ExactlyOneActiveConfiguration(t *testing.T) {
	m := newTestModel(t)

	horizon := m.Horizon()
	for cursor := horizon.Start; cursor.Before(horizon.End); cursor = cursor.AddDate(0, 0, 1) {
		active := 0
		for _, e := range m.All() {
			if e.Period.Contains(cursor) {
				active++
			}
		}
		assert.Equal(t, 1, active, "instant %s", cursor)
	}
}

func TestTemporalModel_At(t *testing.T) {
	m := newTestModel(t)

	v, ok := m.At(date(2024, 3, 15))
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = m.At(date(2024, 1, 1))
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = m.At(date(2023, 12, 31))
	assert.False(t, ok, "before horizon")
	_, ok = m.At(date(2024, 7, 1))
	assert.False(t, ok, "horizon end is exclusive")
}

func TestTemporalModel_Clip(t *testing.T) {
	m := newTestModel(t)

	clipped := m.Clip(Period{Start: date(2024, 2, 1), End: date(2024, 4, 1)})
	require.Len(t, clipped, 2)
	assert.Equal(t, "a", clipped[0].Value)
	assert.Equal(t, Period{Start: date(2024, 2, 1), End: date(2024, 3, 1)}, clipped[0].Period)
	assert.Equal(t, "b", clipped[1].Value)
	assert.Equal(t, Period{Start: date(2024, 3, 1), End: date(2024, 4, 1)}, clipped[1].Period)
}

func TestSubset(t *testing.T) {
	times := []time.Time{
		date(2024, 1, 1), date(2024, 2, 1), date(2024, 3, 1),
		date(2024, 4, 1), date(2024, 5, 1), date(2024, 6, 1),
	}

	lo, hi := Subset(times, Period{Start: date(2024, 3, 1), End: date(2024, 5, 1)})
	assert.Equal(t, 2, lo)
	assert.Equal(t, 4, hi)

	lo, hi = Subset(times, Period{Start: date(2023, 1, 1), End: date(2030, 1, 1)})
	assert.Equal(t, 0, lo)
	assert.Equal(t, 6, hi)

	lo, hi = Subset(times, Period{Start: date(2025, 1, 1), End: date(2026, 1, 1)})
	assert.Equal(t, lo, hi, "empty range when no points fall inside")
}
