package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestNewPeriod_RejectsReversedBounds(t *testing.T) {
	_, err := NewPeriod(date(2024, 2, 1), date(2024, 1, 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start")
}

func TestPeriod_ContainsIsHalfOpen(t *testing.T) {
	p, err := NewPeriod(date(2024, 1, 1), date(2024, 2, 1))
	require.NoError(t, err)

	assert.True(t, p.Contains(date(2024, 1, 1)), "start is inclusive")
	assert.True(t, p.Contains(date(2024, 1, 15)))
	assert.False(t, p.Contains(date(2024, 2, 1)), "end is exclusive")
	assert.False(t, p.Contains(date(2023, 12, 31)))
}

func TestPeriod_Intersects(t *testing.T) {
	a := Period{Start: date(2024, 1, 1), End: date(2024, 3, 1)}

	tests := []struct {
		name string
		b    Period
		want bool
	}{
		{"overlapping", Period{Start: date(2024, 2, 1), End: date(2024, 4, 1)}, true},
		{"contained", Period{Start: date(2024, 1, 10), End: date(2024, 1, 20)}, true},
		{"touching at end", Period{Start: date(2024, 3, 1), End: date(2024, 4, 1)}, false},
		{"touching at start", Period{Start: date(2023, 1, 1), End: date(2024, 1, 1)}, false},
		{"disjoint", Period{Start: date(2025, 1, 1), End: date(2025, 2, 1)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Intersects(tt.b))
			assert.Equal(t, tt.want, tt.b.Intersects(a), "intersection is symmetric")
		})
	}
}

func TestPeriod_Intersection(t *testing.T) {
	a := Period{Start: date(2024, 1, 1), End: date(2024, 3, 1)}
	b := Period{Start: date(2024, 2, 1), End: date(2024, 4, 1)}

	got, ok := a.Intersection(b)
	require.True(t, ok)
	assert.Equal(t, Period{Start: date(2024, 2, 1), End: date(2024, 3, 1)}, got)

	_, ok = a.Intersection(Period{Start: date(2024, 3, 1), End: date(2024, 4, 1)})
	assert.False(t, ok)
}
