package timeline

import (
	"fmt"
	"time"
)

// Period is a half-open time interval [Start, End).
//
// Periods order by Start. A Period with End equal to Start is empty and
// contains no instant.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod creates a Period and validates that start precedes end.
func NewPeriod(start, end time.Time) (Period, error) {
	if end.Before(start) {
		return Period{}, fmt.Errorf("period end %s before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Period{Start: start, End: end}, nil
}

// Contains reports whether t lies inside the half-open interval.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Intersects reports whether p and o share at least one instant.
// Touching endpoints do not intersect because intervals are half-open.
func (p Period) Intersects(o Period) bool {
	return p.Start.Before(o.End) && o.Start.Before(p.End)
}

// Intersection returns the overlap of p and o and whether it is non-empty.
func (p Period) Intersection(o Period) (Period, bool) {
	if !p.Intersects(o) {
		return Period{}, false
	}
	out := p
	if o.Start.After(out.Start) {
		out.Start = o.Start
	}
	if o.End.Before(out.End) {
		out.End = o.End
	}
	return out, true
}

// Before reports whether p orders strictly before o (by Start).
func (p Period) Before(o Period) bool {
	return p.Start.Before(o.Start)
}

// String formats the period as [start, end) in RFC 3339.
func (p Period) String() string {
	return fmt.Sprintf("[%s, %s)", p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339))
}
