package planning

// Range is a half-open [Start,End) clock-time interval.
type Range struct {
	Start ClockTime
	End   ClockTime
}

// WellFormed reports Start < End with both bounds inside the day.
func (r Range) WellFormed() bool {
	return r.Start.Valid() && r.End.Valid() && r.Start < r.End
}

// Overlaps reports whether two half-open ranges share any instant.
// Touching endpoints do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Intersect returns the common sub-range, if any.
func (r Range) Intersect(other Range) (Range, bool) {
	out := Range{
		Start: max(r.Start, other.Start),
		End:   min(r.End, other.End),
	}
	if out.Start >= out.End {
		return Range{}, false
	}
	return out, true
}

// Contains reports Start <= t < End.
func (r Range) Contains(t ClockTime) bool {
	return r.Start <= t && t < r.End
}

// parseRange converts "HH:MM" bounds into a Range. Malformed or inverted
// bounds return ok=false so callers fail closed.
func parseRange(start, end string) (Range, bool) {
	s, err := ParseClock(start)
	if err != nil {
		return Range{}, false
	}
	e, err := ParseClock(end)
	if err != nil {
		return Range{}, false
	}
	r := Range{Start: s, End: e}
	if !r.WellFormed() {
		return Range{}, false
	}
	return r, true
}
