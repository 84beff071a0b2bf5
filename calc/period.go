package calc

// =============================================================================
// INTERVAL - Date range with an optional open end
// =============================================================================

// Interval is a date range [Start, End]. A nil End means the interval runs
// indefinitely into the future.
type Interval struct {
	Start Date
	End   *Date
}

// Closed builds an interval with both bounds set.
func Closed(start, end Date) Interval {
	return Interval{Start: start, End: &end}
}

// OpenEnded builds an interval with no upper bound.
func OpenEnded(start Date) Interval {
	return Interval{Start: start}
}

// IsOpen reports whether the interval has no upper bound.
func (i Interval) IsOpen() bool { return i.End == nil }

// Contains returns true if d is within [Start, End].
func (i Interval) Contains(d Date) bool {
	if d.Before(i.Start) {
		return false
	}
	return i.End == nil || d.BeforeOrEqual(*i.End)
}

// Overlap intersects [from, to] with the interval. ok is false when the
// intersection is empty or degenerate (a single instant).
func (i Interval) Overlap(from, to Date) (start, end Date, ok bool) {
	start = MaxDate(from, i.Start)
	end = to
	if i.End != nil {
		end = MinDate(to, *i.End)
	}
	return start, end, start.Before(end)
}

// String returns a string representation of the interval.
func (i Interval) String() string {
	if i.End == nil {
		return "[" + i.Start.String() + ", ∞)"
	}
	return "[" + i.Start.String() + ", " + i.End.String() + "]"
}
