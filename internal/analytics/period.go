package analytics

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument marks structurally bad input: an unknown range kind, a
// malformed date, a denominator that must be positive. Callers check it with
// errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// RangeKind selects a lookback window and its bucket granularity.
type RangeKind string

const (
	RangeLast7Days   RangeKind = "last-7-days"
	RangeLastMonth   RangeKind = "last-month"
	RangeLast3Months RangeKind = "last-3-months"
	RangeLast6Months RangeKind = "last-6-months"
	RangeLastYear    RangeKind = "last-year"
	RangeLast3Years  RangeKind = "last-3-years"
)

// ParseRangeKind maps a raw query token to a RangeKind.
func ParseRangeKind(raw string) (RangeKind, error) {
	kind := RangeKind(raw)
	if _, ok := policies[kind]; !ok {
		return "", fmt.Errorf("%w: unknown range kind %q", ErrInvalidArgument, raw)
	}
	return kind, nil
}

// TimeBucket is one aggregation unit. Start and End are calendar dates at
// midnight UTC; End is the inclusive last day of the bucket.
type TimeBucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// Key is the unique aggregation key for the bucket. Labels repeat inside
// some windows (two partial "Jun" buckets in a last-year window); the start
// date never does.
func (b TimeBucket) Key() string {
	return b.Start.Format("2006-01-02")
}

// Contains reports whether a visit date falls inside the bucket.
func (b TimeBucket) Contains(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(b.Start) && !d.After(b.End)
}

// DateOf strips the time and zone components, keeping the calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// rangePolicy is one row of the granularity table: where the window starts,
// where a bucket beginning at cursor ends, and how the bucket is labeled.
type rangePolicy struct {
	start     func(end time.Time) time.Time
	bucketEnd func(cursor time.Time) time.Time
	label     func(cursor time.Time, ordinal int) string
}

var policies = map[RangeKind]rangePolicy{
	RangeLast7Days: {
		start:     func(end time.Time) time.Time { return end.AddDate(0, 0, -6) },
		bucketEnd: func(cursor time.Time) time.Time { return cursor },
		label:     func(cursor time.Time, _ int) string { return cursor.Format("Mon") },
	},
	RangeLastMonth: {
		start:     func(end time.Time) time.Time { return addMonths(end, -1) },
		bucketEnd: func(cursor time.Time) time.Time { return cursor.AddDate(0, 0, 6) },
		label:     func(_ time.Time, ordinal int) string { return fmt.Sprintf("Week %d", ordinal) },
	},
	RangeLast3Months: {
		start:     func(end time.Time) time.Time { return addMonths(end, -3) },
		bucketEnd: lastDayOfMonth,
		label:     monthLabel,
	},
	RangeLast6Months: {
		start:     func(end time.Time) time.Time { return addMonths(end, -6) },
		bucketEnd: lastDayOfMonth,
		label:     monthLabel,
	},
	RangeLastYear: {
		start:     func(end time.Time) time.Time { return addMonths(end, -12) },
		bucketEnd: lastDayOfMonth,
		label:     monthLabel,
	},
	RangeLast3Years: {
		start:     func(end time.Time) time.Time { return addMonths(end, -36) },
		bucketEnd: lastDayOfQuarter,
		label: func(cursor time.Time, _ int) string {
			return fmt.Sprintf("Q%d %d", (int(cursor.Month())-1)/3+1, cursor.Year())
		},
	},
}

// Partition splits [start, referenceEnd] into contiguous ordered buckets at
// the granularity the kind prescribes. The first bucket starts at the window
// start, the last bucket ends exactly at referenceEnd, and no two buckets
// overlap.
func Partition(kind RangeKind, referenceEnd time.Time) ([]TimeBucket, error) {
	policy, ok := policies[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown range kind %q", ErrInvalidArgument, kind)
	}
	if referenceEnd.IsZero() {
		return nil, fmt.Errorf("%w: reference end date required", ErrInvalidArgument)
	}

	end := DateOf(referenceEnd)
	cursor := DateOf(policy.start(end))

	var buckets []TimeBucket
	for ordinal := 1; !cursor.After(end); ordinal++ {
		bucketEnd := policy.bucketEnd(cursor)
		if bucketEnd.After(end) {
			bucketEnd = end
		}
		buckets = append(buckets, TimeBucket{
			Start: cursor,
			End:   bucketEnd,
			Label: policy.label(cursor, ordinal),
		})
		cursor = bucketEnd.AddDate(0, 0, 1)
	}
	return buckets, nil
}

func monthLabel(cursor time.Time, _ int) string {
	return cursor.Format("Jan")
}

func lastDayOfMonth(cursor time.Time) time.Time {
	return time.Date(cursor.Year(), cursor.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func lastDayOfQuarter(cursor time.Time) time.Time {
	quarterEnd := time.Month((int(cursor.Month())-1)/3*3 + 3)
	return time.Date(cursor.Year(), quarterEnd+1, 0, 0, 0, 0, 0, time.UTC)
}

// addMonths shifts by whole calendar months, clamping to the last day of the
// target month instead of normalizing past it (Mar 31 minus one month must be
// Feb 28/29, not Mar 3).
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	if last := lastDayOfMonth(first).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}
