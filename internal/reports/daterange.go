package reports

import (
	"fmt"
	"time"
)

// Range is a closed [Start, End] query window over print_time.
type Range struct {
	Start time.Time
	End   time.Time
}

// ParseRange builds a Range from optional YYYY-MM-DD query values.
// A missing start defaults to 30 days before now, a missing end to now.
// End dates are widened to the last instant of that day so a single-day
// range covers the whole day.
func ParseRange(startDate, endDate string, now time.Time) (Range, error) {
	r := Range{
		Start: now.AddDate(0, 0, -30),
		End:   now,
	}

	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return Range{}, fmt.Errorf("invalid start_date %q", startDate)
		}
		r.Start = t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return Range{}, fmt.Errorf("invalid end_date %q", endDate)
		}
		r.End = t.AddDate(0, 0, 1).Add(-time.Second)
	}

	if r.End.Before(r.Start) {
		return Range{}, fmt.Errorf("end_date before start_date")
	}
	return r, nil
}

// fillDaily expands sparse per-day rows into a continuous series covering
// every day of the range, zero buckets included, so chart axes stay regular.
func fillDaily(r Range, rows []DayBucket) []DayBucket {
	byDate := make(map[string]DayBucket, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}

	var out []DayBucket
	for day := r.Start.Truncate(24 * time.Hour); !day.After(r.End); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if row, ok := byDate[key]; ok {
			out = append(out, row)
		} else {
			out = append(out, DayBucket{Date: key})
		}
	}
	return out
}
