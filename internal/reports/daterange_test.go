package reports

import (
	"testing"
	"time"
)

func TestParseRange_Defaults(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	r, err := ParseRange("", "", now)
	if err != nil {
		t.Fatalf("ParseRange() failed: %v", err)
	}

	if !r.End.Equal(now) {
		t.Errorf("Expected end %v, got %v", now, r.End)
	}

	wantStart := now.AddDate(0, 0, -30)
	if !r.Start.Equal(wantStart) {
		t.Errorf("Expected start %v, got %v", wantStart, r.Start)
	}
}

func TestParseRange_Explicit(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	r, err := ParseRange("2026-03-01", "2026-03-10", now)
	if err != nil {
		t.Fatalf("ParseRange() failed: %v", err)
	}

	if r.Start.Format("2006-01-02") != "2026-03-01" {
		t.Errorf("Unexpected start %v", r.Start)
	}

	// End widened to cover the whole end day.
	if r.End.Before(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("End should cover the full end day, got %v", r.End)
	}
	if !r.End.Before(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End leaked into the next day: %v", r.End)
	}
}

func TestParseRange_SingleDay(t *testing.T) {
	now := time.Now()

	r, err := ParseRange("2026-03-05", "2026-03-05", now)
	if err != nil {
		t.Fatalf("ParseRange() failed: %v", err)
	}
	if r.End.Before(r.Start) {
		t.Error("Single-day range should be valid")
	}
}

func TestParseRange_Invalid(t *testing.T) {
	now := time.Now()

	if _, err := ParseRange("03/01/2026", "", now); err == nil {
		t.Error("Expected error for bad start_date format")
	}
	if _, err := ParseRange("2026-03-10", "2026-03-01", now); err == nil {
		t.Error("Expected error for end before start")
	}
}

func TestFillDaily(t *testing.T) {
	r := Range{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 4, 23, 59, 59, 0, time.UTC),
	}

	sparse := []DayBucket{
		{Date: "2026-03-02", TotalJobs: 3, TotalPages: 35},
		{Date: "2026-03-04", TotalJobs: 1, TotalPages: 5},
	}

	out := fillDaily(r, sparse)

	if len(out) != 4 {
		t.Fatalf("Expected 4 buckets, got %d", len(out))
	}

	if out[0].Date != "2026-03-01" || out[0].TotalJobs != 0 {
		t.Errorf("Expected empty bucket for 2026-03-01, got %+v", out[0])
	}
	if out[1].TotalPages != 35 {
		t.Errorf("Expected 35 pages on 2026-03-02, got %d", out[1].TotalPages)
	}
	if out[3].Date != "2026-03-04" || out[3].TotalJobs != 1 {
		t.Errorf("Expected filled bucket for 2026-03-04, got %+v", out[3])
	}
}
