package clock

import (
	"testing"
	"time"
)

func TestLocalDay(t *testing.T) {
	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{
			name:  "afternoon UTC in summer stays on the same day",
			input: time.Date(2026, 6, 15, 14, 0, 0, 0, time.UTC),
			want:  "2026-06-15",
		},
		{
			name:  "late UTC evening in summer rolls to the next Amsterdam day",
			input: time.Date(2026, 6, 15, 22, 30, 0, 0, time.UTC), // 00:30 CEST next day
			want:  "2026-06-16",
		},
		{
			name:  "late UTC evening in winter rolls over at 23:00",
			input: time.Date(2026, 1, 15, 23, 30, 0, 0, time.UTC), // 00:30 CET next day
			want:  "2026-01-16",
		},
		{
			name:  "22:30 UTC in winter is still the same Amsterdam day",
			input: time.Date(2026, 1, 15, 22, 30, 0, 0, time.UTC), // 23:30 CET
			want:  "2026-01-15",
		},
		{
			name:  "non-UTC input is converted, not trusted",
			input: time.Date(2026, 6, 15, 18, 0, 0, 0, time.FixedZone("PDT", -7*60*60)), // 01:00 UTC next day
			want:  "2026-06-16",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocalDay(tt.input); got != tt.want {
				t.Errorf("LocalDay(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSameLocalDay(t *testing.T) {
	a := time.Date(2026, 6, 15, 1, 0, 0, 0, time.UTC)
	b := time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC) // 22:00 CEST, same day
	c := time.Date(2026, 6, 15, 23, 0, 0, 0, time.UTC) // 01:00 CEST next day

	if !SameLocalDay(a, b) {
		t.Errorf("expected %v and %v on the same local day", a, b)
	}
	if SameLocalDay(a, c) {
		t.Errorf("expected %v and %v on different local days", a, c)
	}
}

func TestDayBounds(t *testing.T) {
	// Ordinary day: exactly 24 hours.
	start, end := DayBounds(time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC))
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("ordinary day length = %v, want 24h", got)
	}
	if LocalDay(start) != "2026-06-15" {
		t.Errorf("start day = %q, want 2026-06-15", LocalDay(start))
	}

	// The instant before midnight belongs to the day, midnight itself does not.
	if !start.Before(end) {
		t.Fatal("start must precede end")
	}
	lastInstant := end.Add(-time.Nanosecond)
	if LocalDay(lastInstant) != "2026-06-15" {
		t.Errorf("instant before end resolves to %q, want 2026-06-15", LocalDay(lastInstant))
	}
	if LocalDay(end) != "2026-06-16" {
		t.Errorf("end resolves to %q, want 2026-06-16", LocalDay(end))
	}

	// Spring-forward day in Europe/Amsterdam (2026-03-29) is 23 hours.
	start, end = DayBounds(time.Date(2026, 3, 29, 12, 0, 0, 0, time.UTC))
	if got := end.Sub(start); got != 23*time.Hour {
		t.Errorf("DST spring-forward day length = %v, want 23h", got)
	}

	// Fall-back day (2026-10-25) is 25 hours.
	start, end = DayBounds(time.Date(2026, 10, 25, 12, 0, 0, 0, time.UTC))
	if got := end.Sub(start); got != 25*time.Hour {
		t.Errorf("DST fall-back day length = %v, want 25h", got)
	}
}

func TestDayBoundsFor(t *testing.T) {
	start, end, err := DayBoundsFor("2026-09-01")
	if err != nil {
		t.Fatalf("DayBoundsFor() unexpected error = %v", err)
	}
	if LocalDay(start) != "2026-09-01" {
		t.Errorf("start day = %q, want 2026-09-01", LocalDay(start))
	}
	if LocalDay(end) != "2026-09-02" {
		t.Errorf("end day = %q, want 2026-09-02", LocalDay(end))
	}

	if _, _, err := DayBoundsFor("not-a-day"); err == nil {
		t.Error("expected error for malformed day string")
	}
}

func TestPreviousDay(t *testing.T) {
	tests := []struct {
		name string
		day  string
		want string
	}{
		{
			name: "mid-month",
			day:  "2026-09-15",
			want: "2026-09-14",
		},
		{
			name: "month boundary",
			day:  "2026-09-01",
			want: "2026-08-31",
		},
		{
			name: "year boundary",
			day:  "2026-01-01",
			want: "2025-12-31",
		},
		{
			name: "leap day",
			day:  "2028-03-01",
			want: "2028-02-29",
		},
		{
			name: "invalid input",
			day:  "yesterday",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PreviousDay(tt.day); got != tt.want {
				t.Errorf("PreviousDay(%q) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	c := &FixedClock{T: instant}

	if !c.Now().Equal(instant) {
		t.Errorf("Now() = %v, want %v", c.Now(), instant)
	}

	c.Advance(48 * time.Hour)
	if got := LocalDay(c.Now()); got != "2026-09-03" {
		t.Errorf("after Advance, LocalDay = %q, want 2026-09-03", got)
	}
}
