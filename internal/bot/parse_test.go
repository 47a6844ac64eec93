package bot

import (
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  float64
	}{
		{"500000", 500_000},
		{"1.5M", 1_500_000},
		{"1.5m", 1_500_000},
		{"45K", 45_000},
		{"45k", 45_000},
		{"$1,200,000", 1_200_000},
		{"$45 K", 45_000},
		{" 250 ", 250},
		{"", 0},
		{"soon", 0},
		{"K", 0},
	}
	for _, tt := range tests {
		got := ParseAmount(tt.input)
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDueDate_keywords(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2026, time.March, 10+offset, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		input string
		want  *time.Time
	}{
		{"TODAY", ptrTime(day(0))},
		{"today", ptrTime(day(0))},
		{"TOMORROW", ptrTime(day(1))},
		{"WEEK", ptrTime(day(7))},
		{"SKIP", nil},
		{"NA", nil},
		{"none", nil},
		{"", nil},
		{"whenever", nil},
	}
	for _, tt := range tests {
		got := parseDueDate(tt.input, now)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseDueDate(%q) = %v, want nil", tt.input, got)
		case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
			t.Errorf("parseDueDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseDueDate_layouts(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-04-01", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{"04/01/2026", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{"Apr 1 2026", time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		// Year-less spellings inherit the current year.
		{"Jan 25", time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC)},
		{"January 25", time.Date(2026, time.January, 25, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := parseDueDate(tt.input, now)
		if got == nil {
			t.Errorf("parseDueDate(%q) = nil, want %v", tt.input, tt.want)
			continue
		}
		if got.Year() != tt.want.Year() || got.Month() != tt.want.Month() || got.Day() != tt.want.Day() {
			t.Errorf("parseDueDate(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
