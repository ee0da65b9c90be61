package scanner

import (
	"reflect"
	"testing"
	"time"
)

func TestParseScanTimes(t *testing.T) {
	times, err := ParseScanTimes([]string{"14:45", "09:00", "18:30"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ScanTime{{9, 0}, {14, 45}, {18, 30}}
	if !reflect.DeepEqual(times, want) {
		t.Errorf("expected sorted %v, got %v", want, times)
	}
}

func TestParseScanTimes_Invalid(t *testing.T) {
	for _, entries := range [][]string{
		{},
		{"25:00"},
		{"9am"},
		{"09:00", "banana"},
	} {
		if _, err := ParseScanTimes(entries); err == nil {
			t.Errorf("expected an error for %v", entries)
		}
	}
}

func TestNextScanTime(t *testing.T) {
	times := []ScanTime{{9, 0}, {14, 45}, {18, 30}}
	loc := time.UTC

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"before first trigger",
			time.Date(2024, 3, 5, 7, 30, 0, 0, loc),
			time.Date(2024, 3, 5, 9, 0, 0, 0, loc),
		},
		{
			"between triggers",
			time.Date(2024, 3, 5, 12, 0, 0, 0, loc),
			time.Date(2024, 3, 5, 14, 45, 0, 0, loc),
		},
		{
			"exactly at a trigger picks the next one",
			time.Date(2024, 3, 5, 14, 45, 0, 0, loc),
			time.Date(2024, 3, 5, 18, 30, 0, 0, loc),
		},
		{
			"after last trigger rolls to tomorrow",
			time.Date(2024, 3, 5, 23, 0, 0, 0, loc),
			time.Date(2024, 3, 6, 9, 0, 0, 0, loc),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NextScanTime(tc.now, times)
			if !got.Equal(tc.want) {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
