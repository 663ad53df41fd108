package domain

import (
	"errors"
	"testing"
)

func TestBucketHourBoundaries(t *testing.T) {
	cases := []struct {
		hour int
		want TimeOfDay
	}{
		{0, Night},
		{4, Night},
		{5, Morning},
		{11, Morning},
		{12, Afternoon},
		{17, Afternoon},
		{18, Evening},
		{21, Evening},
		{22, Night},
		{23, Night},
	}

	for _, tc := range cases {
		got, err := BucketHour(tc.hour)
		if err != nil {
			t.Fatalf("BucketHour(%d): unexpected error: %v", tc.hour, err)
		}
		if got != tc.want {
			t.Errorf("BucketHour(%d) = %q, want %q", tc.hour, got, tc.want)
		}
	}
}

func TestBucketHourPartitionsDay(t *testing.T) {
	counts := map[TimeOfDay]int{}
	for h := 0; h < 24; h++ {
		got, err := BucketHour(h)
		if err != nil {
			t.Fatalf("BucketHour(%d): unexpected error: %v", h, err)
		}
		counts[got]++
	}

	want := map[TimeOfDay]int{Morning: 7, Afternoon: 6, Evening: 4, Night: 7}
	if len(counts) != len(want) {
		t.Fatalf("labels = %v, want exactly %v", counts, want)
	}
	for label, n := range want {
		if counts[label] != n {
			t.Errorf("%s hours = %d, want %d", label, counts[label], n)
		}
	}
}

func TestBucketHourRejectsOutOfRange(t *testing.T) {
	for _, h := range []int{-1, 24, 100} {
		if _, err := BucketHour(h); !errors.Is(err, ErrInvalidHour) {
			t.Errorf("BucketHour(%d) err = %v, want ErrInvalidHour", h, err)
		}
	}
}
