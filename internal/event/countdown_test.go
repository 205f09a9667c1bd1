package event

import (
	"testing"
	"time"
)

func TestRemaining(t *testing.T) {
	testCases := []struct {
		name  string
		now   time.Time
		start time.Time
		want  Countdown
	}{
		{
			name:  "ninety seconds ahead",
			now:   time.UnixMilli(0),
			start: time.UnixMilli(90000),
			want:  Countdown{Minutes: 1, Seconds: 30},
		},
		{
			name:  "start in the past clamps to zero",
			now:   time.UnixMilli(1000),
			start: time.UnixMilli(500),
			want:  Countdown{},
		},
		{
			name:  "exactly now",
			now:   time.UnixMilli(5000),
			start: time.UnixMilli(5000),
			want:  Countdown{},
		},
		{
			name:  "sub-second remainder floors",
			now:   time.UnixMilli(0),
			start: time.UnixMilli(90999),
			want:  Countdown{Minutes: 1, Seconds: 30},
		},
		{
			name:  "multi-day decomposition",
			now:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			start: time.Date(2025, 1, 2, 2, 3, 4, 0, time.UTC),
			want:  Countdown{Days: 1, Hours: 2, Minutes: 3, Seconds: 4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Remaining(tc.now, tc.start)
			if got != tc.want {
				t.Errorf("Remaining() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCountdownString(t *testing.T) {
	testCases := []struct {
		name string
		c    Countdown
		want string
	}{
		{"with days", Countdown{Days: 1, Hours: 2, Minutes: 3, Seconds: 4}, "1T 02:03:04"},
		{"without days", Countdown{Hours: 12, Minutes: 30, Seconds: 5}, "12:30:05"},
		{"zero", Countdown{}, "00:00:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}
