package event

import (
	"fmt"
	"time"
)

// Countdown is the remaining time until the scheduled start, decomposed
// into whole components.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Remaining floors max(0, start-now) to whole seconds and decomposes it.
// A start in the past yields the all-zero countdown, never negative parts.
func Remaining(now, start time.Time) Countdown {
	total := int(start.Sub(now) / time.Second)
	if total < 0 {
		total = 0
	}
	return Countdown{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

// String renders the countdown the way the display shows it, e.g.
// "1T 02:03:04"; the day component is omitted when zero.
func (c Countdown) String() string {
	if c.Days > 0 {
		return fmt.Sprintf("%dT %02d:%02d:%02d", c.Days, c.Hours, c.Minutes, c.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", c.Hours, c.Minutes, c.Seconds)
}
