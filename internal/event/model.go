package event

// Phase is the lifecycle stage of the counted event.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseLive       Phase = "live"
	PhaseEnded      Phase = "ended"
)

// ShiftKind identifies which shift of a day an entry refers to. The German
// literals are the wire contract of the admin UI and are stored as-is.
type ShiftKind string

const (
	KindMorning ShiftKind = "Früh"
	KindLate    ShiftKind = "Spät"
	KindNight   ShiftKind = "Nacht"
)

// ShiftStatus says whether the operator works the shift.
type ShiftStatus string

const (
	StatusMustWork ShiftStatus = "Muss arbeiten"
	StatusFree     ShiftStatus = "Hat frei"
)

// MaxShifts caps the shift overview shown during the live phase.
const MaxShifts = 3

// Shift is a single per-day entry of the live-phase shift overview.
type Shift struct {
	Type   ShiftKind   `json:"type"`
	Date   string      `json:"date"` // bare calendar date, YYYY-MM-DD
	Status ShiftStatus `json:"status"`
}

// Config is the single persisted record describing the event: its phase
// flags, the scheduled start while counting down, the public info text and
// the live-phase shift entries.
type Config struct {
	Live   bool    `json:"live"`
	Ended  bool    `json:"ended"`
	Start  *string `json:"start"` // RFC 3339 with offset, nil when unscheduled
	Info   string  `json:"info"`
	Shifts []Shift `json:"shifts"`
}

// Default returns the all-defaults record served before anything was saved.
func Default() Config {
	return Config{Shifts: []Shift{}}
}

// Phase derives the three-state lifecycle stage from the stored flags.
// An ended event keeps live set, so ended wins the derivation.
func (c Config) Phase() Phase {
	switch {
	case c.Ended:
		return PhaseEnded
	case c.Live:
		return PhaseLive
	default:
		return PhaseNotStarted
	}
}
