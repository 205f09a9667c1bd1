package event

import (
	"encoding/json"
	"regexp"
	"time"
)

// Submission is an untrusted admin request body. Fields are loosely typed
// so a malformed flag or list degrades to its zero default instead of
// failing the whole decode; only bodies that are not JSON at all are
// rejected, before normalization runs.
type Submission struct {
	Live   any `json:"live"`
	Ended  any `json:"ended"`
	Start  any `json:"start"`
	Info   any `json:"info"`
	Shifts any `json:"shifts"`
}

var bareDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Normalize folds an untrusted submission into a config that satisfies the
// stored-state invariants. The fold is stateless: the full normalized state
// is re-derived from the snapshot rather than diffed against the previous
// record, so there is no such thing as an invalid transition, only an
// invalid resulting state, which the fold makes unreachable.
//
// Order matters: ended forces live, the phase decides whether start is
// accepted, and the phase decides whether shifts are inspected at all.
func Normalize(sub Submission) Config {
	ended := asBool(sub.Ended)
	live := asBool(sub.Live) || ended // an ended event is a concluded live event

	cfg := Config{
		Live:   live,
		Ended:  ended,
		Info:   asString(sub.Info),
		Shifts: []Shift{},
	}

	// A scheduled start only makes sense before the event runs. A value
	// that does not parse counts as not provided.
	if cfg.Phase() == PhaseNotStarted {
		if s, ok := sub.Start.(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				iso := t.Format(time.RFC3339)
				cfg.Start = &iso
			}
		}
	}

	if cfg.Phase() == PhaseLive {
		cfg.Shifts = normalizeShifts(sub.Shifts)
	}

	return cfg
}

// normalizeShifts accepts a list, or a JSON-encoded string of a list as the
// old per-field storage wrote it, and keeps at most MaxShifts structurally
// valid entries. Invalid entries are dropped one by one, never the whole
// list.
func normalizeShifts(v any) []Shift {
	items, ok := v.([]any)
	if !ok {
		if s, isStr := v.(string); isStr {
			var decoded []any
			if err := json.Unmarshal([]byte(s), &decoded); err == nil {
				items = decoded
			}
		}
	}

	shifts := make([]Shift, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		kind, ok := asShiftKind(entry["type"])
		if !ok {
			continue
		}
		status, ok := asShiftStatus(entry["status"])
		if !ok {
			continue
		}
		rawDate, ok := entry["date"].(string)
		if !ok {
			continue
		}
		date, ok := normalizeDate(rawDate)
		if !ok {
			continue
		}

		shifts = append(shifts, Shift{Type: kind, Date: date, Status: status})
		if len(shifts) == MaxShifts {
			break
		}
	}
	return shifts
}

// normalizeDate reduces a bare date or a full timestamp to its calendar
// date at UTC.
func normalizeDate(s string) (string, bool) {
	if bareDateRe.MatchString(s) {
		return s, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", false
	}
	return t.UTC().Format("2006-01-02"), true
}

func asBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asShiftKind(v any) (ShiftKind, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	switch k := ShiftKind(s); k {
	case KindMorning, KindLate, KindNight:
		return k, true
	}
	return "", false
}

func asShiftStatus(v any) (ShiftStatus, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	switch st := ShiftStatus(s); st {
	case StatusMustWork, StatusFree:
		return st, true
	}
	return "", false
}
