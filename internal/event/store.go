package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gitea.jw6.us/james/countboard/internal/store"
)

const (
	// configKey holds the current format: one JSON blob of the full record.
	configKey = "config"
	// legacyConfigKey holds the old format: a field map with "0"/"1"
	// booleans and the shift list as a JSON string. Kept as a mirror for
	// readers that still consume it.
	legacyConfigKey = "settings"
)

// Store persists the event configuration. It owns both on-disk
// representations and migrates legacy records to the current format the
// first time they are read.
type Store struct {
	kv store.KV
}

func NewStore(kv store.KV) *Store {
	return &Store{kv: kv}
}

// Load reads the stored configuration, preferring the current format. A
// record found only in legacy form is decoded, written back in current
// form and then returned. An empty store yields the default record.
func (s *Store) Load(ctx context.Context) (Config, error) {
	raw, err := s.kv.Get(ctx, configKey)
	switch {
	case err == nil:
		var cfg Config
		if jsonErr := json.Unmarshal([]byte(raw), &cfg); jsonErr == nil {
			return withDefaults(cfg), nil
		}
		// Corrupt blob: fall through to the legacy representation.
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrWrongType):
		// Fall through to the legacy representation.
	default:
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	fields, err := s.kv.HGetAll(ctx, legacyConfigKey)
	if err != nil && !errors.Is(err, store.ErrWrongType) {
		return Config{}, fmt.Errorf("load legacy config: %w", err)
	}
	if len(fields) == 0 {
		return Default(), nil
	}

	cfg := decodeLegacy(fields)
	if err := s.writeCurrent(ctx, cfg); err != nil {
		// The migration write is opportunistic; the read still serves.
		log.Printf("[WARN] config format migration failed: %v", err)
	}
	return cfg, nil
}

// Persist writes cfg in current format, mirrors it best-effort into the
// legacy format, and returns the value re-read from the current key so
// callers observe what was actually stored.
func (s *Store) Persist(ctx context.Context, cfg Config) (Config, error) {
	if err := s.writeCurrent(ctx, cfg); err != nil {
		return Config{}, err
	}

	s.mirrorLegacy(ctx, cfg)

	raw, err := s.kv.Get(ctx, configKey)
	if err != nil {
		return Config{}, fmt.Errorf("reread config: %w", err)
	}
	var stored Config
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return Config{}, fmt.Errorf("reread config: %w", err)
	}
	return withDefaults(stored), nil
}

func (s *Store) writeCurrent(ctx context.Context, cfg Config) error {
	blob, err := json.Marshal(withDefaults(cfg))
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := s.kv.Set(ctx, configKey, string(blob)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// mirrorLegacy keeps the old per-field record in sync. Failures are logged
// and swallowed: the current-format write already succeeded and is never
// rolled back because of the mirror. A key found holding an incompatible
// storage type is deleted and recreated once.
func (s *Store) mirrorLegacy(ctx context.Context, cfg Config) {
	fields, err := encodeLegacy(cfg)
	if err != nil {
		log.Printf("[WARN] legacy config mirror failed: %v", err)
		return
	}

	err = s.kv.HSet(ctx, legacyConfigKey, fields)
	if errors.Is(err, store.ErrWrongType) {
		if delErr := s.kv.Del(ctx, legacyConfigKey); delErr != nil {
			log.Printf("[WARN] legacy config mirror failed: %v", delErr)
			return
		}
		err = s.kv.HSet(ctx, legacyConfigKey, fields)
	}
	if err != nil {
		log.Printf("[WARN] legacy config mirror failed: %v", err)
	}
}

func encodeLegacy(cfg Config) (map[string]string, error) {
	shifts, err := json.Marshal(cfg.Shifts)
	if err != nil {
		return nil, fmt.Errorf("encode shifts: %w", err)
	}
	start := ""
	if cfg.Start != nil {
		start = *cfg.Start
	}
	return map[string]string{
		"live":   legacyBool(cfg.Live),
		"ended":  legacyBool(cfg.Ended),
		"start":  start,
		"info":   cfg.Info,
		"shifts": string(shifts),
	}, nil
}

// decodeLegacy converts the per-field record through the same fold the
// write path uses, so a legacy record that predates an invariant still
// comes back normalized.
func decodeLegacy(fields map[string]string) Config {
	sub := Submission{
		Live:  fields["live"] == "1",
		Ended: fields["ended"] == "1",
		Info:  fields["info"],
	}
	if start := fields["start"]; start != "" {
		sub.Start = start
	}
	if shifts := fields["shifts"]; shifts != "" {
		sub.Shifts = shifts
	}
	return Normalize(sub)
}

func legacyBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func withDefaults(cfg Config) Config {
	if cfg.Shifts == nil {
		cfg.Shifts = []Shift{}
	}
	return cfg
}
