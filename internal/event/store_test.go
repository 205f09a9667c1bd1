package event

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"gitea.jw6.us/james/countboard/internal/store"
)

func TestStoreLoadEmpty(t *testing.T) {
	s := NewStore(store.NewMemory())

	cfg, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, Default())
	}
}

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(store.NewMemory())
	ctx := context.Background()

	cfg := Normalize(Submission{
		Live: true,
		Info: "Inventur läuft",
		Shifts: []any{
			map[string]any{"type": "Früh", "date": "2025-01-01", "status": "Muss arbeiten"},
		},
	})

	persisted, err := s.Persist(ctx, cfg)
	if err != nil {
		t.Fatalf("Persist() error: %v", err)
	}
	if !reflect.DeepEqual(persisted, cfg) {
		t.Errorf("Persist() = %+v, want %+v", persisted, cfg)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}

	// Persisting the already-normalized value again must not change it.
	again, err := s.Persist(ctx, loaded)
	if err != nil {
		t.Fatalf("second Persist() error: %v", err)
	}
	if !reflect.DeepEqual(again, loaded) {
		t.Errorf("repeated Persist() = %+v, want %+v", again, loaded)
	}
}

func TestStoreMirrorsLegacyFormat(t *testing.T) {
	kv := store.NewMemory()
	s := NewStore(kv)
	ctx := context.Background()

	start := "2025-11-14T14:15:00+01:00"
	if _, err := s.Persist(ctx, Normalize(Submission{Start: start, Info: "bald"})); err != nil {
		t.Fatalf("Persist() error: %v", err)
	}

	fields, err := kv.HGetAll(ctx, legacyConfigKey)
	if err != nil {
		t.Fatalf("HGetAll() error: %v", err)
	}
	want := map[string]string{
		"live":   "0",
		"ended":  "0",
		"start":  start,
		"info":   "bald",
		"shifts": "[]",
	}
	if !reflect.DeepEqual(fields, want) {
		t.Errorf("legacy mirror = %v, want %v", fields, want)
	}
}

func TestStoreMigratesLegacyOnRead(t *testing.T) {
	kv := store.NewMemory()
	s := NewStore(kv)
	ctx := context.Background()

	err := kv.HSet(ctx, legacyConfigKey, map[string]string{
		"live":   "1",
		"ended":  "0",
		"start":  "2025-01-01T00:00:00Z", // stale; the fold clears it for a live event
		"info":   "altbestand",
		"shifts": `[{"type":"Nacht","date":"2025-01-01","status":"Hat frei"}]`,
	})
	if err != nil {
		t.Fatalf("HSet() error: %v", err)
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Live || cfg.Ended {
		t.Errorf("phase flags = live %v ended %v, want live only", cfg.Live, cfg.Ended)
	}
	if cfg.Start != nil {
		t.Errorf("Start = %q, want nil for a live event", *cfg.Start)
	}
	if cfg.Info != "altbestand" {
		t.Errorf("Info = %q, want %q", cfg.Info, "altbestand")
	}
	wantShifts := []Shift{{Type: KindNight, Date: "2025-01-01", Status: StatusFree}}
	if !reflect.DeepEqual(cfg.Shifts, wantShifts) {
		t.Errorf("Shifts = %v, want %v", cfg.Shifts, wantShifts)
	}

	// The record must now be retrievable through the current-format key
	// alone; drop the legacy key and load again.
	if err := kv.Del(ctx, legacyConfigKey); err != nil {
		t.Fatalf("Del() error: %v", err)
	}
	migrated, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() after migration error: %v", err)
	}
	if !reflect.DeepEqual(migrated, cfg) {
		t.Errorf("Load() after migration = %+v, want %+v", migrated, cfg)
	}
}

func TestStoreCorruptCurrentFallsBackToLegacy(t *testing.T) {
	kv := store.NewMemory()
	s := NewStore(kv)
	ctx := context.Background()

	if err := kv.Set(ctx, configKey, "{not json"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	err := kv.HSet(ctx, legacyConfigKey, map[string]string{"info": "aus altbestand", "live": "0", "ended": "0"})
	if err != nil {
		t.Fatalf("HSet() error: %v", err)
	}

	cfg, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Info != "aus altbestand" {
		t.Errorf("Info = %q, want legacy value", cfg.Info)
	}
}

func TestStoreMirrorRecreatesWrongTypeKey(t *testing.T) {
	kv := store.NewMemory()
	s := NewStore(kv)
	ctx := context.Background()

	// A string value under the legacy key makes HSet fail with a type
	// error; the mirror must delete and recreate it rather than fail the
	// write.
	if err := kv.Set(ctx, legacyConfigKey, "stray string"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	cfg := Normalize(Submission{Info: "neu"})
	persisted, err := s.Persist(ctx, cfg)
	if err != nil {
		t.Fatalf("Persist() error: %v", err)
	}
	if persisted.Info != "neu" {
		t.Errorf("Info = %q, want %q", persisted.Info, "neu")
	}

	fields, err := kv.HGetAll(ctx, legacyConfigKey)
	if err != nil {
		t.Fatalf("HGetAll() error: %v", err)
	}
	if fields["info"] != "neu" {
		t.Errorf("recreated mirror info = %q, want %q", fields["info"], "neu")
	}
}

func TestStorePersistReturnsRereadValue(t *testing.T) {
	kv := store.NewMemory()
	s := NewStore(kv)
	ctx := context.Background()

	cfg := Normalize(Submission{Info: "echo"})
	persisted, err := s.Persist(ctx, cfg)
	if err != nil {
		t.Fatalf("Persist() error: %v", err)
	}

	raw, err := kv.Get(ctx, configKey)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	var stored Config
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.Fatalf("stored blob is not valid JSON: %v", err)
	}
	if !reflect.DeepEqual(persisted, withDefaults(stored)) {
		t.Errorf("Persist() = %+v, stored = %+v", persisted, stored)
	}
}
