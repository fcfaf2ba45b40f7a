package cacheinfra

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDefaultMemoryConfig(t *testing.T) {
	cfg := DefaultMemoryConfig()

	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}

	if cfg.NumShards != 256 {
		t.Errorf("expected NumShards to be 256, got %d", cfg.NumShards)
	}

	if cfg.MaxTTL != time.Hour {
		t.Errorf("expected MaxTTL to be 1 hour, got %v", cfg.MaxTTL)
	}

	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestMemoryConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      MemoryConfig
		errorMsg string
	}{
		{
			name:     "invalid capacity - zero",
			cfg:      MemoryConfig{Capacity: 0, NumShards: 256, MaxTTL: time.Minute, EvictionPercentage: 10},
			errorMsg: "Capacity",
		},
		{
			name:     "invalid num shards - zero",
			cfg:      MemoryConfig{Capacity: 10, NumShards: 0, MaxTTL: time.Minute, EvictionPercentage: 10},
			errorMsg: "NumShards",
		},
		{
			name:     "invalid max ttl - zero",
			cfg:      MemoryConfig{Capacity: 10, NumShards: 4, MaxTTL: 0, EvictionPercentage: 10},
			errorMsg: "MaxTTL",
		},
		{
			name:     "invalid eviction percentage - too high",
			cfg:      MemoryConfig{Capacity: 10, NumShards: 4, MaxTTL: time.Minute, EvictionPercentage: 101},
			errorMsg: "must be between 1 and 100",
		},
		{
			name:     "invalid eviction interval - negative",
			cfg:      MemoryConfig{Capacity: 10, NumShards: 4, MaxTTL: time.Minute, EvictionPercentage: 10, EvictionInterval: -time.Second},
			errorMsg: "EvictionInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if _, ok := err.(*ConfigError); !ok {
				t.Errorf("expected *ConfigError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
			}
		})
	}
}

func newTestMemoryBackend(t *testing.T) (*MemoryBackend, *time.Time) {
	t.Helper()

	backend, err := NewMemoryBackend(MemoryConfig{
		Capacity:           100,
		NumShards:          4,
		MaxTTL:             time.Hour,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("NewMemoryBackend() error = %v", err)
	}

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	backend.now = func() time.Time { return now }
	return backend, &now
}

func TestMemoryBackend_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	backend, _ := newTestMemoryBackend(t)

	if _, ok, err := backend.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := backend.Set(ctx, "tasks:item:1", []byte("one"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := backend.Get(ctx, "tasks:item:1")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if string(value) != "one" {
		t.Errorf("expected value 'one', got %q", value)
	}

	value[0] = 'X'
	again, _, _ := backend.Get(ctx, "tasks:item:1")
	if string(again) != "one" {
		t.Errorf("stored value was aliased, got %q", again)
	}

	if err := backend.Delete(ctx, "tasks:item:1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := backend.Get(ctx, "tasks:item:1"); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryBackend_PerEntryTTL(t *testing.T) {
	ctx := context.Background()
	backend, now := newTestMemoryBackend(t)

	backend.Set(ctx, "short", []byte("s"), time.Minute)
	backend.Set(ctx, "long", []byte("l"), 10*time.Minute)
	backend.Set(ctx, "capped", []byte("c"), 48*time.Hour)

	*now = now.Add(2 * time.Minute)

	if _, ok, _ := backend.Get(ctx, "short"); ok {
		t.Error("expected short entry to be expired")
	}
	if _, ok, _ := backend.Get(ctx, "long"); !ok {
		t.Error("expected long entry to be alive")
	}

	*now = now.Add(2 * time.Hour)
	if _, ok, _ := backend.Get(ctx, "capped"); ok {
		t.Error("expected entry to be capped at MaxTTL")
	}
}

func TestMemoryBackend_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	backend, _ := newTestMemoryBackend(t)

	backend.Set(ctx, "tasks:collection:list::a", []byte("1"), time.Minute)
	backend.Set(ctx, "tasks:collection:page::b", []byte("2"), time.Minute)
	backend.Set(ctx, "tasks:item:1", []byte("3"), time.Minute)

	if err := backend.DeleteByPrefix(ctx, "tasks:collection:"); err != nil {
		t.Fatalf("DeleteByPrefix() error = %v", err)
	}

	if _, ok, _ := backend.Get(ctx, "tasks:collection:list::a"); ok {
		t.Error("expected list entry to be removed")
	}
	if _, ok, _ := backend.Get(ctx, "tasks:collection:page::b"); ok {
		t.Error("expected page entry to be removed")
	}
	if _, ok, _ := backend.Get(ctx, "tasks:item:1"); !ok {
		t.Error("expected item entry to survive")
	}
	if backend.Size() != 1 {
		t.Errorf("expected 1 entry left, got %d", backend.Size())
	}
}
