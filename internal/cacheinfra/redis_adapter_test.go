package cacheinfra

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisBackend(t *testing.T) (*RedisBackend, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Addr = server.Addr()
	cfg.ScanCount = 2

	backend, err := NewRedisBackend(cfg)
	if err != nil {
		t.Fatalf("NewRedisBackend() error = %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	return backend, server
}

func TestRedisConfig_Validate(t *testing.T) {
	if err := DefaultRedisConfig().Validate(); err != nil {
		t.Fatalf("expected default config to be valid, got %v", err)
	}

	cfg := DefaultRedisConfig()
	cfg.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty address")
	}

	cfg = DefaultRedisConfig()
	cfg.DB = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative DB")
	}
}

func TestRedisBackend_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	backend, server := newTestRedisBackend(t)

	if err := backend.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	if _, ok, err := backend.Get(ctx, "tasks:item:1"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := backend.Set(ctx, "tasks:item:1", []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := backend.Get(ctx, "tasks:item:1")
	if err != nil || !ok || string(value) != "payload" {
		t.Fatalf("expected hit with payload, got %q ok=%v err=%v", value, ok, err)
	}

	if ttl := server.TTL("tasks:item:1"); ttl != time.Minute {
		t.Errorf("expected server TTL of 1m, got %v", ttl)
	}

	server.FastForward(2 * time.Minute)
	if _, ok, _ := backend.Get(ctx, "tasks:item:1"); ok {
		t.Error("expected entry to expire server side")
	}

	backend.Set(ctx, "tasks:item:2", []byte("x"), time.Minute)
	if err := backend.Delete(ctx, "tasks:item:2"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if server.Exists("tasks:item:2") {
		t.Error("expected key to be deleted")
	}
}

func TestRedisBackend_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	backend, server := newTestRedisBackend(t)

	keys := []string{
		"tasks:collection:list::map[0]:{}",
		"tasks:collection:page::map[2]:{limit=20,page=1}",
		"tasks:collection:page::map[2]:{limit=20,page=2}",
		"tasks:collection:page::map[2]:{limit=20,page=3}",
		"tasks:item:1",
		"other:collection:list",
	}
	for _, key := range keys {
		if err := backend.Set(ctx, key, []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if err := backend.DeleteByPrefix(ctx, "tasks:collection:"); err != nil {
		t.Fatalf("DeleteByPrefix() error = %v", err)
	}

	for _, key := range keys[:4] {
		if server.Exists(key) {
			t.Errorf("expected %q to be deleted", key)
		}
	}
	for _, key := range keys[4:] {
		if !server.Exists(key) {
			t.Errorf("expected %q to survive", key)
		}
	}
}

func TestRedisBackend_DeleteByPrefix_SpansManyScanPages(t *testing.T) {
	ctx := context.Background()
	backend, server := newTestRedisBackend(t)

	for i := 0; i < 25; i++ {
		backend.Set(ctx, fmt.Sprintf("tasks:collection:page::map[2]:{limit=5,page=%d}", i+1), []byte("v"), time.Minute)
		backend.Set(ctx, fmt.Sprintf("tasks:item:%d", i+1), []byte("v"), time.Minute)
	}

	if err := backend.DeleteByPrefix(ctx, "tasks:collection:"); err != nil {
		t.Fatalf("DeleteByPrefix() error = %v", err)
	}

	for _, key := range server.Keys() {
		if strings.HasPrefix(key, "tasks:collection:") {
			t.Errorf("expected %q to be deleted", key)
		}
	}
	if n := len(server.Keys()); n != 25 {
		t.Errorf("expected 25 item keys to survive, got %d", n)
	}
}

func TestRedisBackend_DeleteByPrefix_EscapesGlob(t *testing.T) {
	ctx := context.Background()
	backend, server := newTestRedisBackend(t)

	backend.Set(ctx, "a*b:1", []byte("v"), time.Minute)
	backend.Set(ctx, "axxb:1", []byte("v"), time.Minute)

	if err := backend.DeleteByPrefix(ctx, "a*b:"); err != nil {
		t.Fatalf("DeleteByPrefix() error = %v", err)
	}

	if server.Exists("a*b:1") {
		t.Error("expected literal prefix match to be deleted")
	}
	if !server.Exists("axxb:1") {
		t.Error("expected glob characters in prefix to be treated literally")
	}
}

func TestRedisBackend_TransportFailure(t *testing.T) {
	ctx := context.Background()
	backend, server := newTestRedisBackend(t)

	server.Close()

	if _, _, err := backend.Get(ctx, "tasks:item:1"); err == nil {
		t.Error("expected Get to fail with the server down")
	}
	if err := backend.Set(ctx, "tasks:item:1", []byte("v"), time.Minute); err == nil {
		t.Error("expected Set to fail with the server down")
	}
	if err := backend.DeleteByPrefix(ctx, "tasks:"); err == nil {
		t.Error("expected DeleteByPrefix to fail with the server down")
	}
}
