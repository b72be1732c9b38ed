package cache

import (
	"testing"
	"time"
)

func TestStoreGetSet(t *testing.T) {
	store := NewStore()
	store.Set("key", "value", time.Minute)
	val, ok := store.Get("key")
	if !ok {
		t.Fatalf("expected key to be present")
	}
	if val.(string) != "value" {
		t.Fatalf("unexpected value: %v", val)
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore()
	now := time.Unix(1000, 0)
	store.now = func() time.Time { return now }
	store.Set("key", "value", 5*time.Second)
	now = now.Add(6 * time.Second)
	if _, ok := store.Get("key"); ok {
		t.Fatalf("expected key to expire")
	}
	if store.Len() != 0 {
		t.Fatalf("expired entry should be evicted on read")
	}
}

func TestStoreClear(t *testing.T) {
	store := NewStore()
	store.Set("a", 1, time.Minute)
	store.Set("b", 2, 0)
	if store.Len() != 2 {
		t.Fatalf("expected two entries")
	}
	store.Clear()
	if _, ok := store.Get("b"); ok || store.Len() != 0 {
		t.Fatalf("expected store to be empty after clear")
	}
}

func TestNilStore(t *testing.T) {
	var store *Store
	store.Set("k", "v", time.Minute)
	store.Clear()
	if _, ok := store.Get("k"); ok || store.Len() != 0 {
		t.Fatalf("nil store must be inert")
	}
}
