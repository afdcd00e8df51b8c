package cache

import (
	"strings"
	"testing"
	"time"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("Expected miss on empty cache")
	}

	if err := c.Set("k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := c.Get("k")
	if !ok || string(got) != "v" {
		t.Errorf("Expected hit with value v, got %q (%v)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", c.Len())
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set("short", []byte("x"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	if _, ok := c.Get("short"); ok {
		t.Error("Expected entry to expire")
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("robots", "example.org")
	b := CacheKey("robots", "example.org")
	c := CacheKey("robots", "example.com")

	if a != b {
		t.Error("Expected stable keys")
	}
	if a == c {
		t.Error("Expected distinct keys for distinct ids")
	}
	if !strings.HasPrefix(a, "stratsearch:v1:robots:") {
		t.Errorf("Unexpected key prefix: %s", a)
	}
}
