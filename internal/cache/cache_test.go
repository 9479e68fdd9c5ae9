package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("unexpected hit on empty store")
	}

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok, err := c.Get(ctx, "k")

	if err != nil || !ok || !bytes.Equal(got, []byte("v")) {
		t.Fatalf("get = %q/%v/%v, want v", got, ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("hit after delete")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	c := &Memory{ttl: 10 * time.Millisecond, m: make(map[string]entry)}

	_ = c.Set(ctx, "k", []byte("v"))

	time.Sleep(25 * time.Millisecond)

	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
}
