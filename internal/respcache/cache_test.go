package respcache

import (
	"testing"
	"time"

	"github.com/hookhost/hookhost/internal/descriptor"
)

func descFor(body string) descriptor.Descriptor {
	return descriptor.Descriptor{Status: 200, Data: descriptor.BytesData([]byte(body))}
}

func TestEvictionUnderPressure(t *testing.T) {
	c := New(1000)
	future := time.Now().Add(time.Hour)

	c.Put("A", descFor("a"), 600, future)
	c.Put("B", descFor("b"), 300, future)
	c.Put("C", descFor("c"), 200, future)

	if c.TotalSize() != 500 {
		t.Fatalf("TotalSize() = %d, want 500", c.TotalSize())
	}
	if _, ok := c.Get("A"); ok {
		t.Fatalf("expected A evicted as LRU tail")
	}
	if _, ok := c.Get("B"); !ok {
		t.Fatalf("expected B to remain cached")
	}
	if _, ok := c.Get("C"); !ok {
		t.Fatalf("expected C to remain cached")
	}
}

func TestExpiredHitIsRemoved(t *testing.T) {
	c := New(1000)
	c.Put("K", descFor("k"), 100, time.Now().Add(-time.Millisecond))

	if _, ok := c.Get("K"); ok {
		t.Fatalf("expected expired entry to report a miss")
	}
	if c.TotalSize() != 0 {
		t.Fatalf("TotalSize() = %d, want 0 after expired-entry eviction", c.TotalSize())
	}
}

func TestGetMissingLeavesSizeUnchanged(t *testing.T) {
	c := New(1000)
	c.Put("K", descFor("k"), 100, time.Now().Add(time.Hour))
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
	if c.TotalSize() != 100 {
		t.Fatalf("TotalSize() = %d, want 100 unchanged", c.TotalSize())
	}
}

func TestPutThenDoubleGetRefreshesRecency(t *testing.T) {
	c := New(0)
	future := time.Now().Add(time.Hour)
	c.Put("K", descFor("v1"), 10, future)

	d1, ok := c.Get("K")
	if !ok || d1.Data.Bytes == nil {
		t.Fatalf("expected first Get to hit")
	}
	d2, ok := c.Get("K")
	if !ok || string(d2.Data.Bytes) != string(d1.Data.Bytes) {
		t.Fatalf("expected second Get to return the same descriptor")
	}
}

func TestPutUpdateAdjustsSizeDelta(t *testing.T) {
	c := New(1000)
	future := time.Now().Add(time.Hour)
	c.Put("K", descFor("short"), 5, future)
	c.Put("K", descFor("longer body"), 11, future)

	if c.TotalSize() != 11 {
		t.Fatalf("TotalSize() = %d, want 11 after update", c.TotalSize())
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (update must not duplicate entry)", c.Len())
	}
}

func TestSizeLimitZeroDisablesEviction(t *testing.T) {
	c := New(0)
	future := time.Now().Add(time.Hour)
	for i := 0; i < 5; i++ {
		c.Put(string(rune('A'+i)), descFor("x"), 1_000_000, future)
	}
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5 with size limit disabled", c.Len())
	}
}

func TestRemove(t *testing.T) {
	c := New(1000)
	c.Put("K", descFor("v"), 10, time.Now().Add(time.Hour))
	c.Remove("K")
	if _, ok := c.Get("K"); ok {
		t.Fatalf("expected Remove to evict the entry")
	}
	if c.TotalSize() != 0 {
		t.Fatalf("TotalSize() = %d, want 0 after Remove", c.TotalSize())
	}
}
