package hooks

import (
	"testing"

	"github.com/hookhost/hookhost/internal/hookdef"
)

func syncFn(source string, priority int, mask CategoryMask) *Function {
	return &Function{
		Source:   source,
		HookName: "onRequest",
		Mask:     mask,
		Priority: priority,
		Policy:   PolicySync,
		Body:     func(ctx *hookdef.Context, args []any) (any, error) { return source, nil },
	}
}

func TestChainSnapshotOrdersByAscendingPriority(t *testing.T) {
	c := newChain()
	c.upsert(syncFn("c", 30, AllCats))
	c.upsert(syncFn("a", 10, AllCats))
	c.upsert(syncFn("b", 20, AllCats))

	snap := c.Snapshot(AllCats, false)
	if len(snap) != 3 {
		t.Fatalf("Snapshot length = %d, want 3", len(snap))
	}
	var order []string
	for _, fn := range snap {
		order = append(order, fn.Source)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestChainSnapshotIsStableOnTiedPriority(t *testing.T) {
	c := newChain()
	c.upsert(syncFn("first", 0, AllCats))
	c.upsert(syncFn("second", 0, AllCats))
	c.upsert(syncFn("third", 0, AllCats))

	snap := c.Snapshot(AllCats, false)
	want := []string{"first", "second", "third"}
	for i, fn := range snap {
		if fn.Source != want[i] {
			t.Fatalf("tied-priority order = %v, want insertion order %v", snap, want)
		}
	}
}

func TestChainUpsertReplacesSameSourceInPlace(t *testing.T) {
	c := newChain()
	c.upsert(syncFn("a", 10, AllCats))
	c.upsert(syncFn("a", 5, AllCats)) // same source, new priority

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after replacing same source", c.Len())
	}
	snap := c.Snapshot(AllCats, false)
	if snap[0].Priority != 5 {
		t.Fatalf("replaced function priority = %d, want 5", snap[0].Priority)
	}
}

func TestChainRemoveSourceDropsOnlyThatSource(t *testing.T) {
	c := newChain()
	c.upsert(syncFn("a", 0, AllCats))
	c.upsert(syncFn("b", 0, AllCats))

	removed := c.removeSource("a")
	if !removed {
		t.Fatalf("removeSource(a) = false, want true")
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after removing one source", c.Len())
	}
	if c.Snapshot(AllCats, false)[0].Source != "b" {
		t.Fatalf("expected remaining function to be from source b")
	}

	if c.removeSource("nonexistent") {
		t.Fatalf("removeSource(nonexistent) = true, want false")
	}
}

func TestChainSnapshotFiltersByCategoryMask(t *testing.T) {
	c := newChain()
	c.upsert(syncFn("a", 0, CategoryBit('A')))
	c.upsert(syncFn("b", 0, CategoryBit('B')))

	snap := c.Snapshot(CategoryBit('A'), false)
	if len(snap) != 1 || snap[0].Source != "a" {
		t.Fatalf("INCLUSIVE category filter = %v, want only source a", snap)
	}
}
