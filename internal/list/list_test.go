package list

import "testing"

func TestPushAndOrder(t *testing.T) {
	l := New[int]()
	l.PushBack(1)
	l.PushBack(2)
	l.PushBack(3)

	var got []int
	for e := l.Front(); e != nil; e = e.Next() {
		got = append(got, e.Value)
	}
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v want %v", i, got, want)
		}
	}
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
}

func TestRemoveArbitrary(t *testing.T) {
	l := New[string]()
	a := l.PushBack("a")
	b := l.PushBack("b")
	c := l.PushBack("c")

	l.Remove(b)
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
	if a.Next() != c || c.Prev() != a {
		t.Fatalf("list not relinked after removing middle element")
	}

	l.Remove(a)
	if l.Front() != c {
		t.Fatalf("Front() = %v, want c", l.Front())
	}

	l.Remove(c)
	if l.Front() != nil || l.Back() != nil || l.Len() != 0 {
		t.Fatalf("expected empty list after removing all elements")
	}
}

func TestMoveToFront(t *testing.T) {
	l := New[int]()
	l.PushBack(1)
	mid := l.PushBack(2)
	l.PushBack(3)

	l.MoveToFront(mid)
	if l.Front().Value != 2 {
		t.Fatalf("Front().Value = %d, want 2", l.Front().Value)
	}
	if l.Back().Value != 3 {
		t.Fatalf("Back().Value = %d, want 3", l.Back().Value)
	}

	l.MoveToFront(l.Front())
	if l.Front().Value != 2 {
		t.Fatalf("MoveToFront on the head must be a no-op")
	}
}

func TestRemoveThenReuseHandleIsNoop(t *testing.T) {
	l := New[int]()
	e := l.PushBack(1)
	l.Remove(e)
	l.Remove(e) // must not panic or corrupt state on double-remove
	if l.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", l.Len())
	}
}
