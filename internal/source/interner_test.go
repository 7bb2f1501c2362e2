package source

import "testing"

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID must map to the empty string, got %q ok=%v", s, ok)
	}

	id1 := interner.Intern("spam")
	if id1 == NoStringID {
		t.Fatal("Intern returned NoStringID for a non-empty string")
	}
	if id2 := interner.Intern("spam"); id1 != id2 {
		t.Errorf("same string interned twice: %d != %d", id1, id2)
	}
	if s, ok := interner.Lookup(id1); !ok || s != "spam" {
		t.Errorf("Lookup = %q, %v", s, ok)
	}
	if id3 := interner.Intern("eggs"); id3 == id1 {
		t.Error("different strings share an ID")
	}
	if interner.Len() != 3 {
		t.Errorf("Len = %d, want 3", interner.Len())
	}
	if _, ok := interner.Find("ham"); ok {
		t.Error("Find must not intern")
	}
	if interner.Len() != 3 {
		t.Errorf("Find changed Len to %d", interner.Len())
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	interner := NewInterner()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic for an unknown ID")
		}
	}()
	interner.MustLookup(StringID(9999))
}

func TestInternerSnapshotRoundTrip(t *testing.T) {
	interner := NewInterner()
	a := interner.Intern("a")
	b := interner.Intern("b.c")

	snapshot := interner.Snapshot()
	snapshot[1] = "mutated"
	if s, _ := interner.Lookup(a); s != "a" {
		t.Fatal("Snapshot must return a copy")
	}

	restored := NewInternerFrom(interner.Snapshot())
	if got, _ := restored.Find("a"); got != a {
		t.Errorf("restored a = %d, want %d", got, a)
	}
	if got, _ := restored.Find("b.c"); got != b {
		t.Errorf("restored b.c = %d, want %d", got, b)
	}
}
