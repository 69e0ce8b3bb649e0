package keyrecovery

import "testing"

func TestKeySetDedup(t *testing.T) {
	var ks KeySet
	k := Key{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5}

	if added := ks.Add(k); !added {
		t.Fatalf("first Add reported not-added")
	}
	if added := ks.Add(k); added {
		t.Fatalf("second Add of the same key reported added")
	}
	if ks.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ks.Len())
	}

	other := Key{1, 2, 3, 4, 5, 6}
	if added := ks.Add(other); !added {
		t.Fatalf("Add of a distinct key reported not-added")
	}
	if ks.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ks.Len())
	}
	if got := ks.Keys(); got[0] != k || got[1] != other {
		t.Fatalf("Keys() = %v, want insertion order [%x %x]", got, k, other)
	}
}

func TestCancelFlagNilSafe(t *testing.T) {
	var c *CancelFlag
	if c.IsSet() {
		t.Fatalf("nil CancelFlag reported set")
	}
	c.Set() // must not panic
	c.Clear()
}

func TestCancelFlag(t *testing.T) {
	var c CancelFlag
	if c.IsSet() {
		t.Fatalf("zero-value CancelFlag reported set")
	}
	c.Set()
	if !c.IsSet() {
		t.Fatalf("CancelFlag did not report set after Set")
	}
	c.Clear()
	if c.IsSet() {
		t.Fatalf("CancelFlag still reported set after Clear")
	}
}
